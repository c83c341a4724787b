package validation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/startupops/backend/internal/apperr"
	"github.com/startupops/backend/internal/models"
)

// Service runs the founder community idea board. Ideas are global: every
// authenticated user sees the same board regardless of tenant.
type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

// toggleVote adds the user to the voter set, or removes them if they already
// voted. The vote count is always the size of the set.
func toggleVote(voters []uuid.UUID, user uuid.UUID) []uuid.UUID {
	for i, v := range voters {
		if v == user {
			return append(voters[:i:i], voters[i+1:]...)
		}
	}
	return append(voters, user)
}

const ideaColumns = "id, title, description, category, priority, votes, voters, feedback, status, created_by, created_by_name, created_at, updated_at"

func scanIdea(row pgx.Row) (*models.Idea, error) {
	var idea models.Idea
	var voters, feedback []byte
	err := row.Scan(&idea.ID, &idea.Title, &idea.Description, &idea.Category, &idea.Priority,
		&idea.Votes, &voters, &feedback, &idea.Status, &idea.CreatedBy, &idea.CreatedByName,
		&idea.CreatedAt, &idea.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(voters) > 0 {
		if err := json.Unmarshal(voters, &idea.Voters); err != nil {
			return nil, fmt.Errorf("decode voters: %w", err)
		}
	}
	if len(feedback) > 0 {
		if err := json.Unmarshal(feedback, &idea.Feedback); err != nil {
			return nil, fmt.Errorf("decode feedback: %w", err)
		}
	}
	if idea.Voters == nil {
		idea.Voters = []uuid.UUID{}
	}
	if idea.Feedback == nil {
		idea.Feedback = []models.IdeaFeedback{}
	}
	return &idea, nil
}

// List returns every idea, most voted first.
func (s *Service) List(ctx context.Context) ([]models.Idea, error) {
	rows, err := s.db.Query(ctx,
		"SELECT "+ideaColumns+" FROM ideas ORDER BY votes DESC, created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	defer rows.Close()

	ideas := []models.Idea{}
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, fmt.Errorf("scan idea: %w", err)
		}
		ideas = append(ideas, *idea)
	}
	return ideas, rows.Err()
}

type IdeaInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

func (s *Service) Create(ctx context.Context, actor *models.User, in IdeaInput) (*models.Idea, error) {
	if in.Title == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "title is required")
	}
	if in.Priority == "" {
		in.Priority = "medium"
	}
	idea, err := scanIdea(s.db.QueryRow(ctx,
		`INSERT INTO ideas (title, description, category, priority, created_by, created_by_name)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+ideaColumns,
		in.Title, in.Description, in.Category, in.Priority, actor.ID, actor.FullName))
	if err != nil {
		return nil, fmt.Errorf("create idea: %w", err)
	}
	return idea, nil
}

// Vote toggles the actor's vote. The row is locked for the read-modify-write
// so concurrent toggles cannot drop each other.
func (s *Service) Vote(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Idea, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	cur, err := scanIdea(tx.QueryRow(ctx,
		"SELECT "+ideaColumns+" FROM ideas WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "idea")
		}
		return nil, fmt.Errorf("get idea: %w", err)
	}

	voters := toggleVote(cur.Voters, actor.ID)
	encoded, err := json.Marshal(voters)
	if err != nil {
		return nil, fmt.Errorf("encode voters: %w", err)
	}
	idea, err := scanIdea(tx.QueryRow(ctx,
		`UPDATE ideas SET voters = $1, votes = $2, updated_at = now() WHERE id = $3
		 RETURNING `+ideaColumns,
		encoded, len(voters), id))
	if err != nil {
		return nil, fmt.Errorf("update votes: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return idea, nil
}

type FeedbackInput struct {
	Content   string `json:"content"`
	Sentiment string `json:"sentiment"`
}

// AddFeedback appends a comment to the idea's feedback thread.
func (s *Service) AddFeedback(ctx context.Context, actor *models.User, id uuid.UUID, in FeedbackInput) (*models.Idea, error) {
	if in.Content == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "content is required")
	}
	if in.Sentiment == "" {
		in.Sentiment = "neutral"
	}
	entry := models.IdeaFeedback{
		ID:        uuid.New(),
		UserID:    actor.ID,
		UserName:  actor.FullName,
		Content:   in.Content,
		Sentiment: in.Sentiment,
		CreatedAt: time.Now().UTC(),
	}
	encoded, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("encode feedback: %w", err)
	}

	idea, err := scanIdea(s.db.QueryRow(ctx,
		`UPDATE ideas SET feedback = feedback || $1::jsonb, updated_at = now() WHERE id = $2
		 RETURNING `+ideaColumns,
		encoded, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "idea")
		}
		return nil, fmt.Errorf("add feedback: %w", err)
	}
	return idea, nil
}
