package hr

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/startupops/backend/internal/apperr"
	"github.com/startupops/backend/internal/models"
	"github.com/startupops/backend/internal/tenant"
)

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

const leaveColumns = "id, tenant_id, user_id, user_name, type, start_date, end_date, reason, status, approved_by, created_at, updated_at"

func scanLeave(row pgx.Row) (*models.Leave, error) {
	var l models.Leave
	err := row.Scan(&l.ID, &l.TenantID, &l.UserID, &l.UserName, &l.Type, &l.StartDate, &l.EndDate,
		&l.Reason, &l.Status, &l.ApprovedBy, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListLeaves shows administrative roles the whole tenant; everyone else
// sees only their own requests.
func (s *Service) ListLeaves(ctx context.Context, actor *models.User) ([]models.Leave, error) {
	sc := tenant.ScopeForUser(actor)
	clause, args := sc.SQL("tenant_id", 1)
	q := "SELECT " + leaveColumns + " FROM leaves WHERE " + clause
	if !actor.Role.Administrative() {
		args = append(args, actor.ID)
		q += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	q += " ORDER BY created_at DESC"

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list leaves: %w", err)
	}
	defer rows.Close()

	leaves := []models.Leave{}
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("scan leave: %w", err)
		}
		leaves = append(leaves, *l)
	}
	return leaves, rows.Err()
}

type LeaveInput struct {
	Type      string `json:"type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

func (s *Service) CreateLeave(ctx context.Context, actor *models.User, in LeaveInput) (*models.Leave, error) {
	if in.Type == "" || in.StartDate == "" || in.EndDate == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "type, start_date and end_date are required")
	}
	l, err := scanLeave(s.db.QueryRow(ctx,
		`INSERT INTO leaves (tenant_id, user_id, user_name, type, start_date, end_date, reason)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+leaveColumns,
		actor.TenantID, actor.ID, actor.FullName, in.Type, in.StartDate, in.EndDate, in.Reason))
	if err != nil {
		return nil, fmt.Errorf("create leave: %w", err)
	}
	return l, nil
}

// UpdateLeaveStatus records the decision and the approver. A leave in
// another tenant reports not-found.
func (s *Service) UpdateLeaveStatus(ctx context.Context, id uuid.UUID, sc tenant.Scope, approver uuid.UUID, status string) (*models.Leave, error) {
	if status == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "status is required")
	}
	args := []interface{}{status, approver, id}
	q := "UPDATE leaves SET status = $1, approved_by = $2, updated_at = now() WHERE id = $3"
	if sc.TenantID != nil {
		q += " AND tenant_id = $4"
		args = append(args, *sc.TenantID)
	}
	q += " RETURNING " + leaveColumns

	l, err := scanLeave(s.db.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "leave")
		}
		return nil, fmt.Errorf("update leave: %w", err)
	}
	return l, nil
}
