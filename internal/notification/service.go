package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/startupops/backend/internal/models"
	"github.com/startupops/backend/internal/queue"
)

// Service stores per-user notifications. Creation from other modules goes
// through Notify, which enqueues and degrades to a direct insert; failures
// are logged, never surfaced.
type Service struct {
	db    *pgxpool.Pool
	queue *queue.Client
}

func NewService(db *pgxpool.Pool, q *queue.Client) *Service {
	return &Service{db: db, queue: q}
}

// Notify delivers a notification to a user, fire and forget.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, title, message, notifType string) {
	payload := queue.NotificationCreatePayload{
		UserID:  userID.String(),
		Type:    notifType,
		Title:   title,
		Message: message,
	}

	if s.queue != nil {
		if err := s.queue.EnqueueNotificationCreate(payload); err == nil {
			return
		} else {
			slog.Warn("notification enqueue failed, writing synchronously", "error", err)
		}
	}

	if err := s.Insert(ctx, payload); err != nil {
		slog.Error("notification write failed", "user_id", userID, "error", err)
	}
}

func (s *Service) Insert(ctx context.Context, p queue.NotificationCreatePayload) error {
	userID, err := uuid.Parse(p.UserID)
	if err != nil {
		return fmt.Errorf("parse user id: %w", err)
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO notifications (user_id, type, title, message) VALUES ($1, $2, $3, $4)`,
		userID, p.Type, p.Title, p.Message)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// List returns the user's notifications, newest first, capped at 50.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, type, title, message, read, created_at
		 FROM notifications WHERE user_id = $1 ORDER BY created_at DESC LIMIT 50`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	notifs := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

func (s *Service) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	_, err := s.db.Exec(ctx,
		"UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.Exec(ctx,
		"UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE", userID)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}
