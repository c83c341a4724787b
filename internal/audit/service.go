package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/startupops/backend/internal/models"
	"github.com/startupops/backend/internal/queue"
	"github.com/startupops/backend/internal/tenant"
)

// Service appends immutable audit entries and reads them back newest-first.
// Writes are decoupled from the request path: Record enqueues the entry and
// falls back to a direct insert when the queue is unreachable. It never
// reports failure to the caller; a lost audit entry must not fail the
// operation that triggered it.
type Service struct {
	db    *pgxpool.Pool
	queue *queue.Client
}

func NewService(db *pgxpool.Pool, q *queue.Client) *Service {
	return &Service{db: db, queue: q}
}

// Record appends one entry for the actor. Best effort only.
func (s *Service) Record(ctx context.Context, actor *models.User, action, resource, details string) {
	if actor == nil {
		return
	}

	var tenantID *string
	if actor.TenantID != uuid.Nil {
		id := actor.TenantID.String()
		tenantID = &id
	}

	payload := queue.AuditWritePayload{
		TenantID: tenantID,
		UserID:   actor.ID.String(),
		UserName: actor.FullName,
		Action:   action,
		Resource: resource,
		Details:  details,
	}

	if s.queue != nil {
		if err := s.queue.EnqueueAuditWrite(payload); err == nil {
			return
		} else {
			slog.Warn("audit enqueue failed, writing synchronously", "error", err)
		}
	}

	if err := s.Insert(ctx, payload); err != nil {
		slog.Error("audit write failed", "action", action, "resource", resource, "error", err)
	}
}

// Insert writes one entry. Used by the queue worker and as the synchronous
// fallback.
func (s *Service) Insert(ctx context.Context, p queue.AuditWritePayload) error {
	var tenantID *uuid.UUID
	if p.TenantID != nil {
		id, err := uuid.Parse(*p.TenantID)
		if err != nil {
			return fmt.Errorf("parse tenant id: %w", err)
		}
		tenantID = &id
	}

	userID, err := uuid.Parse(p.UserID)
	if err != nil {
		return fmt.Errorf("parse user id: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO audit_logs (tenant_id, user_id, user_name, action, resource, details)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		tenantID, userID, p.UserName, p.Action, p.Resource, p.Details)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List returns entries visible under the scope, newest first.
func (s *Service) List(ctx context.Context, sc tenant.Scope, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 200
	}

	clause, args := sc.SQL("tenant_id", 1)
	args = append(args, limit)
	rows, err := s.db.Query(ctx,
		fmt.Sprintf(`SELECT id, tenant_id, user_id, user_name, action, resource, details, created_at
			 FROM audit_logs WHERE %s ORDER BY created_at DESC LIMIT $%d`, clause, len(args)),
		args...)
	if err != nil {
		return nil, fmt.Errorf("query audit logs: %w", err)
	}
	defer rows.Close()

	logs := []models.AuditLog{}
	for rows.Next() {
		var l models.AuditLog
		if err := rows.Scan(&l.ID, &l.TenantID, &l.UserID, &l.UserName, &l.Action, &l.Resource, &l.Details, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
