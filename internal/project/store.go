package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/startupops/backend/internal/apperr"
	"github.com/startupops/backend/internal/finance"
	"github.com/startupops/backend/internal/models"
	"github.com/startupops/backend/internal/tenant"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

const projectColumns = "id, tenant_id, name, description, value, client_name, client_email, status, created_by, created_at, updated_at"

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.Description, &p.Value, &p.ClientName,
		&p.ClientEmail, &p.Status, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PGStore) ListProjects(ctx context.Context, sc tenant.Scope) ([]models.Project, error) {
	clause, args := sc.SQL("tenant_id", 1)
	rows, err := s.db.Query(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE "+clause+" ORDER BY created_at DESC", args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

func (s *PGStore) GetProject(ctx context.Context, id uuid.UUID, sc tenant.Scope) (*models.Project, error) {
	args := []interface{}{id}
	q := "SELECT " + projectColumns + " FROM projects WHERE id = $1"
	if sc.TenantID != nil {
		q += " AND tenant_id = $2"
		args = append(args, *sc.TenantID)
	}
	p, err := scanProject(s.db.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "project")
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func (s *PGStore) CreateProject(ctx context.Context, p *models.Project) (*models.Project, error) {
	created, err := scanProject(s.db.QueryRow(ctx,
		`INSERT INTO projects (tenant_id, name, description, value, client_name, client_email, status, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+projectColumns,
		p.TenantID, p.Name, p.Description, p.Value, p.ClientName, p.ClientEmail, p.Status, p.CreatedBy))
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return created, nil
}

func (s *PGStore) UpdateProject(ctx context.Context, id uuid.UUID, sc tenant.Scope, in ProjectInput) (*models.Project, error) {
	args := []interface{}{in.Name, in.Description, in.Value, in.ClientName, in.ClientEmail, in.Status, id}
	q := `UPDATE projects SET name = $1, description = $2, value = $3, client_name = $4,
	      client_email = $5, status = $6, updated_at = now() WHERE id = $7`
	if sc.TenantID != nil {
		q += " AND tenant_id = $8"
		args = append(args, *sc.TenantID)
	}
	q += " RETURNING " + projectColumns

	p, err := scanProject(s.db.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "project")
		}
		return nil, fmt.Errorf("update project: %w", err)
	}
	return p, nil
}

// CompleteProject marks the project completed and writes its invoice in one
// transaction. The status guard in the UPDATE makes the invoice at-most-once
// even when two completions race.
func (s *PGStore) CompleteProject(ctx context.Context, id uuid.UUID, sc tenant.Scope, in ProjectInput, inv InvoiceDraft) (*models.Project, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	args := []interface{}{in.Name, in.Description, in.Value, in.ClientName, in.ClientEmail, id, models.ProjectStatusCompleted}
	q := `UPDATE projects SET name = $1, description = $2, value = $3, client_name = $4,
	      client_email = $5, status = $7, updated_at = now()
	      WHERE id = $6 AND status <> $7`
	if sc.TenantID != nil {
		q += " AND tenant_id = $8"
		args = append(args, *sc.TenantID)
	}
	q += " RETURNING " + projectColumns

	p, err := scanProject(tx.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "project")
		}
		return nil, fmt.Errorf("complete project: %w", err)
	}

	var count int
	if err := tx.QueryRow(ctx,
		"SELECT COUNT(*) FROM invoices WHERE tenant_id = $1", p.TenantID).Scan(&count); err != nil {
		return nil, fmt.Errorf("count invoices: %w", err)
	}
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return nil, fmt.Errorf("encode invoice items: %w", err)
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO invoices (tenant_id, invoice_number, client_name, client_email, items, total, status, due_date, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.TenantID, finance.InvoiceNumber(count), inv.ClientName, inv.ClientEmail, items,
		inv.Total, inv.Status, inv.DueDate, inv.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("create completion invoice: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return p, nil
}

func (s *PGStore) DeleteProject(ctx context.Context, id uuid.UUID, sc tenant.Scope) error {
	args := []interface{}{id}
	q := "DELETE FROM projects WHERE id = $1"
	if sc.TenantID != nil {
		q += " AND tenant_id = $2"
		args = append(args, *sc.TenantID)
	}
	tag, err := s.db.Exec(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "project")
	}
	return nil
}

const taskColumns = "id, tenant_id, title, description, status, priority, project, assigned_to, created_by, due_date, created_at, updated_at"

func scanTask(row pgx.Row) (*models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.TenantID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.Project, &t.AssignedTo, &t.CreatedBy, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *PGStore) ListTasks(ctx context.Context, sc tenant.Scope) ([]models.Task, error) {
	clause, args := sc.SQL("tenant_id", 1)
	rows, err := s.db.Query(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE "+clause+" ORDER BY created_at DESC", args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *PGStore) CreateTask(ctx context.Context, t *models.Task) (*models.Task, error) {
	created, err := scanTask(s.db.QueryRow(ctx,
		`INSERT INTO tasks (tenant_id, title, description, status, priority, project, assigned_to, created_by, due_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+taskColumns,
		t.TenantID, t.Title, t.Description, t.Status, t.Priority, t.Project, t.AssignedTo, t.CreatedBy, t.DueDate))
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return created, nil
}

func (s *PGStore) UpdateTask(ctx context.Context, id uuid.UUID, sc tenant.Scope, in TaskInput) (*models.Task, error) {
	args := []interface{}{in.Title, in.Description, in.Status, in.Priority, in.Project, in.AssignedTo, in.DueDate, id}
	q := `UPDATE tasks SET title = $1, description = $2, status = $3, priority = $4,
	      project = $5, assigned_to = $6, due_date = $7, updated_at = now() WHERE id = $8`
	if sc.TenantID != nil {
		q += " AND tenant_id = $9"
		args = append(args, *sc.TenantID)
	}
	q += " RETURNING " + taskColumns

	t, err := scanTask(s.db.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "task")
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

func (s *PGStore) DeleteTask(ctx context.Context, id uuid.UUID, sc tenant.Scope) error {
	args := []interface{}{id}
	q := "DELETE FROM tasks WHERE id = $1"
	if sc.TenantID != nil {
		q += " AND tenant_id = $2"
		args = append(args, *sc.TenantID)
	}
	tag, err := s.db.Exec(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "task")
	}
	return nil
}
