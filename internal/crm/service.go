package crm

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

const leadColumns = "id, tenant_id, name, email, company, status, value, assigned_to, created_by, created_at, updated_at"

func scanLead(row pgx.Row) (*models.Lead, error) {
	var l models.Lead
	err := row.Scan(&l.ID, &l.TenantID, &l.Name, &l.Email, &l.Company, &l.Status, &l.Value,
		&l.AssignedTo, &l.CreatedBy, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *Service) ListLeads(ctx context.Context, sc tenant.Scope) ([]models.Lead, error) {
	clause, args := sc.SQL("tenant_id", 1)
	rows, err := s.db.Query(ctx,
		"SELECT "+leadColumns+" FROM leads WHERE "+clause+" ORDER BY created_at DESC", args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := []models.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, *l)
	}
	return leads, rows.Err()
}

type LeadInput struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Company string  `json:"company"`
	Status  string  `json:"status"`
	Value   float64 `json:"value"`
}

func (s *Service) CreateLead(ctx context.Context, actor *models.User, in LeadInput) (*models.Lead, error) {
	if in.Name == "" || in.Email == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "name and email are required")
	}
	if in.Status == "" {
		in.Status = "new"
	}
	l, err := scanLead(s.db.QueryRow(ctx,
		`INSERT INTO leads (tenant_id, name, email, company, status, value, assigned_to, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		 RETURNING `+leadColumns,
		actor.TenantID, in.Name, in.Email, in.Company, in.Status, in.Value, actor.ID))
	if err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	return l, nil
}

// UpdateLead rewrites the lead. A lead in another tenant reports not-found.
func (s *Service) UpdateLead(ctx context.Context, id uuid.UUID, sc tenant.Scope, in LeadInput) (*models.Lead, error) {
	args := []interface{}{in.Name, in.Email, in.Company, in.Status, in.Value, id}
	q := `UPDATE leads SET name = $1, email = $2, company = $3, status = $4, value = $5, updated_at = now()
	      WHERE id = $6`
	if sc.TenantID != nil {
		q += " AND tenant_id = $7"
		args = append(args, *sc.TenantID)
	}
	q += " RETURNING " + leadColumns

	l, err := scanLead(s.db.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "lead")
		}
		return nil, fmt.Errorf("update lead: %w", err)
	}
	return l, nil
}

func (s *Service) DeleteLead(ctx context.Context, id uuid.UUID, sc tenant.Scope) error {
	args := []interface{}{id}
	q := "DELETE FROM leads WHERE id = $1"
	if sc.TenantID != nil {
		q += " AND tenant_id = $2"
		args = append(args, *sc.TenantID)
	}
	tag, err := s.db.Exec(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "lead")
	}
	return nil
}

const dealColumns = "id, tenant_id, title, value, stage, lead_id, assigned_to, created_by, created_at, updated_at"

func scanDeal(row pgx.Row) (*models.Deal, error) {
	var d models.Deal
	err := row.Scan(&d.ID, &d.TenantID, &d.Title, &d.Value, &d.Stage, &d.LeadID,
		&d.AssignedTo, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Service) ListDeals(ctx context.Context, sc tenant.Scope) ([]models.Deal, error) {
	clause, args := sc.SQL("tenant_id", 1)
	rows, err := s.db.Query(ctx,
		"SELECT "+dealColumns+" FROM deals WHERE "+clause+" ORDER BY created_at DESC", args...)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	deals := []models.Deal{}
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		deals = append(deals, *d)
	}
	return deals, rows.Err()
}

type DealInput struct {
	Title  string     `json:"title"`
	Value  float64    `json:"value"`
	Stage  string     `json:"stage"`
	LeadID *uuid.UUID `json:"lead_id,omitempty"`
}

func (s *Service) CreateDeal(ctx context.Context, actor *models.User, in DealInput) (*models.Deal, error) {
	if in.Title == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "title is required")
	}
	if in.Stage == "" {
		in.Stage = "prospecting"
	}
	d, err := scanDeal(s.db.QueryRow(ctx,
		`INSERT INTO deals (tenant_id, title, value, stage, lead_id, assigned_to, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)
		 RETURNING `+dealColumns,
		actor.TenantID, in.Title, in.Value, in.Stage, in.LeadID, actor.ID))
	if err != nil {
		return nil, fmt.Errorf("create deal: %w", err)
	}
	return d, nil
}
