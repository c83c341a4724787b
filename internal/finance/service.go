package finance

import (
	"context"
	"encoding/json"
	"fmt"

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

// InvoiceNumber derives a display number from how many invoices the tenant
// already has. Numbering starts at INV-1001.
func InvoiceNumber(count int) string {
	return fmt.Sprintf("INV-%04d", 1001+count)
}

const invoiceColumns = "id, tenant_id, invoice_number, client_name, client_email, items, total, status, due_date, created_by, created_at, updated_at"

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var inv models.Invoice
	var items []byte
	err := row.Scan(&inv.ID, &inv.TenantID, &inv.InvoiceNumber, &inv.ClientName, &inv.ClientEmail,
		&items, &inv.Total, &inv.Status, &inv.DueDate, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &inv.Items); err != nil {
			return nil, fmt.Errorf("decode invoice items: %w", err)
		}
	}
	if inv.Items == nil {
		inv.Items = []models.InvoiceItem{}
	}
	return &inv, nil
}

func (s *Service) ListInvoices(ctx context.Context, sc tenant.Scope) ([]models.Invoice, error) {
	clause, args := sc.SQL("tenant_id", 1)
	rows, err := s.db.Query(ctx,
		"SELECT "+invoiceColumns+" FROM invoices WHERE "+clause+" ORDER BY created_at DESC", args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	invoices := []models.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

type InvoiceInput struct {
	ClientName  string               `json:"client_name"`
	ClientEmail string               `json:"client_email"`
	Items       []models.InvoiceItem `json:"items"`
	Total       float64              `json:"total"`
	Status      string               `json:"status"`
	DueDate     string               `json:"due_date"`
}

func (s *Service) CreateInvoice(ctx context.Context, actor *models.User, in InvoiceInput) (*models.Invoice, error) {
	if in.ClientName == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "client_name is required")
	}
	if in.Status == "" {
		in.Status = "draft"
	}
	if in.Items == nil {
		in.Items = []models.InvoiceItem{}
	}
	items, err := json.Marshal(in.Items)
	if err != nil {
		return nil, fmt.Errorf("encode invoice items: %w", err)
	}

	// Number and insert in one transaction so concurrent creates cannot
	// claim the same count.
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var count int
	if err := tx.QueryRow(ctx,
		"SELECT COUNT(*) FROM invoices WHERE tenant_id = $1", actor.TenantID).Scan(&count); err != nil {
		return nil, fmt.Errorf("count invoices: %w", err)
	}

	inv, err := scanInvoice(tx.QueryRow(ctx,
		`INSERT INTO invoices (tenant_id, invoice_number, client_name, client_email, items, total, status, due_date, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+invoiceColumns,
		actor.TenantID, InvoiceNumber(count), in.ClientName, in.ClientEmail, items,
		in.Total, in.Status, in.DueDate, actor.ID))
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return inv, nil
}

const expenseColumns = "id, tenant_id, title, amount, category, status, submitted_by, submitted_by_name, created_at, updated_at"

func scanExpense(row pgx.Row) (*models.Expense, error) {
	var e models.Expense
	err := row.Scan(&e.ID, &e.TenantID, &e.Title, &e.Amount, &e.Category, &e.Status,
		&e.SubmittedBy, &e.SubmittedByName, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListExpenses shows administrative roles the whole tenant; everyone else
// sees only what they submitted.
func (s *Service) ListExpenses(ctx context.Context, actor *models.User) ([]models.Expense, error) {
	sc := tenant.ScopeForUser(actor)
	clause, args := sc.SQL("tenant_id", 1)
	q := "SELECT " + expenseColumns + " FROM expenses WHERE " + clause
	if !actor.Role.Administrative() {
		args = append(args, actor.ID)
		q += fmt.Sprintf(" AND submitted_by = $%d", len(args))
	}
	q += " ORDER BY created_at DESC"

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

type ExpenseInput struct {
	Title    string  `json:"title"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
}

func (s *Service) CreateExpense(ctx context.Context, actor *models.User, in ExpenseInput) (*models.Expense, error) {
	if in.Title == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "title is required")
	}
	if in.Amount <= 0 {
		return nil, apperr.Wrap(apperr.ErrValidation, "amount must be positive")
	}
	e, err := scanExpense(s.db.QueryRow(ctx,
		`INSERT INTO expenses (tenant_id, title, amount, category, submitted_by, submitted_by_name)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+expenseColumns,
		actor.TenantID, in.Title, in.Amount, in.Category, actor.ID, actor.FullName))
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	return e, nil
}
