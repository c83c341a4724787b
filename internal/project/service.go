package project

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/startupops/backend/internal/apperr"
	"github.com/startupops/backend/internal/models"
	"github.com/startupops/backend/internal/tenant"
)

// Store is the persistence boundary for projects and tasks. CompleteProject
// must update the project and write its invoice in a single transaction.
type Store interface {
	ListProjects(ctx context.Context, sc tenant.Scope) ([]models.Project, error)
	GetProject(ctx context.Context, id uuid.UUID, sc tenant.Scope) (*models.Project, error)
	CreateProject(ctx context.Context, p *models.Project) (*models.Project, error)
	UpdateProject(ctx context.Context, id uuid.UUID, sc tenant.Scope, in ProjectInput) (*models.Project, error)
	CompleteProject(ctx context.Context, id uuid.UUID, sc tenant.Scope, in ProjectInput, inv InvoiceDraft) (*models.Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID, sc tenant.Scope) error

	ListTasks(ctx context.Context, sc tenant.Scope) ([]models.Task, error)
	CreateTask(ctx context.Context, t *models.Task) (*models.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, sc tenant.Scope, in TaskInput) (*models.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID, sc tenant.Scope) error
}

// InvoiceDraft is an invoice without a number; the store assigns the number
// inside the completion transaction.
type InvoiceDraft struct {
	ClientName  string
	ClientEmail string
	Items       []models.InvoiceItem
	Total       float64
	Status      string
	DueDate     string
	CreatedBy   uuid.UUID
}

type Auditor interface {
	Record(ctx context.Context, actor *models.User, action, resource, details string)
}

type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message, notifType string)
}

type Service struct {
	store  Store
	audit  Auditor
	notify Notifier
}

func NewService(store Store, audit Auditor, notify Notifier) *Service {
	return &Service{store: store, audit: audit, notify: notify}
}

func (s *Service) ListProjects(ctx context.Context, sc tenant.Scope) ([]models.Project, error) {
	return s.store.ListProjects(ctx, sc)
}

type ProjectInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Value       float64 `json:"value"`
	ClientName  string  `json:"client_name"`
	ClientEmail string  `json:"client_email"`
	Status      string  `json:"status"`
}

func (s *Service) CreateProject(ctx context.Context, actor *models.User, in ProjectInput) (*models.Project, error) {
	if in.Name == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "name is required")
	}
	if in.Status == "" {
		in.Status = "active"
	}
	p, err := s.store.CreateProject(ctx, &models.Project{
		TenantID:    actor.TenantID,
		Name:        in.Name,
		Description: in.Description,
		Value:       in.Value,
		ClientName:  in.ClientName,
		ClientEmail: in.ClientEmail,
		Status:      in.Status,
		CreatedBy:   actor.ID,
	})
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, "create", "project", p.Name)
	return p, nil
}

// UpdateProject rewrites the project. The first transition into the
// completed status also raises a paid invoice for the project value; a
// project that is already completed never gets a second one.
func (s *Service) UpdateProject(ctx context.Context, actor *models.User, id uuid.UUID, in ProjectInput) (*models.Project, error) {
	if in.Name == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "name is required")
	}
	sc := tenant.ScopeForUser(actor)
	cur, err := s.store.GetProject(ctx, id, sc)
	if err != nil {
		return nil, err
	}

	completing := in.Status == models.ProjectStatusCompleted && cur.Status != models.ProjectStatusCompleted
	if !completing {
		return s.store.UpdateProject(ctx, id, sc, in)
	}

	p, err := s.store.CompleteProject(ctx, id, sc, in, invoiceDraftFor(in, actor))
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, "complete", "project", p.Name)
	s.notify.Notify(ctx, actor.ID, "Project completed",
		fmt.Sprintf("%s was completed and invoiced for $%.2f", p.Name, p.Value), "project")
	return p, nil
}

func invoiceDraftFor(in ProjectInput, actor *models.User) InvoiceDraft {
	return InvoiceDraft{
		ClientName:  in.ClientName,
		ClientEmail: in.ClientEmail,
		Items: []models.InvoiceItem{
			{Description: "Project: " + in.Name, Quantity: 1, Rate: in.Value},
		},
		Total:     in.Value,
		Status:    models.InvoiceStatusPaid,
		DueDate:   time.Now().AddDate(0, 0, 30).Format("2006-01-02"),
		CreatedBy: actor.ID,
	}
}

func (s *Service) DeleteProject(ctx context.Context, actor *models.User, id uuid.UUID) error {
	sc := tenant.ScopeForUser(actor)
	if err := s.store.DeleteProject(ctx, id, sc); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, "delete", "project", id.String())
	return nil
}

func (s *Service) ListTasks(ctx context.Context, sc tenant.Scope) ([]models.Task, error) {
	return s.store.ListTasks(ctx, sc)
}

type TaskInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	Project     string    `json:"project"`
	AssignedTo  uuid.UUID `json:"assigned_to"`
	DueDate     *string   `json:"due_date,omitempty"`
}

func (s *Service) CreateTask(ctx context.Context, actor *models.User, in TaskInput) (*models.Task, error) {
	if in.Title == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "title is required")
	}
	if in.Status == "" {
		in.Status = "todo"
	}
	if in.Priority == "" {
		in.Priority = "medium"
	}
	assignee := in.AssignedTo
	if assignee == uuid.Nil {
		assignee = actor.ID
	}
	t, err := s.store.CreateTask(ctx, &models.Task{
		TenantID:    actor.TenantID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		Project:     in.Project,
		AssignedTo:  assignee,
		CreatedBy:   actor.ID,
		DueDate:     in.DueDate,
	})
	if err != nil {
		return nil, err
	}
	if assignee != actor.ID {
		s.notify.Notify(ctx, assignee, "Task assigned", in.Title, "task")
	}
	return t, nil
}

func (s *Service) UpdateTask(ctx context.Context, actor *models.User, id uuid.UUID, in TaskInput) (*models.Task, error) {
	if in.Title == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "title is required")
	}
	return s.store.UpdateTask(ctx, id, tenant.ScopeForUser(actor), in)
}

func (s *Service) DeleteTask(ctx context.Context, actor *models.User, id uuid.UUID) error {
	return s.store.DeleteTask(ctx, id, tenant.ScopeForUser(actor))
}
