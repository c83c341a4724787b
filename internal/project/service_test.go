package project

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/startupops/backend/internal/apperr"
	"github.com/startupops/backend/internal/models"
	"github.com/startupops/backend/internal/tenant"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	projects map[uuid.UUID]*models.Project
	invoices []InvoiceDraft
}

func newFakeStore() *fakeStore {
	return &fakeStore{projects: map[uuid.UUID]*models.Project{}}
}

func (f *fakeStore) visible(p *models.Project, sc tenant.Scope) bool {
	return sc.TenantID == nil || *sc.TenantID == p.TenantID
}

func (f *fakeStore) ListProjects(ctx context.Context, sc tenant.Scope) ([]models.Project, error) {
	out := []models.Project{}
	for _, p := range f.projects {
		if f.visible(p, sc) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) GetProject(ctx context.Context, id uuid.UUID, sc tenant.Scope) (*models.Project, error) {
	p, ok := f.projects[id]
	if !ok || !f.visible(p, sc) {
		return nil, apperr.Wrap(apperr.ErrNotFound, "project")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) CreateProject(ctx context.Context, p *models.Project) (*models.Project, error) {
	cp := *p
	cp.ID = uuid.New()
	f.projects[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeStore) apply(p *models.Project, in ProjectInput) {
	p.Name = in.Name
	p.Description = in.Description
	p.Value = in.Value
	p.ClientName = in.ClientName
	p.ClientEmail = in.ClientEmail
	p.Status = in.Status
}

func (f *fakeStore) UpdateProject(ctx context.Context, id uuid.UUID, sc tenant.Scope, in ProjectInput) (*models.Project, error) {
	p, ok := f.projects[id]
	if !ok || !f.visible(p, sc) {
		return nil, apperr.Wrap(apperr.ErrNotFound, "project")
	}
	f.apply(p, in)
	cp := *p
	return &cp, nil
}

func (f *fakeStore) CompleteProject(ctx context.Context, id uuid.UUID, sc tenant.Scope, in ProjectInput, inv InvoiceDraft) (*models.Project, error) {
	p, ok := f.projects[id]
	if !ok || !f.visible(p, sc) || p.Status == models.ProjectStatusCompleted {
		return nil, apperr.Wrap(apperr.ErrNotFound, "project")
	}
	f.apply(p, in)
	p.Status = models.ProjectStatusCompleted
	f.invoices = append(f.invoices, inv)
	cp := *p
	return &cp, nil
}

func (f *fakeStore) DeleteProject(ctx context.Context, id uuid.UUID, sc tenant.Scope) error {
	p, ok := f.projects[id]
	if !ok || !f.visible(p, sc) {
		return apperr.Wrap(apperr.ErrNotFound, "project")
	}
	delete(f.projects, id)
	return nil
}

func (f *fakeStore) ListTasks(ctx context.Context, sc tenant.Scope) ([]models.Task, error) {
	return nil, nil
}

func (f *fakeStore) CreateTask(ctx context.Context, t *models.Task) (*models.Task, error) {
	cp := *t
	cp.ID = uuid.New()
	return &cp, nil
}

func (f *fakeStore) UpdateTask(ctx context.Context, id uuid.UUID, sc tenant.Scope, in TaskInput) (*models.Task, error) {
	return nil, apperr.Wrap(apperr.ErrNotFound, "task")
}

func (f *fakeStore) DeleteTask(ctx context.Context, id uuid.UUID, sc tenant.Scope) error {
	return apperr.Wrap(apperr.ErrNotFound, "task")
}

type nopAuditor struct{}

func (nopAuditor) Record(ctx context.Context, actor *models.User, action, resource, details string) {
}

type nopNotifier struct{}

func (nopNotifier) Notify(ctx context.Context, userID uuid.UUID, title, message, notifType string) {
}

func testActor(tenantID uuid.UUID) *models.User {
	return &models.User{ID: uuid.New(), TenantID: tenantID, Role: models.RoleAdmin, FullName: "Test Admin"}
}

func TestCompletionCreatesOnePaidInvoice(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nopAuditor{}, nopNotifier{})
	actor := testActor(uuid.New())

	p, err := svc.CreateProject(context.Background(), actor, ProjectInput{
		Name: "Website rebuild", Value: 5000, ClientName: "Acme", Status: "active",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProject(context.Background(), actor, p.ID, ProjectInput{
		Name: "Website rebuild", Value: 5000, ClientName: "Acme", Status: models.ProjectStatusCompleted,
	})
	require.NoError(t, err)
	require.Equal(t, models.ProjectStatusCompleted, updated.Status)

	require.Len(t, store.invoices, 1)
	inv := store.invoices[0]
	require.Equal(t, models.InvoiceStatusPaid, inv.Status)
	require.Equal(t, 5000.0, inv.Total)
	require.Equal(t, "Acme", inv.ClientName)
	require.Len(t, inv.Items, 1)
	require.Equal(t, "Project: Website rebuild", inv.Items[0].Description)
}

func TestRecompletionDoesNotInvoiceAgain(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nopAuditor{}, nopNotifier{})
	actor := testActor(uuid.New())

	p, err := svc.CreateProject(context.Background(), actor, ProjectInput{Name: "App", Value: 1200})
	require.NoError(t, err)

	in := ProjectInput{Name: "App", Value: 1200, Status: models.ProjectStatusCompleted}
	_, err = svc.UpdateProject(context.Background(), actor, p.ID, in)
	require.NoError(t, err)

	// Saving an already completed project is a plain update.
	_, err = svc.UpdateProject(context.Background(), actor, p.ID, in)
	require.NoError(t, err)
	require.Len(t, store.invoices, 1)
}

func TestCrossTenantProjectReportsNotFound(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nopAuditor{}, nopNotifier{})

	owner := testActor(uuid.New())
	p, err := svc.CreateProject(context.Background(), owner, ProjectInput{Name: "Internal", Value: 100})
	require.NoError(t, err)

	intruder := testActor(uuid.New())
	_, err = svc.UpdateProject(context.Background(), intruder, p.ID, ProjectInput{Name: "Internal", Status: models.ProjectStatusCompleted})
	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.Empty(t, store.invoices)

	err = svc.DeleteProject(context.Background(), intruder, p.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGlobalRoleSeesEveryTenant(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nopAuditor{}, nopNotifier{})

	a := testActor(uuid.New())
	b := testActor(uuid.New())
	_, err := svc.CreateProject(context.Background(), a, ProjectInput{Name: "One"})
	require.NoError(t, err)
	_, err = svc.CreateProject(context.Background(), b, ProjectInput{Name: "Two"})
	require.NoError(t, err)

	admin := &models.User{ID: uuid.New(), Role: models.RoleSuperAdmin}
	all, err := svc.ListProjects(context.Background(), tenant.ScopeForUser(admin))
	require.NoError(t, err)
	require.Len(t, all, 2)

	scoped, err := svc.ListProjects(context.Background(), tenant.ScopeForUser(a))
	require.NoError(t, err)
	require.Len(t, scoped, 1)
}
