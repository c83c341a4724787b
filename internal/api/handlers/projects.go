package handlers

import (
	"net/http"

	"github.com/startupops/backend/internal/project"
	"github.com/startupops/backend/internal/tenant"
)

type ProjectHandler struct {
	svc *project.Service
}

func NewProjectHandler(svc *project.Service) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	sc := tenant.ScopeForUser(tenant.UserFromContext(r.Context()))
	projects, err := h.svc.ListProjects(r.Context(), sc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in project.ProjectInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	p, err := h.svc.CreateProject(r.Context(), tenant.UserFromContext(r.Context()), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var in project.ProjectInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	p, err := h.svc.UpdateProject(r.Context(), tenant.UserFromContext(r.Context()), id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.DeleteProject(r.Context(), tenant.UserFromContext(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	ok(w)
}

func (h *ProjectHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	sc := tenant.ScopeForUser(tenant.UserFromContext(r.Context()))
	tasks, err := h.svc.ListTasks(r.Context(), sc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *ProjectHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var in project.TaskInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	t, err := h.svc.CreateTask(r.Context(), tenant.UserFromContext(r.Context()), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *ProjectHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var in project.TaskInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	t, err := h.svc.UpdateTask(r.Context(), tenant.UserFromContext(r.Context()), id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *ProjectHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.DeleteTask(r.Context(), tenant.UserFromContext(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	ok(w)
}
