package handlers

import (
	"fmt"
	"net/http"

	"github.com/startupops/backend/internal/tenant"
	"github.com/startupops/backend/internal/validation"
)

type ValidationHandler struct {
	svc   *validation.Service
	audit Auditor
}

func NewValidationHandler(svc *validation.Service, audit Auditor) *ValidationHandler {
	return &ValidationHandler{svc: svc, audit: audit}
}

func (h *ValidationHandler) List(w http.ResponseWriter, r *http.Request) {
	ideas, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ideas)
}

func (h *ValidationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in validation.IdeaInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	actor := tenant.UserFromContext(r.Context())
	idea, err := h.svc.Create(r.Context(), actor, in)
	if err != nil {
		writeError(w, err)
		return
	}
	h.audit.Record(r.Context(), actor, "create", "ideas", fmt.Sprintf("Submitted idea: %s", idea.Title))
	writeJSON(w, http.StatusOK, idea)
}

func (h *ValidationHandler) Vote(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	actor := tenant.UserFromContext(r.Context())
	idea, err := h.svc.Vote(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	h.audit.Record(r.Context(), actor, "vote", "ideas", fmt.Sprintf("Voted on idea: %s", idea.Title))
	writeJSON(w, http.StatusOK, idea)
}

func (h *ValidationHandler) AddFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var in validation.FeedbackInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	actor := tenant.UserFromContext(r.Context())
	idea, err := h.svc.AddFeedback(r.Context(), actor, id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	h.audit.Record(r.Context(), actor, "feedback", "ideas", fmt.Sprintf("Commented on idea: %s", idea.Title))
	writeJSON(w, http.StatusOK, idea)
}
