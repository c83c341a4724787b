package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/startupops/backend/internal/hr"
	"github.com/startupops/backend/internal/tenant"
)

type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message, notifType string)
}

type HRHandler struct {
	svc     *hr.Service
	tenants *tenant.Service
	audit   Auditor
	notify  Notifier
}

func NewHRHandler(svc *hr.Service, tenants *tenant.Service, audit Auditor, notify Notifier) *HRHandler {
	return &HRHandler{svc: svc, tenants: tenants, audit: audit, notify: notify}
}

func (h *HRHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	sc := tenant.ScopeForUser(tenant.UserFromContext(r.Context()))
	users, err := h.tenants.ListUsers(r.Context(), sc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *HRHandler) ListLeaves(w http.ResponseWriter, r *http.Request) {
	leaves, err := h.svc.ListLeaves(r.Context(), tenant.UserFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leaves)
}

func (h *HRHandler) CreateLeave(w http.ResponseWriter, r *http.Request) {
	var in hr.LeaveInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	actor := tenant.UserFromContext(r.Context())
	l, err := h.svc.CreateLeave(r.Context(), actor, in)
	if err != nil {
		writeError(w, err)
		return
	}
	h.audit.Record(r.Context(), actor, "create", "leaves", fmt.Sprintf("Requested %s leave", l.Type))
	h.notify.Notify(r.Context(), actor.ID, "Leave Request Submitted",
		fmt.Sprintf("Your %s leave request is pending approval.", l.Type), "hr")
	writeJSON(w, http.StatusOK, l)
}

func (h *HRHandler) UpdateLeave(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var in struct {
		Status string `json:"status"`
	}
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	actor := tenant.UserFromContext(r.Context())
	l, err := h.svc.UpdateLeaveStatus(r.Context(), id, tenant.ScopeForUser(actor), actor.ID, in.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	h.audit.Record(r.Context(), actor, "update", "leaves", fmt.Sprintf("Leave %s: %s", l.ID, l.Status))
	h.notify.Notify(r.Context(), l.UserID, "Leave Request Updated",
		fmt.Sprintf("Your %s leave request was %s.", l.Type, l.Status), "hr")
	writeJSON(w, http.StatusOK, l)
}
