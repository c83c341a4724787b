package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/startupops/backend/internal/crm"
	"github.com/startupops/backend/internal/models"
	"github.com/startupops/backend/internal/tenant"
)

type Auditor interface {
	Record(ctx context.Context, actor *models.User, action, resource, details string)
}

type CRMHandler struct {
	svc   *crm.Service
	audit Auditor
}

func NewCRMHandler(svc *crm.Service, audit Auditor) *CRMHandler {
	return &CRMHandler{svc: svc, audit: audit}
}

func (h *CRMHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	sc := tenant.ScopeForUser(tenant.UserFromContext(r.Context()))
	leads, err := h.svc.ListLeads(r.Context(), sc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *CRMHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var in crm.LeadInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	actor := tenant.UserFromContext(r.Context())
	lead, err := h.svc.CreateLead(r.Context(), actor, in)
	if err != nil {
		writeError(w, err)
		return
	}
	h.audit.Record(r.Context(), actor, "create", "leads", fmt.Sprintf("Created lead: %s", lead.Name))
	writeJSON(w, http.StatusOK, lead)
}

func (h *CRMHandler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var in crm.LeadInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	actor := tenant.UserFromContext(r.Context())
	lead, err := h.svc.UpdateLead(r.Context(), id, tenant.ScopeForUser(actor), in)
	if err != nil {
		writeError(w, err)
		return
	}
	h.audit.Record(r.Context(), actor, "update", "leads", fmt.Sprintf("Updated lead: %s", lead.Name))
	writeJSON(w, http.StatusOK, lead)
}

func (h *CRMHandler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	actor := tenant.UserFromContext(r.Context())
	if err := h.svc.DeleteLead(r.Context(), id, tenant.ScopeForUser(actor)); err != nil {
		writeError(w, err)
		return
	}
	h.audit.Record(r.Context(), actor, "delete", "leads", fmt.Sprintf("Deleted lead %s", id))
	ok(w)
}

func (h *CRMHandler) ListDeals(w http.ResponseWriter, r *http.Request) {
	sc := tenant.ScopeForUser(tenant.UserFromContext(r.Context()))
	deals, err := h.svc.ListDeals(r.Context(), sc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deals)
}

func (h *CRMHandler) CreateDeal(w http.ResponseWriter, r *http.Request) {
	var in crm.DealInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	actor := tenant.UserFromContext(r.Context())
	deal, err := h.svc.CreateDeal(r.Context(), actor, in)
	if err != nil {
		writeError(w, err)
		return
	}
	h.audit.Record(r.Context(), actor, "create", "deals", fmt.Sprintf("Created deal: %s", deal.Title))
	writeJSON(w, http.StatusOK, deal)
}
