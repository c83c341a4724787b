package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/startupops/backend/internal/apperr"
	"github.com/startupops/backend/internal/billing"
	"github.com/startupops/backend/internal/tenant"
)

type SubscriptionHandler struct {
	svc *billing.Service
}

func NewSubscriptionHandler(svc *billing.Service) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

func (h *SubscriptionHandler) Plans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, billing.Plans())
}

func (h *SubscriptionHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var in struct {
		PlanID    string `json:"plan_id"`
		OriginURL string `json:"origin_url"`
	}
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.svc.Checkout(r.Context(), tenant.UserFromContext(r.Context()), in.PlanID, in.OriginURL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *SubscriptionHandler) CheckoutStatus(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		writeError(w, apperr.Wrap(apperr.ErrValidation, "session id is required"))
		return
	}
	res, err := h.svc.CheckoutStatus(r.Context(), tenant.UserFromContext(r.Context()), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
