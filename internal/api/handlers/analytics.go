package handlers

import (
	"net/http"

	"github.com/startupops/backend/internal/analytics"
	"github.com/startupops/backend/internal/tenant"
)

type AnalyticsHandler struct {
	svc *analytics.Service
}

func NewAnalyticsHandler(svc *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) BurnRate(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.BurnRate(r.Context(), tenant.UserFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *AnalyticsHandler) UnitEconomics(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.UnitEconomics(r.Context(), tenant.UserFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *AnalyticsHandler) ProductOptimization(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.ProductOptimization(r.Context(), tenant.UserFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *AnalyticsHandler) ProjectEstimation(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ProjectName string `json:"project_name"`
		Currency    string `json:"currency"`
	}
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	report, err := h.svc.ProjectEstimation(r.Context(), tenant.UserFromContext(r.Context()), in.ProjectName, in.Currency)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *AnalyticsHandler) PitchDeck(w http.ResponseWriter, r *http.Request) {
	var in struct {
		CompanyName string `json:"company_name"`
	}
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	slides, err := h.svc.PitchDeck(r.Context(), tenant.UserFromContext(r.Context()), in.CompanyName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"slides": slides})
}
