package handlers

import (
	"net/http"

	"github.com/startupops/backend/internal/dashboard"
	"github.com/startupops/backend/internal/tenant"
)

type DashboardHandler struct {
	svc *dashboard.Service
}

func NewDashboardHandler(svc *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	sc := tenant.ScopeForUser(tenant.UserFromContext(r.Context()))
	stats, err := h.svc.Stats(r.Context(), sc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
