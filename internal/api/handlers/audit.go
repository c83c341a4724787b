package handlers

import (
	"net/http"

	"github.com/startupops/backend/internal/audit"
	"github.com/startupops/backend/internal/tenant"
)

const auditLogLimit = 200

type AuditHandler struct {
	svc *audit.Service
}

func NewAuditHandler(svc *audit.Service) *AuditHandler {
	return &AuditHandler{svc: svc}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	sc := tenant.ScopeForUser(tenant.UserFromContext(r.Context()))
	logs, err := h.svc.List(r.Context(), sc, auditLogLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
