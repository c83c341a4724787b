package handlers

import (
	"net/http"

	"github.com/startupops/backend/internal/notification"
	"github.com/startupops/backend/internal/tenant"
)

type NotificationHandler struct {
	svc *notification.Service
}

func NewNotificationHandler(svc *notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := tenant.UserFromContext(r.Context())
	items, err := h.svc.List(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	actor := tenant.UserFromContext(r.Context())
	if err := h.svc.MarkRead(r.Context(), id, actor.ID); err != nil {
		writeError(w, err)
		return
	}
	ok(w)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	actor := tenant.UserFromContext(r.Context())
	if err := h.svc.MarkAllRead(r.Context(), actor.ID); err != nil {
		writeError(w, err)
		return
	}
	ok(w)
}
