package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/startupops/backend/internal/apperr"
	"github.com/startupops/backend/internal/auth"
	"github.com/startupops/backend/internal/email"
	"github.com/startupops/backend/internal/models"
	"github.com/startupops/backend/internal/queue"
	"github.com/startupops/backend/internal/tenant"
)

type UserHandler struct {
	tenants *tenant.Service
	queue   *queue.Client
	mailer  *email.Mailer
	audit   Auditor
}

func NewUserHandler(tenants *tenant.Service, q *queue.Client, mailer *email.Mailer, audit Auditor) *UserHandler {
	return &UserHandler{tenants: tenants, queue: q, mailer: mailer, audit: audit}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	sc := tenant.ScopeForUser(tenant.UserFromContext(r.Context()))
	users, err := h.tenants.ListUsers(r.Context(), sc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type inviteRequest struct {
	Email      string      `json:"email"`
	Name       string      `json:"name"`
	Password   string      `json:"password"`
	Role       models.Role `json:"role"`
	Department string      `json:"department"`
}

// Invite creates a user in the caller's tenant with a temporary password
// and mails the credentials. Biometric setup is forced on first login.
func (h *UserHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, apperr.Wrap(apperr.ErrValidation, "email and password are required"))
		return
	}
	if req.Role == "" {
		req.Role = models.RoleEmployee
	}
	if !req.Role.Valid() {
		writeError(w, apperr.Wrap(apperr.ErrValidation, "invalid role"))
		return
	}

	actor := tenant.UserFromContext(r.Context())
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	created, err := h.tenants.CreateUser(r.Context(), tenant.NewUser{
		TenantID:          actor.TenantID,
		Email:             req.Email,
		FullName:          req.Name,
		PasswordHash:      hash,
		Role:              req.Role,
		Department:        req.Department,
		BiometricSetupDue: true,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	company := "Enterprise One"
	if t, err := h.tenants.GetByID(r.Context(), actor.TenantID); err == nil {
		company = t.Name
	}
	payload := queue.EmailSendPayload{
		To:      created.Email,
		Subject: fmt.Sprintf("Welcome to %s - Action Required", company),
		Body:    email.InvitationBody(company, req.Name, created.Email, req.Password),
	}
	if err := h.queue.EnqueueEmailSend(payload); err != nil {
		slog.Warn("invitation enqueue failed, sending inline", "error", err)
		if err := h.mailer.Send(payload.To, payload.Subject, payload.Body); err != nil {
			slog.Error("invitation mail failed", "to", payload.To, "error", err)
		}
	}

	h.audit.Record(r.Context(), actor, "create_user", "users",
		fmt.Sprintf("Invited user %s as %s", created.Email, created.Role))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"message": "User invited successfully",
		"user_id": created.ID,
	})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	actor := tenant.UserFromContext(r.Context())
	deleted, err := h.tenants.DeleteUser(r.Context(), id, tenant.ScopeForUser(actor))
	if err != nil {
		writeError(w, err)
		return
	}
	h.audit.Record(r.Context(), actor, "delete_user", "users",
		fmt.Sprintf("Deleted user %s", deleted.Email))
	ok(w)
}

func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var in struct {
		Role models.Role `json:"role"`
	}
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	actor := tenant.UserFromContext(r.Context())
	if err := h.tenants.UpdateUserRole(r.Context(), id, in.Role, tenant.ScopeForUser(actor)); err != nil {
		writeError(w, err)
		return
	}
	h.audit.Record(r.Context(), actor, "update_role", "users",
		fmt.Sprintf("Changed role of %s to %s", id, in.Role))
	ok(w)
}
