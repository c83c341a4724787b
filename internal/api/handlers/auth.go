package handlers

import (
	"net/http"

	"github.com/startupops/backend/internal/auth"
	"github.com/startupops/backend/internal/billing"
	"github.com/startupops/backend/internal/tenant"
)

type AuthHandler struct {
	auth    *auth.Service
	tenants *tenant.Service
	billing *billing.Service
}

func NewAuthHandler(authSvc *auth.Service, tenants *tenant.Service, billingSvc *billing.Service) *AuthHandler {
	return &AuthHandler{auth: authSvc, tenants: tenants, billing: billingSvc}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in auth.RegisterInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	sess, err := h.auth.Register(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	sess, err := h.auth.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, tenant.UserFromContext(r.Context()))
}

func (h *AuthHandler) BiometricRegister(w http.ResponseWriter, r *http.Request) {
	var in struct {
		CredentialID  string `json:"credential_id"`
		BiometricType string `json:"biometric_type"`
	}
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	actor := tenant.UserFromContext(r.Context())
	if err := h.auth.RegisterBiometric(r.Context(), actor, in.CredentialID, in.BiometricType); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Biometric registered"})
}

func (h *AuthHandler) BiometricLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserEmail    string `json:"user_email"`
		CredentialID string `json:"credential_id"`
	}
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	sess, err := h.auth.BiometricLogin(r.Context(), in.UserEmail, in.CredentialID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	actor := tenant.UserFromContext(r.Context())
	if err := h.auth.ChangePassword(r.Context(), actor, in.CurrentPassword, in.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	ok(w)
}

func (h *AuthHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	var upd tenant.ProfileUpdate
	if err := decode(r, &upd); err != nil {
		writeError(w, err)
		return
	}
	actor := tenant.UserFromContext(r.Context())
	t, err := h.tenants.UpdateProfile(r.Context(), actor.TenantID, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *AuthHandler) AddPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var in billing.PaymentMethodInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	actor := tenant.UserFromContext(r.Context())
	m, err := h.billing.AddPaymentMethod(r.Context(), actor, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *AuthHandler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	actor := tenant.UserFromContext(r.Context())
	methods, err := h.billing.ListPaymentMethods(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, methods)
}
