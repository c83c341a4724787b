package handlers

import (
	"net/http"

	"github.com/startupops/backend/internal/apperr"
	"github.com/startupops/backend/internal/domains"
)

type DomainHandler struct {
	svc *domains.Service
}

func NewDomainHandler(svc *domains.Service) *DomainHandler {
	return &DomainHandler{svc: svc}
}

func (h *DomainHandler) Check(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Domain string `json:"domain"`
	}
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	results, err := h.svc.Check(r.Context(), in.Domain)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *DomainHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Domain string `json:"domain"`
		Email  string `json:"email"`
	}
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if in.Domain == "" || in.Email == "" {
		writeError(w, apperr.Wrap(apperr.ErrValidation, "domain and email are required"))
		return
	}
	d, err := h.svc.Purchase(r.Context(), in.Domain, in.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
