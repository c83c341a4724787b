package handlers

import (
	"fmt"
	"net/http"

	"github.com/startupops/backend/internal/finance"
	"github.com/startupops/backend/internal/tenant"
)

type FinanceHandler struct {
	svc   *finance.Service
	audit Auditor
}

func NewFinanceHandler(svc *finance.Service, audit Auditor) *FinanceHandler {
	return &FinanceHandler{svc: svc, audit: audit}
}

func (h *FinanceHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	sc := tenant.ScopeForUser(tenant.UserFromContext(r.Context()))
	invoices, err := h.svc.ListInvoices(r.Context(), sc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

func (h *FinanceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var in finance.InvoiceInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	actor := tenant.UserFromContext(r.Context())
	inv, err := h.svc.CreateInvoice(r.Context(), actor, in)
	if err != nil {
		writeError(w, err)
		return
	}
	h.audit.Record(r.Context(), actor, "create", "invoices",
		fmt.Sprintf("Created invoice %s", inv.InvoiceNumber))
	writeJSON(w, http.StatusOK, inv)
}

func (h *FinanceHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.svc.ListExpenses(r.Context(), tenant.UserFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (h *FinanceHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var in finance.ExpenseInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	actor := tenant.UserFromContext(r.Context())
	e, err := h.svc.CreateExpense(r.Context(), actor, in)
	if err != nil {
		writeError(w, err)
		return
	}
	h.audit.Record(r.Context(), actor, "create", "expenses",
		fmt.Sprintf("Submitted expense: %s", e.Title))
	writeJSON(w, http.StatusOK, e)
}
