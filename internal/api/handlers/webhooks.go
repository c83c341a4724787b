package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/startupops/backend/internal/billing"
	"github.com/startupops/backend/internal/payment"
)

type WebhookHandler struct {
	svc    *billing.Service
	secret string
}

func NewWebhookHandler(svc *billing.Service, secret string) *WebhookHandler {
	return &WebhookHandler{svc: svc, secret: secret}
}

// Payment verifies the provider signature before applying the event.
// Verification failures return 400 so the provider retries nothing.
func (h *WebhookHandler) Payment(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, err)
		return
	}
	ev, err := payment.VerifyWebhook(body, r.Header.Get("X-Webhook-Signature"), h.secret)
	if err != nil {
		slog.Warn("payment webhook rejected", "error", err)
		writeError(w, err)
		return
	}
	if err := h.svc.HandleWebhook(r.Context(), ev); err != nil {
		writeError(w, err)
		return
	}
	ok(w)
}
