package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/startupops/backend/internal/apperr"
)

// Provider abstracts the checkout backend. The boundary is untrusted: the
// webhook payload is only accepted after signature verification, whatever
// the implementation.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error)
	GetCheckoutStatus(ctx context.Context, sessionID string) (*CheckoutStatus, error)
}

type CheckoutSessionRequest struct {
	Amount     float64           `json:"amount"`
	Currency   string            `json:"currency"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	Metadata   map[string]string `json:"metadata"`
}

type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

type CheckoutStatus struct {
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   float64           `json:"amount_total"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata"`
}

// WebhookEvent is the decoded, signature-verified webhook body.
type WebhookEvent struct {
	SessionID     string `json:"session_id"`
	PaymentStatus string `json:"payment_status"`
}

// Sign computes the webhook signature for a payload.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return fmt.Sprintf("sha256=%s", hex.EncodeToString(mac.Sum(nil)))
}

// VerifyWebhook checks the HMAC signature and decodes the event. A missing
// or wrong signature is an authentication failure.
func VerifyWebhook(body []byte, signature, secret string) (*WebhookEvent, error) {
	expected := Sign(body, secret)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, apperr.Wrap(apperr.ErrUnauthenticated, "webhook signature mismatch")
	}
	var ev WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, apperr.Wrap(apperr.ErrValidation, "malformed webhook payload")
	}
	if ev.SessionID == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "webhook payload missing session_id")
	}
	return &ev, nil
}
