package payment

import (
	"context"
	"testing"

	"github.com/startupops/backend/internal/apperr"
	"github.com/stretchr/testify/require"
)

func TestVerifyWebhook(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"session_id":"cs_123","payment_status":"paid"}`)

	ev, err := VerifyWebhook(body, Sign(body, secret), secret)
	require.NoError(t, err)
	require.Equal(t, "cs_123", ev.SessionID)
	require.Equal(t, "paid", ev.PaymentStatus)
}

func TestVerifyWebhookRejectsBadSignature(t *testing.T) {
	body := []byte(`{"session_id":"cs_123","payment_status":"paid"}`)

	_, err := VerifyWebhook(body, Sign(body, "other-secret"), "whsec_test")
	require.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = VerifyWebhook(body, "", "whsec_test")
	require.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestVerifyWebhookRejectsMalformedPayload(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`not json`)
	_, err := VerifyWebhook(body, Sign(body, secret), secret)
	require.ErrorIs(t, err, apperr.ErrValidation)

	empty := []byte(`{}`)
	_, err = VerifyWebhook(empty, Sign(empty, secret), secret)
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestStubProviderRoundTrip(t *testing.T) {
	p := NewStubProvider()
	sess, err := p.CreateCheckoutSession(context.Background(), CheckoutSessionRequest{
		Amount: 29.99, Currency: "usd", Metadata: map[string]string{"plan_id": "professional"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, sess.SessionID)

	st, err := p.GetCheckoutStatus(context.Background(), sess.SessionID)
	require.NoError(t, err)
	require.Equal(t, "paid", st.PaymentStatus)
	require.Equal(t, 29.99, st.AmountTotal)
	require.Equal(t, "professional", st.Metadata["plan_id"])

	missing, err := p.GetCheckoutStatus(context.Background(), "cs_unknown")
	require.NoError(t, err)
	require.Equal(t, "unpaid", missing.PaymentStatus)
}
