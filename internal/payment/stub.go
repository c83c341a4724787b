package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// StubProvider approves every checkout. It stands in for a real processor
// in development and test environments; sessions live in memory.
type StubProvider struct {
	mu       sync.Mutex
	sessions map[string]CheckoutSessionRequest
}

func NewStubProvider() *StubProvider {
	return &StubProvider{sessions: map[string]CheckoutSessionRequest{}}
}

func (p *StubProvider) CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error) {
	id := "cs_" + uuid.NewString()
	p.mu.Lock()
	p.sessions[id] = req
	p.mu.Unlock()
	return &CheckoutSession{
		SessionID: id,
		URL:       fmt.Sprintf("https://checkout.example.com/pay/%s", id),
	}, nil
}

func (p *StubProvider) GetCheckoutStatus(ctx context.Context, sessionID string) (*CheckoutStatus, error) {
	p.mu.Lock()
	req, ok := p.sessions[sessionID]
	p.mu.Unlock()
	if !ok {
		return &CheckoutStatus{Status: "expired", PaymentStatus: "unpaid"}, nil
	}
	return &CheckoutStatus{
		Status:        "complete",
		PaymentStatus: "paid",
		AmountTotal:   req.Amount,
		Currency:      req.Currency,
		Metadata:      req.Metadata,
	}, nil
}
