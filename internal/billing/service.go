package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/startupops/backend/internal/apperr"
	"github.com/startupops/backend/internal/models"
	"github.com/startupops/backend/internal/payment"
	"github.com/startupops/backend/internal/tenant"
)

type Auditor interface {
	Record(ctx context.Context, actor *models.User, action, resource, details string)
}

type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message, notifType string)
}

// Service handles subscription checkout and payment method storage. The
// price a session is created for always comes from the plan table, never
// from the client.
type Service struct {
	db       *pgxpool.Pool
	provider payment.Provider
	users    *tenant.Service
	audit    Auditor
	notify   Notifier
}

func NewService(db *pgxpool.Pool, provider payment.Provider, users *tenant.Service, audit Auditor, notify Notifier) *Service {
	return &Service{db: db, provider: provider, users: users, audit: audit, notify: notify}
}

type CheckoutResult struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

// Checkout creates a provider session for a paid plan and records an
// initiated transaction keyed by the session id.
func (s *Service) Checkout(ctx context.Context, actor *models.User, planID, originURL string) (*CheckoutResult, error) {
	plan, ok := PlanByID(planID)
	if !ok || planID == "free" {
		return nil, apperr.Wrap(apperr.ErrValidation, "invalid plan")
	}
	if originURL == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "origin_url is required")
	}

	sess, err := s.provider.CreateCheckoutSession(ctx, payment.CheckoutSessionRequest{
		Amount:     plan.Price,
		Currency:   "usd",
		SuccessURL: originURL + "/subscription?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  originURL + "/subscription",
		Metadata: map[string]string{
			"user_id":    actor.ID.String(),
			"plan_id":    planID,
			"user_email": actor.Email,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	meta, _ := json.Marshal(map[string]string{"plan_id": planID, "user_email": actor.Email})
	_, err = s.db.Exec(ctx,
		`INSERT INTO payment_transactions (tenant_id, user_id, session_id, amount, currency, plan, payment_status, metadata)
		 VALUES ($1, $2, $3, $4, 'usd', $5, 'initiated', $6)`,
		actor.TenantID, actor.ID, sess.SessionID, plan.Price, planID, meta)
	if err != nil {
		return nil, fmt.Errorf("record transaction: %w", err)
	}

	s.audit.Record(ctx, actor, "checkout", "subscriptions",
		fmt.Sprintf("Started checkout for %s", planID))
	return &CheckoutResult{URL: sess.URL, SessionID: sess.SessionID}, nil
}

type StatusResult struct {
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
	AmountTotal   float64 `json:"amount_total"`
	Currency      string  `json:"currency"`
}

// CheckoutStatus polls the provider and applies a paid transition exactly
// once: the guarded UPDATE keeps repeat polls from re-upgrading the plan.
func (s *Service) CheckoutStatus(ctx context.Context, actor *models.User, sessionID string) (*StatusResult, error) {
	st, err := s.provider.GetCheckoutStatus(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("checkout status: %w", err)
	}

	var plan, prevStatus string
	err = s.db.QueryRow(ctx,
		"SELECT plan, payment_status FROM payment_transactions WHERE session_id = $1",
		sessionID).Scan(&plan, &prevStatus)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("load transaction: %w", err)
	}

	if err == nil && prevStatus != "paid" {
		tag, err := s.db.Exec(ctx,
			`UPDATE payment_transactions SET payment_status = $1, updated_at = now()
			 WHERE session_id = $2 AND payment_status <> 'paid'`,
			st.PaymentStatus, sessionID)
		if err != nil {
			return nil, fmt.Errorf("update transaction: %w", err)
		}
		if st.PaymentStatus == "paid" && tag.RowsAffected() == 1 {
			if plan == "" {
				plan = st.Metadata["plan_id"]
			}
			if plan == "" {
				plan = "professional"
			}
			if err := s.users.UpdateSubscription(ctx, actor.ID, plan); err != nil {
				return nil, fmt.Errorf("apply subscription: %w", err)
			}
			s.notify.Notify(ctx, actor.ID, "Subscription Activated",
				fmt.Sprintf("Your %s plan is now active!", titlePlan(plan)), "email")
			s.audit.Record(ctx, actor, "subscription_activated", "subscriptions",
				fmt.Sprintf("Activated %s", plan))
		}
	}

	return &StatusResult{
		Status:        st.Status,
		PaymentStatus: st.PaymentStatus,
		AmountTotal:   st.AmountTotal,
		Currency:      st.Currency,
	}, nil
}

// HandleWebhook marks the keyed transaction paid. The caller verifies the
// signature before the event reaches this method.
func (s *Service) HandleWebhook(ctx context.Context, ev *payment.WebhookEvent) error {
	if ev.PaymentStatus != "paid" {
		return nil
	}
	_, err := s.db.Exec(ctx,
		`UPDATE payment_transactions SET payment_status = 'paid', updated_at = now()
		 WHERE session_id = $1 AND payment_status <> 'paid'`,
		ev.SessionID)
	if err != nil {
		return fmt.Errorf("apply webhook: %w", err)
	}
	return nil
}

type PaymentMethodInput struct {
	CardNumber     string `json:"card_number"`
	Expiry         string `json:"expiry"`
	CardholderName string `json:"cardholder_name"`
}

// AddPaymentMethod stores a masked card. Only the last four digits are ever
// persisted.
func (s *Service) AddPaymentMethod(ctx context.Context, actor *models.User, in PaymentMethodInput) (*models.PaymentMethod, error) {
	digits := strings.ReplaceAll(in.CardNumber, " ", "")
	if len(digits) < 4 {
		return nil, apperr.Wrap(apperr.ErrValidation, "card_number is too short")
	}
	lastFour := digits[len(digits)-4:]

	var m models.PaymentMethod
	err := s.db.QueryRow(ctx,
		`INSERT INTO payment_methods (user_id, card_number, expiry, cardholder_name, type)
		 VALUES ($1, $2, $3, $4, 'card')
		 RETURNING id, user_id, card_number, expiry, cardholder_name, type, created_at`,
		actor.ID, "**** **** **** "+lastFour, in.Expiry, in.CardholderName).Scan(
		&m.ID, &m.UserID, &m.CardNumber, &m.Expiry, &m.CardholderName, &m.Type, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("add payment method: %w", err)
	}

	s.audit.Record(ctx, actor, "add_payment_method", "auth",
		fmt.Sprintf("Added card ending in %s", lastFour))
	return &m, nil
}

func (s *Service) ListPaymentMethods(ctx context.Context, userID uuid.UUID) ([]models.PaymentMethod, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, card_number, expiry, cardholder_name, type, created_at
		 FROM payment_methods WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	defer rows.Close()

	methods := []models.PaymentMethod{}
	for rows.Next() {
		var m models.PaymentMethod
		if err := rows.Scan(&m.ID, &m.UserID, &m.CardNumber, &m.Expiry, &m.CardholderName, &m.Type, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		methods = append(methods, m)
	}
	return methods, rows.Err()
}

func titlePlan(plan string) string {
	if plan == "" {
		return plan
	}
	return strings.ToUpper(plan[:1]) + plan[1:]
}
