package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type PaymentTransaction struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	TenantID      uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	UserID        uuid.UUID       `json:"user_id" db:"user_id"`
	SessionID     string          `json:"session_id" db:"session_id"`
	Amount        float64         `json:"amount" db:"amount"`
	Currency      string          `json:"currency" db:"currency"`
	Plan          string          `json:"plan" db:"plan"`
	PaymentStatus string          `json:"payment_status" db:"payment_status"`
	Metadata      json.RawMessage `json:"metadata" db:"metadata"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

type PaymentMethod struct {
	ID             uuid.UUID `json:"id" db:"id"`
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	CardNumber     string    `json:"card_number" db:"card_number"` // masked, last four only
	Expiry         string    `json:"expiry" db:"expiry"`
	CardholderName string    `json:"cardholder_name" db:"cardholder_name"`
	Type           string    `json:"type" db:"type"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

type Domain struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Domain      string    `json:"domain" db:"domain"`
	OwnerEmail  string    `json:"owner_email" db:"owner_email"`
	Status      string    `json:"status" db:"status"`
	PurchasedAt time.Time `json:"purchased_at" db:"purchased_at"`
	ExpiresAt   time.Time `json:"expires_at" db:"expires_at"`
}
