package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog rows are append-only: never updated, never deleted.
type AuditLog struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	TenantID  *uuid.UUID `json:"tenant_id,omitempty" db:"tenant_id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	UserName  string     `json:"user_name" db:"user_name"`
	Action    string     `json:"action" db:"action"`
	Resource  string     `json:"resource" db:"resource"`
	Details   string     `json:"details" db:"details"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

type Notification struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Type      string    `json:"type" db:"type"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	Read      bool      `json:"read" db:"read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
