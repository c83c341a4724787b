package models

import (
	"time"

	"github.com/google/uuid"
)

type Leave struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	TenantID   uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	UserID     uuid.UUID  `json:"user_id" db:"user_id"`
	UserName   string     `json:"user_name" db:"user_name"`
	Type       string     `json:"type" db:"type"`
	StartDate  string     `json:"start_date" db:"start_date"`
	EndDate    string     `json:"end_date" db:"end_date"`
	Reason     string     `json:"reason" db:"reason"`
	Status     string     `json:"status" db:"status"`
	ApprovedBy *uuid.UUID `json:"approved_by,omitempty" db:"approved_by"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}
