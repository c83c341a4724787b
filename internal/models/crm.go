package models

import (
	"time"

	"github.com/google/uuid"
)

type Lead struct {
	ID         uuid.UUID `json:"id" db:"id"`
	TenantID   uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	Company    string    `json:"company" db:"company"`
	Status     string    `json:"status" db:"status"`
	Value      float64   `json:"value" db:"value"`
	AssignedTo uuid.UUID `json:"assigned_to" db:"assigned_to"`
	CreatedBy  uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

type Deal struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	TenantID   uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	Title      string     `json:"title" db:"title"`
	Value      float64    `json:"value" db:"value"`
	Stage      string     `json:"stage" db:"stage"`
	LeadID     *uuid.UUID `json:"lead_id,omitempty" db:"lead_id"`
	AssignedTo uuid.UUID  `json:"assigned_to" db:"assigned_to"`
	CreatedBy  uuid.UUID  `json:"created_by" db:"created_by"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// DealStages is the fixed pipeline order used by the unit-economics
// breakdown.
var DealStages = []string{"prospecting", "negotiation", "proposal", "closed_won", "closed_lost"}
