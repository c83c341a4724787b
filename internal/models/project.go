package models

import (
	"time"

	"github.com/google/uuid"
)

const ProjectStatusCompleted = "completed"

type Project struct {
	ID          uuid.UUID `json:"id" db:"id"`
	TenantID    uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Value       float64   `json:"value" db:"value"`
	ClientName  string    `json:"client_name" db:"client_name"`
	ClientEmail string    `json:"client_email" db:"client_email"`
	Status      string    `json:"status" db:"status"`
	CreatedBy   uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type Task struct {
	ID          uuid.UUID `json:"id" db:"id"`
	TenantID    uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Status      string    `json:"status" db:"status"`
	Priority    string    `json:"priority" db:"priority"`
	Project     string    `json:"project" db:"project"`
	AssignedTo  uuid.UUID `json:"assigned_to" db:"assigned_to"`
	CreatedBy   uuid.UUID `json:"created_by" db:"created_by"`
	DueDate     *string   `json:"due_date,omitempty" db:"due_date"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
