package models

import (
	"time"

	"github.com/google/uuid"
)

const InvoiceStatusPaid = "paid"

type InvoiceItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Rate        float64 `json:"rate"`
}

type Invoice struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	TenantID      uuid.UUID     `json:"tenant_id" db:"tenant_id"`
	InvoiceNumber string        `json:"invoice_number" db:"invoice_number"`
	ClientName    string        `json:"client_name" db:"client_name"`
	ClientEmail   string        `json:"client_email" db:"client_email"`
	Items         []InvoiceItem `json:"items" db:"items"`
	Total         float64       `json:"total" db:"total"`
	Status        string        `json:"status" db:"status"`
	DueDate       string        `json:"due_date" db:"due_date"`
	CreatedBy     uuid.UUID     `json:"created_by" db:"created_by"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

type Expense struct {
	ID              uuid.UUID `json:"id" db:"id"`
	TenantID        uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Title           string    `json:"title" db:"title"`
	Amount          float64   `json:"amount" db:"amount"`
	Category        string    `json:"category" db:"category"`
	Status          string    `json:"status" db:"status"`
	SubmittedBy     uuid.UUID `json:"submitted_by" db:"submitted_by"`
	SubmittedByName string    `json:"submitted_by_name" db:"submitted_by_name"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}
