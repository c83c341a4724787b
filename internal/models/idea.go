package models

import (
	"time"

	"github.com/google/uuid"
)

// Idea lives on the global founder community board and is deliberately not
// tenant-scoped.
type Idea struct {
	ID            uuid.UUID      `json:"id" db:"id"`
	Title         string         `json:"title" db:"title"`
	Description   string         `json:"description" db:"description"`
	Category      string         `json:"category" db:"category"`
	Priority      string         `json:"priority" db:"priority"`
	Votes         int            `json:"votes" db:"votes"`
	Voters        []uuid.UUID    `json:"voters" db:"voters"`
	Feedback      []IdeaFeedback `json:"feedback" db:"feedback"`
	Status        string         `json:"status" db:"status"`
	CreatedBy     uuid.UUID      `json:"created_by" db:"created_by"`
	CreatedByName string         `json:"created_by_name" db:"created_by_name"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

type IdeaFeedback struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Content   string    `json:"content"`
	Sentiment string    `json:"sentiment"`
	CreatedAt time.Time `json:"created_at"`
}
