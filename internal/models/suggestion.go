package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// Suggestion is a stored LLM completion tied to the user who requested it.
// SuggestionText is kept verbatim; checklist items are derived at read time.
type Suggestion struct {
	ID             uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	UserID         uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Title          string    `json:"title"`
	Prompt         string    `json:"prompt" gorm:"type:text;not null"`
	SuggestionText string    `json:"suggestion" gorm:"column:suggestion_text;type:text;not null"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Suggestion) TableName() string {
	return "ai_suggestions"
}
