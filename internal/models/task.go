package models

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Task struct {
	ID            uuid.UUID      `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	UserID        uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	Title         string         `json:"title" gorm:"not null"`
	Notes         string         `json:"notes"`
	TitleEN       string         `json:"title_en,omitempty"`
	TitleHI       string         `json:"title_hi,omitempty"`
	NotesEN       string         `json:"notes_en,omitempty"`
	NotesHI       string         `json:"notes_hi,omitempty"`
	Completed     bool           `json:"completed" gorm:"not null;default:false"`
	Priority      string         `json:"priority" gorm:"not null;default:'medium'"`
	DueDate       *time.Time     `json:"due_date" gorm:"type:date"`
	AttachmentURL string         `json:"attachment_url,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Task) TableName() string {
	return "todos"
}

// IsValidPriority reports whether p is one of the allowed priority values.
func IsValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Localize overwrites Title and Notes with the language-specific columns
// when they are populated, falling back to the base fields.
func (t *Task) Localize(lang string) {
	switch lang {
	case "hi":
		if t.TitleHI != "" {
			t.Title = t.TitleHI
		}
		if t.NotesHI != "" {
			t.Notes = t.NotesHI
		}
	default:
		if t.TitleEN != "" {
			t.Title = t.TitleEN
		}
		if t.NotesEN != "" {
			t.Notes = t.NotesEN
		}
	}
}
