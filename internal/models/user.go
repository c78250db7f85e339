package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type User struct {
	ID                uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Email             string    `json:"email" gorm:"uniqueIndex;not null"`
	Password          string    `json:"-" gorm:"not null"`
	FullName          string    `json:"full_name"`
	PreferredLanguage string    `json:"preferred_language" gorm:"not null;default:'en'"`
	IsActive          bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "user_profiles"
}
