package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KmNeetuSingh/BlueSpace/internal/ai"
	"github.com/KmNeetuSingh/BlueSpace/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var ErrEmptyPrompt = errors.New("prompt is required")

// SuggestionService stores one row per LLM completion. Ownership is checked
// on every read and mutation; there is no shared or in-memory variant.
type SuggestionService interface {
	ListSuggestions(db *gorm.DB, userID uuid.UUID) ([]models.Suggestion, error)
	GetSuggestion(db *gorm.DB, userID, id uuid.UUID) (models.Suggestion, error)
	CreateSuggestion(ctx context.Context, db *gorm.DB, userID uuid.UUID, title, prompt string) (*models.Suggestion, error)
	DeleteSuggestion(db *gorm.DB, userID, id uuid.UUID) error
}

type SuggestionServiceImpl struct {
	client *ai.Client
}

func NewSuggestionService(client *ai.Client) *SuggestionServiceImpl {
	return &SuggestionServiceImpl{client: client}
}

func (s *SuggestionServiceImpl) ListSuggestions(db *gorm.DB, userID uuid.UUID) ([]models.Suggestion, error) {
	var suggestions []models.Suggestion
	result := db.Where("user_id = ?", userID).Order("created_at desc").Find(&suggestions)
	return suggestions, result.Error
}

func (s *SuggestionServiceImpl) GetSuggestion(db *gorm.DB, userID, id uuid.UUID) (models.Suggestion, error) {
	var suggestion models.Suggestion
	result := db.Where("id = ? AND user_id = ?", id, userID).First(&suggestion)
	return suggestion, result.Error
}

// CreateSuggestion calls the completion provider once and stores the raw
// response verbatim. Provider errors fail the request; there is no retry.
func (s *SuggestionServiceImpl) CreateSuggestion(ctx context.Context, db *gorm.DB, userID uuid.UUID, title, prompt string) (*models.Suggestion, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	text, err := s.client.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("completion failed: %w", err)
	}

	if title == "" {
		title = "AI Suggestion"
	}

	suggestion := models.Suggestion{
		ID:             uuid.Must(uuid.NewV4()),
		UserID:         userID,
		Title:          title,
		Prompt:         prompt,
		SuggestionText: text,
	}
	if err := db.Create(&suggestion).Error; err != nil {
		return nil, err
	}

	return &suggestion, nil
}

func (s *SuggestionServiceImpl) DeleteSuggestion(db *gorm.DB, userID, id uuid.UUID) error {
	result := db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Suggestion{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
