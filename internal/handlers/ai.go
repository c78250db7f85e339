package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/KmNeetuSingh/BlueSpace/internal/middleware"
	"github.com/KmNeetuSingh/BlueSpace/internal/models"
	"github.com/KmNeetuSingh/BlueSpace/internal/services"
	"github.com/KmNeetuSingh/BlueSpace/internal/suggest"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type AIHandler struct {
	db                *gorm.DB
	suggestionService services.SuggestionService
	taskService       services.TaskService
}

func NewAIHandler(db *gorm.DB, suggestionService services.SuggestionService, taskService services.TaskService) *AIHandler {
	return &AIHandler{db: db, suggestionService: suggestionService, taskService: taskService}
}

func (h *AIHandler) GetSuggestions(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
		return
	}

	suggestions, err := h.suggestionService.ListSuggestions(h.db, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch AI suggestions"})
		return
	}

	c.JSON(http.StatusOK, suggestions)
}

type createSuggestionRequest struct {
	Prompt string `json:"prompt"`
	Title  string `json:"title"`
	// Goal is an accepted alias for Prompt kept for older clients.
	Goal string `json:"goal"`
}

func (h *AIHandler) CreateSuggestion(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
		return
	}

	var req createSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		prompt = strings.TrimSpace(req.Goal)
	}

	suggestion, err := h.suggestionService.CreateSuggestion(c.Request.Context(), h.db, user.ID, req.Title, prompt)
	if err != nil {
		if errors.Is(err, services.ErrEmptyPrompt) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt is required"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate AI suggestion"})
		}
		return
	}

	c.JSON(http.StatusCreated, suggestion)
}

func (h *AIHandler) DeleteSuggestion(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
		return
	}

	id := uuid.FromStringOrNil(c.Param("id"))
	if err := h.suggestionService.DeleteSuggestion(h.db, user.ID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "AI suggestion not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete AI suggestion"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type suggestionToTaskRequest struct {
	Title   string `json:"title"`
	Checked []int  `json:"checked"`
}

// SuggestionToTask creates a task from a stored suggestion. Notes are the
// checked item labels joined in original order, or the full suggestion text
// when nothing is checked. Completed is set only when every item is checked.
func (h *AIHandler) SuggestionToTask(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
		return
	}

	id := uuid.FromStringOrNil(c.Param("id"))
	suggestion, err := h.suggestionService.GetSuggestion(h.db, user.ID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "AI suggestion not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch AI suggestion"})
		}
		return
	}

	var req suggestionToTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	checked := make(map[int]bool, len(req.Checked))
	for _, i := range req.Checked {
		checked[i] = true
	}

	items := suggest.ParseItems(suggestion.SuggestionText)
	notes := suggest.JoinChecked(items, checked)
	if notes == "" {
		notes = suggestion.SuggestionText
	}

	title := req.Title
	if title == "" {
		title = suggestion.Title
	}
	if title == "" {
		title = "AI Task"
	}

	task := models.Task{
		UserID:    user.ID,
		Title:     title,
		Notes:     notes,
		Completed: suggest.AllChecked(items, checked),
	}
	if err := h.taskService.CreateTask(h.db, &task); err != nil {
		handleTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}
