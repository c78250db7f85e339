package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/KmNeetuSingh/BlueSpace/internal/middleware"
	"github.com/KmNeetuSingh/BlueSpace/internal/models"
	"github.com/KmNeetuSingh/BlueSpace/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService}
}

type taskInput struct {
	Title         string  `json:"title"`
	Notes         string  `json:"notes"`
	TitleEN       string  `json:"title_en"`
	TitleHI       string  `json:"title_hi"`
	NotesEN       string  `json:"notes_en"`
	NotesHI       string  `json:"notes_hi"`
	Completed     bool    `json:"completed"`
	Priority      string  `json:"priority"`
	DueDate       *string `json:"due_date"`
	AttachmentURL string  `json:"attachment_url"`
}

func (h *TaskHandler) GetTasks(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
		return
	}

	tasks, err := h.taskService.ListTasks(h.db, user.ID)
	if err != nil {
		handleTaskError(c, err)
		return
	}

	lang := middleware.RequestLang(c, user.PreferredLanguage)
	localized := make([]models.Task, len(tasks))
	for i, t := range tasks {
		t.Localize(lang)
		localized[i] = t
	}

	c.JSON(http.StatusOK, localized)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
		return
	}

	var input taskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dueDate, err := parseDueDate(input.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "due_date must be YYYY-MM-DD"})
		return
	}

	task := models.Task{
		UserID:        user.ID,
		Title:         input.Title,
		Notes:         input.Notes,
		TitleEN:       input.TitleEN,
		TitleHI:       input.TitleHI,
		NotesEN:       input.NotesEN,
		NotesHI:       input.NotesHI,
		Completed:     input.Completed,
		Priority:      input.Priority,
		DueDate:       dueDate,
		AttachmentURL: input.AttachmentURL,
	}

	if err := h.taskService.CreateTask(h.db, &task); err != nil {
		handleTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

type taskPatch struct {
	Title         *string `json:"title"`
	Notes         *string `json:"notes"`
	TitleEN       *string `json:"title_en"`
	TitleHI       *string `json:"title_hi"`
	NotesEN       *string `json:"notes_en"`
	NotesHI       *string `json:"notes_hi"`
	Completed     *bool   `json:"completed"`
	Priority      *string `json:"priority"`
	DueDate       *string `json:"due_date"`
	AttachmentURL *string `json:"attachment_url"`
}

// updates builds the column map for the fields actually present in the patch.
func (p *taskPatch) updates() (map[string]interface{}, error) {
	updates := make(map[string]interface{})
	if p.Title != nil {
		updates["title"] = *p.Title
	}
	if p.Notes != nil {
		updates["notes"] = *p.Notes
	}
	if p.TitleEN != nil {
		updates["title_en"] = *p.TitleEN
	}
	if p.TitleHI != nil {
		updates["title_hi"] = *p.TitleHI
	}
	if p.NotesEN != nil {
		updates["notes_en"] = *p.NotesEN
	}
	if p.NotesHI != nil {
		updates["notes_hi"] = *p.NotesHI
	}
	if p.Completed != nil {
		updates["completed"] = *p.Completed
	}
	if p.Priority != nil {
		updates["priority"] = *p.Priority
	}
	if p.DueDate != nil {
		due, err := parseDueDate(p.DueDate)
		if err != nil {
			return nil, err
		}
		updates["due_date"] = due
	}
	if p.AttachmentURL != nil {
		updates["attachment_url"] = *p.AttachmentURL
	}
	return updates, nil
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
		return
	}

	id := uuid.FromStringOrNil(c.Param("id"))

	var patch taskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates, err := patch.updates()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "due_date must be YYYY-MM-DD"})
		return
	}

	task, err := h.taskService.UpdateTask(h.db, user.ID, id, updates)
	if err != nil {
		handleTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
		return
	}

	id := uuid.FromStringOrNil(c.Param("id"))
	if err := h.taskService.DeleteTask(h.db, user.ID, id); err != nil {
		handleTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
		return
	}

	id := uuid.FromStringOrNil(c.Param("id"))
	task, err := h.taskService.GetTask(h.db, user.ID, id)
	if err != nil {
		handleTaskError(c, err)
		return
	}

	lang := middleware.RequestLang(c, user.PreferredLanguage)
	task.Localize(lang)

	c.JSON(http.StatusOK, task)
}

func parseDueDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func handleTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	case errors.Is(err, services.ErrEmptyTitle), errors.Is(err, services.ErrInvalidPriority):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process task request"})
	}
}
