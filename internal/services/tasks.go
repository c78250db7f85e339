package services

import (
	"errors"
	"strings"

	"github.com/KmNeetuSingh/BlueSpace/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// ErrEmptyTitle rejects tasks whose title is blank after trimming.
var ErrEmptyTitle = errors.New("title is required")

// ErrInvalidPriority rejects priorities outside low|medium|high.
var ErrInvalidPriority = errors.New("priority must be low, medium or high")

// TaskService is the task store adapter. Every operation is scoped to the
// owning user: rows belonging to anyone else behave as if they do not exist.
type TaskService interface {
	ListTasks(db *gorm.DB, userID uuid.UUID) ([]models.Task, error)
	GetTask(db *gorm.DB, userID, id uuid.UUID) (models.Task, error)
	CreateTask(db *gorm.DB, task *models.Task) error
	UpdateTask(db *gorm.DB, userID, id uuid.UUID, updates map[string]interface{}) (models.Task, error)
	DeleteTask(db *gorm.DB, userID, id uuid.UUID) error
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

func (s *TaskServiceImpl) ListTasks(db *gorm.DB, userID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	result := db.Where("user_id = ?", userID).Order("created_at desc").Find(&tasks)
	return tasks, result.Error
}

func (s *TaskServiceImpl) GetTask(db *gorm.DB, userID, id uuid.UUID) (models.Task, error) {
	var task models.Task
	result := db.Where("id = ? AND user_id = ?", id, userID).First(&task)
	return task, result.Error
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, task *models.Task) error {
	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return ErrEmptyTitle
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if !models.IsValidPriority(task.Priority) {
		return ErrInvalidPriority
	}
	if task.ID == uuid.Nil {
		task.ID = uuid.Must(uuid.NewV4())
	}
	return db.Create(task).Error
}

// UpdateTask applies a partial patch to a task the user owns. Last writer
// wins; there is no optimistic concurrency control.
func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, userID, id uuid.UUID, updates map[string]interface{}) (models.Task, error) {
	var task models.Task
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&task).Error; err != nil {
		return models.Task{}, err
	}

	if title, ok := updates["title"].(string); ok {
		title = strings.TrimSpace(title)
		if title == "" {
			return models.Task{}, ErrEmptyTitle
		}
		updates["title"] = title
	}
	if priority, ok := updates["priority"].(string); ok && !models.IsValidPriority(priority) {
		return models.Task{}, ErrInvalidPriority
	}

	if len(updates) > 0 {
		if err := db.Model(&task).Updates(updates).Error; err != nil {
			return models.Task{}, err
		}
	}

	result := db.Where("id = ?", id).First(&task)
	return task, result.Error
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, userID, id uuid.UUID) error {
	result := db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
