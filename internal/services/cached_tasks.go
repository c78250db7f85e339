package services

import (
	"fmt"
	"log"
	"time"

	"github.com/KmNeetuSingh/BlueSpace/internal/cache"
	"github.com/KmNeetuSingh/BlueSpace/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const taskListTTL = 5 * time.Minute

// CachedTaskService decorates a TaskService with a per-user list cache.
// Any mutation for a user evicts that user's cached list.
type CachedTaskService struct {
	inner TaskService
	cache cache.Cache
}

func NewCachedTaskService(inner TaskService, c cache.Cache) *CachedTaskService {
	return &CachedTaskService{inner: inner, cache: c}
}

func taskListKey(userID uuid.UUID) string {
	return fmt.Sprintf("tasks:user:%s", userID)
}

func (s *CachedTaskService) ListTasks(db *gorm.DB, userID uuid.UUID) ([]models.Task, error) {
	key := taskListKey(userID)

	var cached []models.Task
	if err := s.cache.Get(key, &cached); err == nil {
		return cached, nil
	}

	tasks, err := s.inner.ListTasks(db, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(key, tasks, taskListTTL); err != nil {
		log.Printf("cache set failed for %s: %v", key, err)
	}
	return tasks, nil
}

func (s *CachedTaskService) GetTask(db *gorm.DB, userID, id uuid.UUID) (models.Task, error) {
	return s.inner.GetTask(db, userID, id)
}

func (s *CachedTaskService) CreateTask(db *gorm.DB, task *models.Task) error {
	if err := s.inner.CreateTask(db, task); err != nil {
		return err
	}
	s.invalidate(task.UserID)
	return nil
}

func (s *CachedTaskService) UpdateTask(db *gorm.DB, userID, id uuid.UUID, updates map[string]interface{}) (models.Task, error) {
	task, err := s.inner.UpdateTask(db, userID, id, updates)
	if err != nil {
		return task, err
	}
	s.invalidate(userID)
	return task, nil
}

func (s *CachedTaskService) DeleteTask(db *gorm.DB, userID, id uuid.UUID) error {
	if err := s.inner.DeleteTask(db, userID, id); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

func (s *CachedTaskService) invalidate(userID uuid.UUID) {
	if err := s.cache.Delete(taskListKey(userID)); err != nil {
		log.Printf("cache invalidation failed for user %s: %v", userID, err)
	}
}
