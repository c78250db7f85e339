package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KmNeetuSingh/BlueSpace/internal/middleware"
	"github.com/KmNeetuSingh/BlueSpace/internal/models"
	"github.com/KmNeetuSingh/BlueSpace/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// fakeTaskService keeps tasks in memory and enforces per-user ownership the
// same way the real service does.
type fakeTaskService struct {
	tasks []models.Task
}

func (f *fakeTaskService) ListTasks(db *gorm.DB, userID uuid.UUID) ([]models.Task, error) {
	var out []models.Task
	for _, t := range f.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTaskService) GetTask(db *gorm.DB, userID, id uuid.UUID) (models.Task, error) {
	for _, t := range f.tasks {
		if t.ID == id && t.UserID == userID {
			return t, nil
		}
	}
	return models.Task{}, gorm.ErrRecordNotFound
}

func (f *fakeTaskService) CreateTask(db *gorm.DB, task *models.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return services.ErrEmptyTitle
	}
	if task.Priority != "" && !models.IsValidPriority(task.Priority) {
		return services.ErrInvalidPriority
	}
	if task.ID == uuid.Nil {
		task.ID, _ = uuid.NewV4()
	}
	f.tasks = append(f.tasks, *task)
	return nil
}

func (f *fakeTaskService) UpdateTask(db *gorm.DB, userID, id uuid.UUID, updates map[string]interface{}) (models.Task, error) {
	for i, t := range f.tasks {
		if t.ID == id && t.UserID == userID {
			if v, ok := updates["title"].(string); ok {
				if strings.TrimSpace(v) == "" {
					return models.Task{}, services.ErrEmptyTitle
				}
				t.Title = v
			}
			if v, ok := updates["completed"].(bool); ok {
				t.Completed = v
			}
			f.tasks[i] = t
			return t, nil
		}
	}
	return models.Task{}, gorm.ErrRecordNotFound
}

func (f *fakeTaskService) DeleteTask(db *gorm.DB, userID, id uuid.UUID) error {
	for i, t := range f.tasks {
		if t.ID == id && t.UserID == userID {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func setUser(user models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, user)
		c.Next()
	}
}

func newTaskRouter(user *models.User, svc services.TaskService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Language())
	if user != nil {
		r.Use(setUser(*user))
	}
	h := NewTaskHandler(nil, svc)
	r.GET("/tasks", h.GetTasks)
	r.POST("/tasks", h.CreateTask)
	r.GET("/tasks/:id", h.GetTaskByID)
	r.PATCH("/tasks/:id", h.UpdateTask)
	r.DELETE("/tasks/:id", h.DeleteTask)
	return r
}

func TestGetTasks_NoUser(t *testing.T) {
	r := newTaskRouter(nil, &fakeTaskService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestGetTasks_LocalizedHindi(t *testing.T) {
	user := testUser()
	id, _ := uuid.NewV4()
	svc := &fakeTaskService{tasks: []models.Task{{
		ID:      id,
		UserID:  user.ID,
		Title:   "Buy milk",
		TitleEN: "Buy milk",
		TitleHI: "दूध खरीदें",
	}}}
	r := newTaskRouter(user, svc)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("X-Lang", "hi")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var tasks []models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "दूध खरीदें" {
		t.Errorf("expected hindi title, got %+v", tasks)
	}
}

func TestCreateTask(t *testing.T) {
	user := testUser()

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{
			name:       "valid task",
			body:       map[string]interface{}{"title": "Buy milk", "priority": "high"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "blank title",
			body:       map[string]interface{}{"title": "   "},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad priority",
			body:       map[string]interface{}{"title": "Buy milk", "priority": "urgent"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad due date",
			body:       map[string]interface{}{"title": "Buy milk", "due_date": "next tuesday"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "valid due date",
			body:       map[string]interface{}{"title": "Buy milk", "due_date": "2026-10-01"},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTaskRouter(user, &fakeTaskService{})
			w := doJSON(t, r, http.MethodPost, "/tasks", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateTask_SetsOwner(t *testing.T) {
	user := testUser()
	svc := &fakeTaskService{}
	r := newTaskRouter(user, svc)

	w := doJSON(t, r, http.MethodPost, "/tasks", map[string]interface{}{"title": "Buy milk"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if len(svc.tasks) != 1 || svc.tasks[0].UserID != user.ID {
		t.Errorf("task not attributed to caller: %+v", svc.tasks)
	}
}

func TestUpdateTask_NotOwned(t *testing.T) {
	owner := testUser()
	otherID, _ := uuid.NewV4()
	taskID, _ := uuid.NewV4()
	svc := &fakeTaskService{tasks: []models.Task{{ID: taskID, UserID: otherID, Title: "Theirs"}}}
	r := newTaskRouter(owner, svc)

	w := doJSON(t, r, http.MethodPatch, "/tasks/"+taskID.String(), map[string]interface{}{
		"completed": true,
	})

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign task, got %d", w.Code)
	}
}

func TestUpdateTask_Completed(t *testing.T) {
	user := testUser()
	taskID, _ := uuid.NewV4()
	svc := &fakeTaskService{tasks: []models.Task{{ID: taskID, UserID: user.ID, Title: "Buy milk"}}}
	r := newTaskRouter(user, svc)

	w := doJSON(t, r, http.MethodPatch, "/tasks/"+taskID.String(), map[string]interface{}{
		"completed": true,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var task models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &task); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !task.Completed {
		t.Error("expected task to be completed")
	}
}

func TestDeleteTask(t *testing.T) {
	user := testUser()
	taskID, _ := uuid.NewV4()
	svc := &fakeTaskService{tasks: []models.Task{{ID: taskID, UserID: user.ID, Title: "Buy milk"}}}
	r := newTaskRouter(user, svc)

	w := doJSON(t, r, http.MethodDelete, "/tasks/"+taskID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := decodeBody(t, w)["success"]; got != true {
		t.Errorf("expected success true, got %v", got)
	}
	if len(svc.tasks) != 0 {
		t.Errorf("expected task removed, got %+v", svc.tasks)
	}
}

func TestGetTaskByID_NotFound(t *testing.T) {
	user := testUser()
	missing, _ := uuid.NewV4()
	r := newTaskRouter(user, &fakeTaskService{})

	var buf bytes.Buffer
	req := httptest.NewRequest(http.MethodGet, "/tasks/"+missing.String(), &buf)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if got := decodeBody(t, w)["error"]; got != "task not found" {
		t.Errorf("unexpected error message: %v", got)
	}
}
