package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/KmNeetuSingh/BlueSpace/internal/models"

	"github.com/gofrs/uuid"
)

// fakeBackend serves just enough of the REST surface for store tests.
type fakeBackend struct {
	mu          *http.ServeMux
	lastAuth    string
	lastLang    string
	failUpdates bool
	tasks       []models.Task
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{mu: http.NewServeMux()}

	fb.mu.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["password"] != "secret123" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid login credentials"})
			return
		}
		id, _ := uuid.NewV4()
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"message":       "Login successful",
			"user":          map[string]string{"id": id.String(), "email": req["email"]},
			"access_token":  "test-access",
			"refresh_token": "test-refresh",
			"expires_at":    1767225600,
		})
	})

	fb.mu.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Logged out"})
	})

	fb.mu.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		fb.lastAuth = r.Header.Get("Authorization")
		fb.lastLang = r.Header.Get("X-Lang")
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(fb.tasks)
		case http.MethodPost:
			var task models.Task
			_ = json.NewDecoder(r.Body).Decode(&task)
			task.ID, _ = uuid.NewV4()
			fb.tasks = append(fb.tasks, task)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(task)
		}
	})

	fb.mu.HandleFunc("/tasks/", func(w http.ResponseWriter, r *http.Request) {
		fb.lastAuth = r.Header.Get("Authorization")
		if fb.failUpdates {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "failed to process task request"})
			return
		}
		switch r.Method {
		case http.MethodPatch:
			var patch map[string]interface{}
			_ = json.NewDecoder(r.Body).Decode(&patch)
			for i, task := range fb.tasks {
				if task.ID.String() == filepath.Base(r.URL.Path) {
					if v, ok := patch["title"].(string); ok {
						task.Title = v
					}
					if v, ok := patch["completed"].(bool); ok {
						task.Completed = v
					}
					fb.tasks[i] = task
					_ = json.NewEncoder(w).Encode(task)
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "task not found"})
		case http.MethodDelete:
			_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
		}
	})

	srv := httptest.NewServer(fb.mu)
	t.Cleanup(srv.Close)
	return fb, srv
}

func newTestStore(t *testing.T, baseURL string) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), NewAPIClient(baseURL))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestStore_LoginPersistsSession(t *testing.T) {
	_, srv := newFakeBackend(t)
	dir := t.TempDir()

	s, err := NewStore(dir, NewAPIClient(srv.URL))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if err := s.Login(context.Background(), "demo@bluespace.dev", "secret123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if s.Auth.Status != StatusFulfilled || !s.LoggedIn() {
		t.Fatalf("expected fulfilled session, got %+v", s.Auth)
	}

	// A fresh store over the same dir must pick the session back up.
	reloaded, err := NewStore(dir, NewAPIClient(srv.URL))
	if err != nil {
		t.Fatalf("NewStore reload: %v", err)
	}
	if !reloaded.LoggedIn() || reloaded.Auth.AccessToken != "test-access" {
		t.Errorf("expected persisted session, got %+v", reloaded.Auth)
	}
}

func TestStore_LoginRejected(t *testing.T) {
	_, srv := newFakeBackend(t)
	s := newTestStore(t, srv.URL)

	err := s.Login(context.Background(), "demo@bluespace.dev", "wrong")
	if err == nil {
		t.Fatal("expected login error")
	}
	if s.Auth.Status != StatusRejected {
		t.Errorf("expected rejected status, got %v", s.Auth.Status)
	}
	if s.LoggedIn() {
		t.Error("expected no armed token after rejected login")
	}
}

func TestStore_LogoutClearsSession(t *testing.T) {
	_, srv := newFakeBackend(t)
	dir := t.TempDir()
	s, err := NewStore(dir, NewAPIClient(srv.URL))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.Login(context.Background(), "demo@bluespace.dev", "secret123"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := s.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if s.LoggedIn() {
		t.Error("expected session cleared")
	}
	if _, err := os.Stat(filepath.Join(dir, authFile)); !os.IsNotExist(err) {
		t.Error("expected auth.json removed")
	}
}

func TestStore_RequestsCarryTokenAndLang(t *testing.T) {
	fb, srv := newFakeBackend(t)
	s := newTestStore(t, srv.URL)

	if err := s.Login(context.Background(), "demo@bluespace.dev", "secret123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := s.SetLang("hi"); err != nil {
		t.Fatalf("SetLang: %v", err)
	}
	if err := s.LoadTasks(context.Background()); err != nil {
		t.Fatalf("LoadTasks: %v", err)
	}

	if fb.lastAuth != "Bearer test-access" {
		t.Errorf("expected bearer token, got %q", fb.lastAuth)
	}
	if fb.lastLang != "hi" {
		t.Errorf("expected X-Lang hi, got %q", fb.lastLang)
	}
}

func TestStore_UpdateTaskOptimisticRollback(t *testing.T) {
	fb, srv := newFakeBackend(t)
	s := newTestStore(t, srv.URL)

	id, _ := uuid.NewV4()
	original := models.Task{ID: id, Title: "Buy milk"}
	fb.tasks = []models.Task{original}
	s.Tasks.Items = []models.Task{original}

	fb.failUpdates = true
	_, err := s.UpdateTask(context.Background(), id, map[string]interface{}{"title": "Buy bread"})
	if err == nil {
		t.Fatal("expected update error")
	}
	if s.Tasks.Status != StatusRejected {
		t.Errorf("expected rejected status, got %v", s.Tasks.Status)
	}
	if s.Tasks.Items[0].Title != "Buy milk" {
		t.Errorf("expected snapshot restored, got %q", s.Tasks.Items[0].Title)
	}

	fb.failUpdates = false
	task, err := s.UpdateTask(context.Background(), id, map[string]interface{}{"title": "Buy bread"})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if task.Title != "Buy bread" || s.Tasks.Items[0].Title != "Buy bread" {
		t.Errorf("expected reconciled title, got %q / %q", task.Title, s.Tasks.Items[0].Title)
	}
}

func TestStore_CheckedIndexesPersist(t *testing.T) {
	_, srv := newFakeBackend(t)
	dir := t.TempDir()
	s, err := NewStore(dir, NewAPIClient(srv.URL))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	id, _ := uuid.NewV4()
	for _, i := range []int{2, 0} {
		if err := s.SetCheck(id, i, true); err != nil {
			t.Fatalf("SetCheck: %v", err)
		}
	}
	if err := s.SetCheck(id, 2, false); err != nil {
		t.Fatalf("SetCheck uncheck: %v", err)
	}
	if err := s.SetCheck(id, 1, true); err != nil {
		t.Fatalf("SetCheck: %v", err)
	}

	want := []int{0, 1}
	if got := s.CheckedIndexes(id); !reflect.DeepEqual(got, want) {
		t.Errorf("CheckedIndexes = %v, want %v", got, want)
	}

	reloaded, err := NewStore(dir, NewAPIClient(srv.URL))
	if err != nil {
		t.Fatalf("NewStore reload: %v", err)
	}
	if got := reloaded.CheckedIndexes(id); !reflect.DeepEqual(got, want) {
		t.Errorf("reloaded CheckedIndexes = %v, want %v", got, want)
	}
}

func TestStore_ThemeAndLangPersist(t *testing.T) {
	_, srv := newFakeBackend(t)
	dir := t.TempDir()
	s, err := NewStore(dir, NewAPIClient(srv.URL))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if err := s.SetTheme("dark"); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if err := s.SetLang("hi"); err != nil {
		t.Fatalf("SetLang: %v", err)
	}

	reloaded, err := NewStore(dir, NewAPIClient(srv.URL))
	if err != nil {
		t.Fatalf("NewStore reload: %v", err)
	}
	if reloaded.UI.Theme != "dark" || reloaded.UI.Lang != "hi" {
		t.Errorf("expected persisted ui state, got %+v", reloaded.UI)
	}
}
