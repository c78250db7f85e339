package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/KmNeetuSingh/BlueSpace/internal/models"

	"github.com/gofrs/uuid"
)

// Status tracks the lifecycle of the last async interaction on a slice.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
	StatusRejected  Status = "rejected"
)

const (
	authFile     = "auth.json"
	uiFile       = "ui.json"
	checkedFile  = "checked.json"
	subitemsFile = "subitems.json"
)

// AuthState is persisted to auth.json so the session survives between runs.
type AuthState struct {
	Status       Status       `json:"-"`
	Err          string       `json:"-"`
	User         *models.User `json:"user,omitempty"`
	AccessToken  string       `json:"access_token,omitempty"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	ExpiresAt    int64        `json:"expires_at,omitempty"`
}

type TaskState struct {
	Status Status
	Err    string
	Items  []models.Task
}

type AIState struct {
	Status Status
	Err    string
	Items  []models.Suggestion
}

// UIState is persisted to ui.json. Theme and language change locally with
// no server round trip.
type UIState struct {
	Theme string `json:"theme"`
	Lang  string `json:"lang"`
}

// Store holds the client-side state slices and their file persistence.
type Store struct {
	dir string
	api *APIClient

	Auth  AuthState
	Tasks TaskState
	AI    AIState
	UI    UIState

	// Checked marks suggestion checklist items, keyed by suggestion id
	// then item index. SubItems does the same for task notes. Index keys
	// stay stable when item text is edited.
	Checked  map[string]map[int]bool
	SubItems map[string]map[int]bool
}

// NewStore loads persisted state from dir and arms the API client with
// the stored token and language.
func NewStore(dir string, api *APIClient) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	s := &Store{
		dir:      dir,
		api:      api,
		UI:       UIState{Theme: "light", Lang: "en"},
		Checked:  make(map[string]map[int]bool),
		SubItems: make(map[string]map[int]bool),
	}

	_ = s.loadFile(authFile, &s.Auth)
	_ = s.loadFile(uiFile, &s.UI)
	_ = s.loadFile(checkedFile, &s.Checked)
	_ = s.loadFile(subitemsFile, &s.SubItems)

	if s.Auth.AccessToken != "" {
		api.SetToken(s.Auth.AccessToken)
	}
	api.SetLang(s.UI.Lang)
	return s, nil
}

func (s *Store) loadFile(name string, dest interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (s *Store) saveFile(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, name), data, 0o600)
}

// LoggedIn reports whether a session token is armed.
func (s *Store) LoggedIn() bool {
	return s.Auth.AccessToken != ""
}

func (s *Store) applySession(user models.User, sess Session) error {
	s.Auth = AuthState{
		Status:       StatusFulfilled,
		User:         &user,
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		ExpiresAt:    sess.ExpiresAt,
	}
	s.api.SetToken(sess.AccessToken)
	return s.saveFile(authFile, &s.Auth)
}

func (s *Store) RegisterAccount(ctx context.Context, email, password, fullName string) error {
	s.Auth.Status = StatusPending
	user, sess, err := s.api.Register(ctx, email, password, fullName, s.UI.Lang)
	if err != nil {
		s.Auth.Status = StatusRejected
		s.Auth.Err = err.Error()
		return err
	}
	return s.applySession(user, sess)
}

func (s *Store) Login(ctx context.Context, email, password string) error {
	s.Auth.Status = StatusPending
	user, sess, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.Auth.Status = StatusRejected
		s.Auth.Err = err.Error()
		return err
	}
	return s.applySession(user, sess)
}

// Logout revokes the refresh token and clears the persisted session.
// Local state is cleared even when the server call fails.
func (s *Store) Logout(ctx context.Context) error {
	err := s.api.Logout(ctx, s.Auth.RefreshToken)

	s.Auth = AuthState{Status: StatusIdle}
	s.api.SetToken("")
	_ = os.Remove(filepath.Join(s.dir, authFile))
	return err
}

func (s *Store) LoadTasks(ctx context.Context) error {
	s.Tasks.Status = StatusPending
	tasks, err := s.api.ListTasks(ctx)
	if err != nil {
		s.Tasks.Status = StatusRejected
		s.Tasks.Err = err.Error()
		return err
	}
	s.Tasks = TaskState{Status: StatusFulfilled, Items: tasks}
	return nil
}

func (s *Store) AddTask(ctx context.Context, fields map[string]interface{}) (models.Task, error) {
	s.Tasks.Status = StatusPending
	task, err := s.api.CreateTask(ctx, fields)
	if err != nil {
		s.Tasks.Status = StatusRejected
		s.Tasks.Err = err.Error()
		return models.Task{}, err
	}
	s.Tasks.Status = StatusFulfilled
	s.Tasks.Items = append([]models.Task{task}, s.Tasks.Items...)
	return task, nil
}

// UpdateTask patches the local copy first so the change shows immediately,
// then reconciles with the server row. On rejection the snapshot taken
// before the patch is restored.
func (s *Store) UpdateTask(ctx context.Context, id uuid.UUID, patch map[string]interface{}) (models.Task, error) {
	idx := s.taskIndex(id)

	var snapshot models.Task
	if idx >= 0 {
		snapshot = s.Tasks.Items[idx]
		s.Tasks.Items[idx] = patchedTask(snapshot, patch)
	}

	s.Tasks.Status = StatusPending
	task, err := s.api.UpdateTask(ctx, id, patch)
	if err != nil {
		if idx >= 0 {
			s.Tasks.Items[idx] = snapshot
		}
		s.Tasks.Status = StatusRejected
		s.Tasks.Err = err.Error()
		return models.Task{}, err
	}

	s.Tasks.Status = StatusFulfilled
	if idx >= 0 {
		s.Tasks.Items[idx] = task
	}
	return task, nil
}

func (s *Store) DeleteTask(ctx context.Context, id uuid.UUID) error {
	s.Tasks.Status = StatusPending
	if err := s.api.DeleteTask(ctx, id); err != nil {
		s.Tasks.Status = StatusRejected
		s.Tasks.Err = err.Error()
		return err
	}
	s.Tasks.Status = StatusFulfilled
	if idx := s.taskIndex(id); idx >= 0 {
		s.Tasks.Items = append(s.Tasks.Items[:idx], s.Tasks.Items[idx+1:]...)
	}
	delete(s.SubItems, id.String())
	_ = s.saveFile(subitemsFile, s.SubItems)
	return nil
}

func (s *Store) taskIndex(id uuid.UUID) int {
	for i, t := range s.Tasks.Items {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func patchedTask(t models.Task, patch map[string]interface{}) models.Task {
	if v, ok := patch["title"].(string); ok {
		t.Title = v
	}
	if v, ok := patch["notes"].(string); ok {
		t.Notes = v
	}
	if v, ok := patch["completed"].(bool); ok {
		t.Completed = v
	}
	if v, ok := patch["priority"].(string); ok {
		t.Priority = v
	}
	return t
}

func (s *Store) LoadSuggestions(ctx context.Context) error {
	s.AI.Status = StatusPending
	suggestions, err := s.api.ListSuggestions(ctx)
	if err != nil {
		s.AI.Status = StatusRejected
		s.AI.Err = err.Error()
		return err
	}
	s.AI = AIState{Status: StatusFulfilled, Items: suggestions}
	return nil
}

func (s *Store) Suggest(ctx context.Context, title, prompt string) (models.Suggestion, error) {
	s.AI.Status = StatusPending
	suggestion, err := s.api.CreateSuggestion(ctx, title, prompt)
	if err != nil {
		s.AI.Status = StatusRejected
		s.AI.Err = err.Error()
		return models.Suggestion{}, err
	}
	s.AI.Status = StatusFulfilled
	s.AI.Items = append([]models.Suggestion{suggestion}, s.AI.Items...)
	return suggestion, nil
}

func (s *Store) RemoveSuggestion(ctx context.Context, id uuid.UUID) error {
	s.AI.Status = StatusPending
	if err := s.api.DeleteSuggestion(ctx, id); err != nil {
		s.AI.Status = StatusRejected
		s.AI.Err = err.Error()
		return err
	}
	s.AI.Status = StatusFulfilled
	for i, item := range s.AI.Items {
		if item.ID == id {
			s.AI.Items = append(s.AI.Items[:i], s.AI.Items[i+1:]...)
			break
		}
	}
	delete(s.Checked, id.String())
	_ = s.saveFile(checkedFile, s.Checked)
	return nil
}

// SetCheck toggles a checklist item on a suggestion and persists the change.
func (s *Store) SetCheck(id uuid.UUID, index int, checked bool) error {
	key := id.String()
	if s.Checked[key] == nil {
		s.Checked[key] = make(map[int]bool)
	}
	if checked {
		s.Checked[key][index] = true
	} else {
		delete(s.Checked[key], index)
	}
	return s.saveFile(checkedFile, s.Checked)
}

// CheckedIndexes returns the checked item indexes for a suggestion, sorted.
func (s *Store) CheckedIndexes(id uuid.UUID) []int {
	marks := s.Checked[id.String()]
	indexes := make([]int, 0, len(marks))
	for i, on := range marks {
		if on {
			indexes = append(indexes, i)
		}
	}
	sort.Ints(indexes)
	return indexes
}

// ToTask converts a suggestion into a task using the locally checked items.
func (s *Store) ToTask(ctx context.Context, id uuid.UUID, title string) (models.Task, error) {
	task, err := s.api.SuggestionToTask(ctx, id, title, s.CheckedIndexes(id))
	if err != nil {
		return models.Task{}, err
	}
	s.Tasks.Items = append([]models.Task{task}, s.Tasks.Items...)
	return task, nil
}

// SetSubItem toggles a note checklist item on a task and persists the change.
func (s *Store) SetSubItem(id uuid.UUID, index int, checked bool) error {
	key := id.String()
	if s.SubItems[key] == nil {
		s.SubItems[key] = make(map[int]bool)
	}
	if checked {
		s.SubItems[key][index] = true
	} else {
		delete(s.SubItems[key], index)
	}
	return s.saveFile(subitemsFile, s.SubItems)
}

func (s *Store) SetTheme(theme string) error {
	s.UI.Theme = theme
	return s.saveFile(uiFile, &s.UI)
}

func (s *Store) SetLang(lang string) error {
	s.UI.Lang = lang
	s.api.SetLang(lang)
	return s.saveFile(uiFile, &s.UI)
}
