// Package client implements the CLI side of BlueSpace: a thin HTTP client
// for the backend and a state store that mirrors the server between calls.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/KmNeetuSingh/BlueSpace/internal/models"

	"github.com/gofrs/uuid"
)

// APIError is a non-2xx backend response with its decoded error message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// APIClient talks to the BlueSpace backend. The bearer token and the
// X-Lang header are armed by the store after login and language changes.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
	lang       string
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *APIClient) SetToken(token string) { c.token = token }
func (c *APIClient) SetLang(lang string)   { c.lang = lang }

func (c *APIClient) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.lang != "" {
		req.Header.Set("X-Lang", c.lang)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}

	if dest != nil {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Session is the token bundle issued on register, login and refresh.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

type registerResponse struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
	Session Session     `json:"session"`
}

type loginResponse struct {
	Message      string      `json:"message"`
	User         models.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresAt    int64       `json:"expires_at"`
}

func (c *APIClient) Register(ctx context.Context, email, password, fullName, lang string) (models.User, Session, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
		"options": map[string]interface{}{
			"data": map[string]interface{}{
				"full_name":          fullName,
				"preferred_language": lang,
			},
		},
	}
	var resp registerResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, &resp); err != nil {
		return models.User{}, Session{}, err
	}
	return resp.User, resp.Session, nil
}

func (c *APIClient) Login(ctx context.Context, email, password string) (models.User, Session, error) {
	body := map[string]string{"email": email, "password": password}
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return models.User{}, Session{}, err
	}
	return resp.User, Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    resp.ExpiresAt,
	}, nil
}

func (c *APIClient) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refresh_token": refreshToken}
	return c.do(ctx, http.MethodPost, "/auth/logout", body, nil)
}

func (c *APIClient) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *APIClient) CreateTask(ctx context.Context, fields map[string]interface{}) (models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", fields, &task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (c *APIClient) UpdateTask(ctx context.Context, id uuid.UUID, patch map[string]interface{}) (models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPatch, "/tasks/"+id.String(), patch, &task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (c *APIClient) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+id.String(), nil, nil)
}

func (c *APIClient) ListSuggestions(ctx context.Context) ([]models.Suggestion, error) {
	var suggestions []models.Suggestion
	if err := c.do(ctx, http.MethodGet, "/ai", nil, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

func (c *APIClient) CreateSuggestion(ctx context.Context, title, prompt string) (models.Suggestion, error) {
	body := map[string]string{"title": title, "prompt": prompt}
	var s models.Suggestion
	if err := c.do(ctx, http.MethodPost, "/ai", body, &s); err != nil {
		return models.Suggestion{}, err
	}
	return s, nil
}

func (c *APIClient) DeleteSuggestion(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/ai/"+id.String(), nil, nil)
}

func (c *APIClient) SuggestionToTask(ctx context.Context, id uuid.UUID, title string, checked []int) (models.Task, error) {
	body := map[string]interface{}{"title": title, "checked": checked}
	var task models.Task
	if err := c.do(ctx, http.MethodPost, "/ai/"+id.String()+"/task", body, &task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}
