package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/KmNeetuSingh/BlueSpace/internal/config"
)

func testConfig(baseURL string) config.AIConfig {
	return config.AIConfig{
		BaseURL:     baseURL,
		APIKey:      "test-key",
		Model:       "llama-3.1-8b-instant",
		MaxTokens:   512,
		Temperature: 0.7,
		Timeout:     5 * time.Second,
	}
}

func TestComplete_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Unexpected Authorization header %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Decode request: %v", err)
		}
		if req.Model != "llama-3.1-8b-instant" {
			t.Errorf("Unexpected model %q", req.Model)
		}
		if len(req.Messages) != 1 || req.Messages[0].Content != "plan my week" {
			t.Errorf("Unexpected messages %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"1. Buy milk\n2. Call mom"}}]}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	got, err := client.Complete(context.Background(), "plan my week")
	if err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}
	if got != "1. Buy milk\n2. Call mom" {
		t.Errorf("Complete() = %q", got)
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	got, err := client.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}
	if got != "No response" {
		t.Errorf("Expected fallback text, got %q", got)
	}
}

func TestComplete_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	if _, err := client.Complete(context.Background(), "prompt"); err == nil {
		t.Error("Expected error for non-2xx provider response")
	} else if !strings.Contains(err.Error(), "429") {
		t.Errorf("Expected status code in error, got %v", err)
	}
}

func TestComplete_MissingKey(t *testing.T) {
	cfg := testConfig("http://localhost:0")
	cfg.APIKey = ""
	client := NewClient(cfg)

	if _, err := client.Complete(context.Background(), "prompt"); err == nil {
		t.Error("Expected error when API key is not configured")
	}
}
