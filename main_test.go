package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KmNeetuSingh/BlueSpace/internal/config"
	"github.com/KmNeetuSingh/BlueSpace/internal/database"

	"github.com/gin-gonic/gin"
)

func newTestApplication() *Application {
	gin.SetMode(gin.TestMode)

	app := &Application{
		Config: &config.Config{
			Server: config.ServerConfig{
				CORSOrigins: []string{"http://localhost:5173"},
			},
			RateLimit: config.RateLimitConfig{RequestsPerMin: 6000, BurstSize: 100},
			JWT: config.JWTConfig{
				Secret:     "test-secret",
				AccessTTL:  time.Hour,
				RefreshTTL: 7 * 24 * time.Hour,
			},
		},
		DB: &database.DatabasePool{},
	}
	app.setupRoutes()
	return app
}

func TestRouter_UnknownRouteReturnsJSON(t *testing.T) {
	app := newTestApplication()

	req, _ := http.NewRequest("GET", "/no-such-route", nil)
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown route, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Expected JSON content type, got %q", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Expected JSON body, got %q: %v", w.Body.String(), err)
	}
	if body["error"] != "not found" {
		t.Errorf("Expected error envelope, got %v", body)
	}
}

func TestRouter_HealthStaysPlainText(t *testing.T) {
	app := newTestApplication()

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 from /health, got %d", w.Code)
	}
	if got := w.Body.String(); got != "BlueSpace backend is running" {
		t.Errorf("Unexpected /health body %q", got)
	}
}
