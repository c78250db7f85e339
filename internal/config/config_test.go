package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	os.Unsetenv("PORT")
	os.Unsetenv("ENVIRONMENT")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("Expected default port 3000, got %d", cfg.Server.Port)
	}
	if cfg.IsProduction() {
		t.Error("Expected development environment by default")
	}
	if cfg.AI.Model != "llama-3.1-8b-instant" {
		t.Errorf("Unexpected default AI model: %s", cfg.AI.Model)
	}
	if cfg.JWT.AccessTTL != time.Hour {
		t.Errorf("Expected 1h access TTL, got %v", cfg.JWT.AccessTTL)
	}
}

func TestLoadConfig_ProductionRequiresSecret(t *testing.T) {
	os.Setenv("ENVIRONMENT", "production")
	os.Unsetenv("JWT_SECRET")
	defer os.Unsetenv("ENVIRONMENT")

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected error for production without JWT_SECRET")
	}

	os.Setenv("JWT_SECRET", "a-real-secret")
	defer os.Unsetenv("JWT_SECRET")

	if _, err := LoadConfig(); err != nil {
		t.Errorf("Expected success with JWT_SECRET set, got %v", err)
	}
}

func TestGetServerAddr(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Host: "127.0.0.1", Port: 8080}}
	if got := cfg.GetServerAddr(); got != "127.0.0.1:8080" {
		t.Errorf("GetServerAddr() = %q", got)
	}
}

func TestGetDSN(t *testing.T) {
	db := DatabaseConfig{Host: "localhost", Port: 5432, User: "u", Password: "p", Name: "bluespace", SSLMode: "disable"}
	want := "host=localhost port=5432 user=u password=p dbname=bluespace sslmode=disable"
	if got := db.GetDSN(); got != want {
		t.Errorf("GetDSN() = %q, want %q", got, want)
	}
}
