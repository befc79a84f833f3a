package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Store original env vars
	origPort := os.Getenv("PORT")
	origDbPath := os.Getenv("DATABASE_PATH")
	origRedisAddr := os.Getenv("REDIS_ADDR")
	origSessionTTL := os.Getenv("SESSION_TTL")
	origSessionSecret := os.Getenv("SESSION_SECRET")
	origClientID := os.Getenv("GITHUB_CLIENT_ID")
	origClientSecret := os.Getenv("GITHUB_CLIENT_SECRET")
	origCallbackURL := os.Getenv("GITHUB_CALLBACK_URL")

	// Restore env vars after test
	defer func() {
		os.Setenv("PORT", origPort)
		os.Setenv("DATABASE_PATH", origDbPath)
		os.Setenv("REDIS_ADDR", origRedisAddr)
		os.Setenv("SESSION_TTL", origSessionTTL)
		os.Setenv("SESSION_SECRET", origSessionSecret)
		os.Setenv("GITHUB_CLIENT_ID", origClientID)
		os.Setenv("GITHUB_CLIENT_SECRET", origClientSecret)
		os.Setenv("GITHUB_CALLBACK_URL", origCallbackURL)
	}()

	// Clear env vars
	os.Unsetenv("PORT")
	os.Unsetenv("DATABASE_PATH")
	os.Unsetenv("REDIS_ADDR")
	os.Unsetenv("SESSION_TTL")
	os.Unsetenv("SESSION_SECRET")
	os.Unsetenv("GITHUB_CLIENT_ID")
	os.Unsetenv("GITHUB_CLIENT_SECRET")
	os.Unsetenv("GITHUB_CALLBACK_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ServerAddress != ":4012" {
		t.Errorf("Expected server address :4012, got %s", cfg.ServerAddress)
	}
	if cfg.DatabasePath != "./data/gistgate.db" {
		t.Errorf("Expected default database path, got %s", cfg.DatabasePath)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Expected default redis addr, got %s", cfg.Redis.Addr)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Errorf("Expected 24h session TTL, got %s", cfg.Session.TTL)
	}
	if cfg.GitHub.ClientID != "" {
		t.Errorf("Expected empty GitHub client id, got %s", cfg.GitHub.ClientID)
	}
}

func TestLoadOverrides(t *testing.T) {
	origPort := os.Getenv("PORT")
	origTTL := os.Getenv("SESSION_TTL")
	origClientID := os.Getenv("GITHUB_CLIENT_ID")
	defer func() {
		os.Setenv("PORT", origPort)
		os.Setenv("SESSION_TTL", origTTL)
		os.Setenv("GITHUB_CLIENT_ID", origClientID)
	}()

	os.Setenv("PORT", "9000")
	os.Setenv("SESSION_TTL", "30m")
	os.Setenv("GITHUB_CLIENT_ID", "abc123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ServerAddress != ":9000" {
		t.Errorf("Expected server address :9000, got %s", cfg.ServerAddress)
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Errorf("Expected 30m session TTL, got %s", cfg.Session.TTL)
	}
	if cfg.GitHub.ClientID != "abc123" {
		t.Errorf("Expected GitHub client id abc123, got %s", cfg.GitHub.ClientID)
	}
}

func TestLoadInvalidTTL(t *testing.T) {
	origTTL := os.Getenv("SESSION_TTL")
	defer os.Setenv("SESSION_TTL", origTTL)

	os.Setenv("SESSION_TTL", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid SESSION_TTL, got nil")
	}
}
