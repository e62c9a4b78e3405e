package config

import (
	"os"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/steamx")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("RAG_API_URL", "http://localhost:8000/ask")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.HTTPPort)
	}
	if cfg.JWTAccessTTLMin != 15 || cfg.JWTRefreshTTLDays != 7 {
		t.Errorf("unexpected token TTL defaults: %d / %d", cfg.JWTAccessTTLMin, cfg.JWTRefreshTTLDays)
	}
	if cfg.FrontendURL != "http://localhost:4200" {
		t.Errorf("unexpected frontend url: %q", cfg.FrontendURL)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("JWT_ACCESS_TTL_MINUTES", "30")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPPort != "9999" {
		t.Errorf("expected port override, got %q", cfg.HTTPPort)
	}
	if cfg.JWTAccessTTLMin != 30 {
		t.Errorf("expected access ttl override, got %d", cfg.JWTAccessTTLMin)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("expected redis addr, got %q", cfg.RedisAddr)
	}
}

func TestLoadConfigMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	os.Unsetenv("DATABASE_URL")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when DATABASE_URL is missing")
	}
}
