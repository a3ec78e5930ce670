package infra

import (
	"testing"
	"time"
)

func TestLoadConfigRequiresSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when SESSION_SECRET is missing")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("PORT", "")
	t.Setenv("AKOOL_BASE_URL", "")
	t.Setenv("SESSION_TTL_MINUTES", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "5000" {
		t.Fatalf("Port mismatch: got %q", cfg.Port)
	}
	if cfg.AkoolBaseURL != "https://openapi.akool.com/api/open/v3" {
		t.Fatalf("AkoolBaseURL mismatch: got %q", cfg.AkoolBaseURL)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("SessionTTL mismatch: got %s", cfg.SessionTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("CORSAllowedOrigins mismatch: %#v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfigParsesOverrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("PORT", "1919")
	t.Setenv("SESSION_TTL_MINUTES", "30")
	t.Setenv("SESSION_COOKIE_SECURE", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://studio.example.com , ,http://localhost:5173 ")
	t.Setenv("AKOOL_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "1919" {
		t.Fatalf("Port mismatch: got %q", cfg.Port)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("SessionTTL mismatch: got %s", cfg.SessionTTL)
	}
	if !cfg.SessionCookieSecure {
		t.Fatalf("expected secure cookies")
	}
	if cfg.AkoolTimeout != 30*time.Second {
		t.Fatalf("AkoolTimeout should fall back on parse error, got %s", cfg.AkoolTimeout)
	}
	expected := []string{"https://studio.example.com", "http://localhost:5173"}
	if len(cfg.CORSAllowedOrigins) != len(expected) {
		t.Fatalf("CORSAllowedOrigins mismatch: got %#v want %#v", cfg.CORSAllowedOrigins, expected)
	}
	for i, origin := range expected {
		if cfg.CORSAllowedOrigins[i] != origin {
			t.Fatalf("CORSAllowedOrigins[%d] = %q, want %q", i, cfg.CORSAllowedOrigins[i], origin)
		}
	}
}
