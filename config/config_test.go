package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8080/api" {
		t.Fatalf("unexpected api base: %s", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 12*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.HTTPTimeout)
	}
	if cfg.Debug {
		t.Fatal("expected debug off by default")
	}
	if cfg.ServeAddr != ":8080" {
		t.Fatalf("unexpected serve addr: %s", cfg.ServeAddr)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("BMM_API_BASE_URL", "http://example.com/api")
	t.Setenv("BMM_HTTP_TIMEOUT", "3s")
	t.Setenv("BMM_DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.APIBaseURL != "http://example.com/api" {
		t.Fatalf("unexpected api base: %s", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.HTTPTimeout)
	}
	if !cfg.Debug {
		t.Fatal("expected debug on")
	}
}
