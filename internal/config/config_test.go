package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.BaseURL != "https://shadowstrike-options-2025.onrender.com" {
		t.Errorf("unexpected base url %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", cfg.API.Timeout)
	}
	if cfg.Refresh.MarketInterval != 30*time.Second {
		t.Errorf("expected 30s refresh, got %s", cfg.Refresh.MarketInterval)
	}
	if cfg.Auth.Color != "#10b981" {
		t.Errorf("unexpected default color %q", cfg.Auth.Color)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging defaults %+v", cfg.Logging)
	}
	if cfg.GCP.SecretNames.Email == "" {
		t.Error("expected default secret names")
	}
	if cfg.HasCredentials() {
		t.Error("expected no credentials by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: http://localhost:9000
  timeout: 5s
refresh:
  market_interval: 45s
auth:
  email: trader@example.com
  password: hunter2
logging:
  level: debug
  format: text
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:9000" || cfg.API.Timeout != 5*time.Second {
		t.Errorf("unexpected api config %+v", cfg.API)
	}
	if cfg.Refresh.MarketInterval != 45*time.Second {
		t.Errorf("expected 45s, got %s", cfg.Refresh.MarketInterval)
	}
	if !cfg.HasCredentials() {
		t.Error("expected credentials from file")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("expected text format, got %q", cfg.Logging.Format)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("SHADOWSTRIKE_API_BASE_URL", "http://127.0.0.1:8080")
	t.Setenv("SHADOWSTRIKE_EMAIL", "env@example.com")
	t.Setenv("SHADOWSTRIKE_PASSWORD", "from-env")
	t.Setenv("GCP_PROJECT_ID", "proj-1")

	cfg, err := Load(writeConfig(t, "auth:\n  email: file@example.com\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.BaseURL != "http://127.0.0.1:8080" {
		t.Errorf("expected env base url, got %q", cfg.API.BaseURL)
	}
	if cfg.Auth.Email != "env@example.com" || cfg.Auth.Password != "from-env" {
		t.Errorf("expected env credentials, got %+v", cfg.Auth)
	}
	if cfg.GCP.ProjectID != "proj-1" {
		t.Errorf("expected GCP project from env, got %q", cfg.GCP.ProjectID)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for explicit missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad url", "api:\n  base_url: nowhere\n", "api.base_url"},
		{"zero timeout", "api:\n  timeout: 0s\n", "api.timeout"},
		{"zero interval", "refresh:\n  market_interval: 0s\n", "refresh.market_interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

type fakeSecrets map[string]string

func (f fakeSecrets) GetSecretWithDefault(_ context.Context, name, def string) string {
	if v, ok := f[name]; ok {
		return v
	}
	return def
}

func TestApplySecretsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Auth.Password = "explicit"
	cfg.GCP.SecretNames.Email = "email-secret"
	cfg.GCP.SecretNames.Password = "password-secret"

	applySecrets(context.Background(), cfg, fakeSecrets{
		"email-secret":    "secret@example.com",
		"password-secret": "from-gcp",
	})

	if cfg.Auth.Email != "secret@example.com" {
		t.Errorf("expected email from secret, got %q", cfg.Auth.Email)
	}
	if cfg.Auth.Password != "explicit" {
		t.Errorf("expected explicit password to win, got %q", cfg.Auth.Password)
	}
}
