package config

import (
	"os"
	"testing"
)

// writeTempConfig creates a minimal configuration file required for LoadConfig
// and returns its path.
func writeTempConfig(t *testing.T) string {
	t.Helper()
	content := `app:
  name: "TestApp"
  version: "1.0"
client:
  timeout: 10s
  rate_limit:
    requests_per_second: 2
    burst_size: 1
exchanges:
  wallex:
    enabled: true
    api_key: "file-key"
`
	f, err := os.CreateTemp("", "cfg-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}
	return f.Name()
}

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t)
	defer os.Remove(path)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.App.Name != "TestApp" {
		t.Errorf("unexpected name: %s", cfg.App.Name)
	}
	if cfg.Client.RateLimit.RequestsPerSecond != 2 {
		t.Errorf("unexpected rate limit: %d", cfg.Client.RateLimit.RequestsPerSecond)
	}
	// Defaults applied for fields the file omits.
	if cfg.Client.Retry.MaxAttempts != 3 {
		t.Errorf("unexpected retry attempts: %d", cfg.Client.Retry.MaxAttempts)
	}
	if cfg.Exchange("wallex").APIKey != "file-key" {
		t.Errorf("unexpected api key: %s", cfg.Exchange("wallex").APIKey)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeTempConfig(t)
	defer os.Remove(path)

	t.Setenv("WALLEX_API_KEY", "env-key")
	t.Setenv("WALLEX_API_SECRET", "env-secret")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	ex := cfg.Exchange("wallex")
	if ex.APIKey != "env-key" {
		t.Errorf("env override not applied: %s", ex.APIKey)
	}
	if ex.APISecret != "env-secret" {
		t.Errorf("env secret override not applied: %s", ex.APISecret)
	}
}

func TestLoadConfigMissingName(t *testing.T) {
	f, err := os.CreateTemp("", "cfg-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString("app:\n  version: \"1.0\"\n"); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	_ = f.Close()
	defer os.Remove(f.Name())

	if _, err := LoadConfig(f.Name()); err == nil {
		t.Fatalf("expected validation error for missing app.name")
	}
}

func TestExchangeUnknownID(t *testing.T) {
	cfg := &Config{}
	if ex := cfg.Exchange("nope"); ex.APIKey != "" || ex.Enabled {
		t.Fatalf("expected zero config for unknown exchange: %+v", ex)
	}
}
