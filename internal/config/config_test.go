package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing API_KEY")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_KEY", "secret-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://classic.warcraftlogs.com/v1" {
		t.Fatalf("api_base_url = %s", cfg.APIBaseURL)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("request timeout = %v", cfg.RequestTimeout)
	}
	if cfg.PollInterval != 900*time.Second {
		t.Fatalf("poll interval = %v", cfg.PollInterval)
	}
	if cfg.StorageType != "bbolt" {
		t.Fatalf("storage type = %s", cfg.StorageType)
	}
}

func TestLoadOverridesFromEnv(t *testing.T) {
	t.Setenv("API_KEY", "secret-key")
	t.Setenv("POLL_INTERVAL", "60")
	t.Setenv("API_BASE_URL", "https://www.warcraftlogs.com/v1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PollInterval != time.Minute {
		t.Fatalf("poll interval = %v", cfg.PollInterval)
	}
	if cfg.APIBaseURL != "https://www.warcraftlogs.com/v1" {
		t.Fatalf("api_base_url = %s", cfg.APIBaseURL)
	}
}

func TestRedactedMasksSecret(t *testing.T) {
	t.Setenv("API_KEY", "super-secret-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for k, v := range cfg.Redacted() {
		s, ok := v.(string)
		if ok && strings.Contains(s, "super-secret-key") {
			t.Fatalf("redacted config leaks the key under %q", k)
		}
	}
	if cfg.Redacted()["api_key"] != "REDACTED" {
		t.Fatalf("api_key not masked: %v", cfg.Redacted()["api_key"])
	}
}
