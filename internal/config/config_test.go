package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.DBRetryMaxAttempts != 3 {
		t.Errorf("DBRetryMaxAttempts = %d, want 3", cfg.DBRetryMaxAttempts)
	}
	if cfg.DBRetryBaseDelay != 250*time.Millisecond {
		t.Errorf("DBRetryBaseDelay = %v, want 250ms", cfg.DBRetryBaseDelay)
	}
	if cfg.DashboardTTL != 60*time.Second {
		t.Errorf("DashboardTTL = %v, want 60s", cfg.DashboardTTL)
	}
	if cfg.RemindersEnabled {
		t.Error("RemindersEnabled should default to false")
	}
	if cfg.ReminderWindow != 24*time.Hour {
		t.Errorf("ReminderWindow = %v, want 24h", cfg.ReminderWindow)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("DB_RETRY_BASE_DELAY", "1s")
	t.Setenv("REMINDERS_ENABLED", "true")
	t.Setenv("REDIS_TLS", "not-a-bool")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.DBRetryMaxAttempts != 5 {
		t.Errorf("DBRetryMaxAttempts = %d, want 5", cfg.DBRetryMaxAttempts)
	}
	if cfg.DBRetryBaseDelay != time.Second {
		t.Errorf("DBRetryBaseDelay = %v, want 1s", cfg.DBRetryBaseDelay)
	}
	if !cfg.RemindersEnabled {
		t.Error("RemindersEnabled should be true")
	}
	if cfg.RedisTLS {
		t.Error("malformed bool should fall back to default")
	}
}
