package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		enable slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug},
		{"info level", "info", slog.LevelInfo},
		{"warn level", "warn", slog.LevelWarn},
		{"error level", "error", slog.LevelError},
		{"default info", "", slog.LevelInfo},
		{"unknown falls back to info", "verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.level)
			if logger == nil || logger.Logger == nil {
				t.Fatal("expected non-nil logger")
			}
			if !logger.Handler().Enabled(context.Background(), tt.enable) {
				t.Errorf("expected level %v to be enabled", tt.enable)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	logger := Default()
	if logger == nil {
		t.Fatal("expected non-nil default logger")
	}
	if logger.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("default logger should not enable debug")
	}
}

func TestNamed(t *testing.T) {
	logger := Default().Named("scheduling")
	if logger == nil || logger.Logger == nil {
		t.Fatal("expected non-nil named logger")
	}
}
