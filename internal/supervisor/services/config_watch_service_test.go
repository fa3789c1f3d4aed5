// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/sage/internal/config"
)

func writeWatchedConfig(t *testing.T, path, level string) {
	t.Helper()
	body := "database:\n  driver: memory\nlogging:\n  level: " + level + "\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}

// unsetLogLevel keeps LOG_LEVEL from overriding the watched file.
func unsetLogLevel(t *testing.T) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")
}

func TestConfigWatchService_Interface(t *testing.T) {
	var _ suture.Service = (*ConfigWatchService)(nil)
}

func TestConfigWatchService_String(t *testing.T) {
	svc := NewConfigWatchService("config.yaml", nil, zerolog.Nop())
	if got := svc.String(); got != "config-watch-service" {
		t.Errorf("String() = %q, want %q", got, "config-watch-service")
	}
}

func TestConfigWatchService_Reload(t *testing.T) {
	unsetLogLevel(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeWatchedConfig(t, path, "info")

	applied := make(chan *config.Config, 8)
	svc := NewConfigWatchService(path, func(c *config.Config) { applied <- c }, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for waiting := true; waiting; {
		select {
		case cfg := <-applied:
			if cfg.Logging.Level == "debug" {
				waiting = false
			}
		case <-ticker.C:
			writeWatchedConfig(t, path, "debug")
		case <-deadline:
			t.Fatal("reloaded config was not applied")
		}
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestConfigWatchService_RejectsInvalidConfig(t *testing.T) {
	unsetLogLevel(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeWatchedConfig(t, path, "loud")

	var buf safeBuffer
	called := false
	svc := NewConfigWatchService(path, func(*config.Config) { called = true }, zerolog.New(&buf))

	svc.reload()

	if called {
		t.Error("apply called for an invalid config")
	}
	if !strings.Contains(buf.String(), "config reload rejected") {
		t.Errorf("expected rejection to be logged, got %s", buf.String())
	}
}

func TestConfigWatchService_ServeReportsWatchFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	var buf safeBuffer
	svc := NewConfigWatchService(path, nil, zerolog.New(&buf))

	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(context.Background()) }()

	select {
	case err := <-errCh:
		if err == nil {
			t.Fatal("Serve() = nil, want watch error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve kept blocking on a file that cannot be watched")
	}
	if !strings.Contains(buf.String(), "config watch failed") {
		t.Errorf("expected failure to be logged, got %s", buf.String())
	}
}

func TestApplyLogLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(prev)

	ApplyLogLevel(&config.Config{Logging: config.LoggingConfig{Level: "warn"}})
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Errorf("GlobalLevel() = %v, want warn", zerolog.GlobalLevel())
	}
}
