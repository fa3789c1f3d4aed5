// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package database

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/tomtom215/sage/internal/logging"
)

// mockCloser implements io.Closer for testing
type mockCloser struct {
	closed bool
	err    error
}

func (m *mockCloser) Close() error {
	m.closed = true
	return m.err
}

func TestCloseWithLog(t *testing.T) {
	t.Run("nil closer does not panic", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewTestLogger(&buf)

		closeWithLog(nil, &logger, "test")

		if buf.Len() > 0 {
			t.Errorf("Expected no log output for nil closer, got: %s", buf.String())
		}
	})

	t.Run("successful close does not log", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewTestLogger(&buf)

		closer := &mockCloser{}
		closeWithLog(closer, &logger, "test resource")

		if !closer.closed {
			t.Error("Expected closer to be closed")
		}
		if buf.Len() > 0 {
			t.Errorf("Expected no log output for successful close, got: %s", buf.String())
		}
	})

	t.Run("error during close is logged", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewTestLogger(&buf)

		closer := &mockCloser{err: errors.New("close failed: connection reset")}
		closeWithLog(closer, &logger, "database connection")

		if !closer.closed {
			t.Error("Expected closer to be closed")
		}
		logOutput := buf.String()
		for _, want := range []string{"failed to close resource", "database connection", "close failed: connection reset"} {
			if !strings.Contains(logOutput, want) {
				t.Errorf("Expected log to contain %q, got: %s", want, logOutput)
			}
		}
	})

	t.Run("nil logger falls back to global logger", func(t *testing.T) {
		closer := &mockCloser{err: errors.New("close failed")}

		closeWithLog(closer, nil, "test resource")

		if !closer.closed {
			t.Error("Expected closer to be closed")
		}
	})
}

func TestCloseQuietly(t *testing.T) {
	t.Run("nil closer does not panic", func(t *testing.T) {
		closeQuietly(nil)
	})

	t.Run("error during close is ignored", func(t *testing.T) {
		closer := &mockCloser{err: errors.New("close failed")}
		closeQuietly(closer)

		if !closer.closed {
			t.Error("Expected closer to be closed even with error")
		}
	})

	t.Run("works with various io.Closer implementations", func(t *testing.T) {
		closeQuietly(io.NopCloser(strings.NewReader("test data")))
	})
}

func TestIsConstraintViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"duckdb primary key", errors.New(`Constraint Error: Duplicate key "concept_id: 1, object_id: 2" violates primary key constraint`), true},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: access_keys.access_key (2067)"), true},
		{"sqlite primary key", errors.New("PRIMARY KEY constraint failed"), true},
		{"unrelated", errors.New("database is locked"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConstraintViolation(tt.err); got != tt.want {
				t.Errorf("isConstraintViolation(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func BenchmarkCloseWithLog_Success(b *testing.B) {
	logger := logging.NewTestLogger(io.Discard)
	closer := &mockCloser{}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		closer.closed = false
		closeWithLog(closer, &logger, "benchmark")
	}
}
