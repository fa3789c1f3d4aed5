// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/sage/internal/metrics"
)

func TestPrometheusMetrics(t *testing.T) {
	tests := []struct {
		name   string
		method string
		status int
		write  bool
		want   int
	}{
		{"explicit 200", http.MethodGet, http.StatusOK, false, http.StatusOK},
		{"server error", http.MethodPost, http.StatusInternalServerError, false, http.StatusInternalServerError},
		{"not found", http.MethodGet, http.StatusNotFound, false, http.StatusNotFound},
		{"defaults to 200 when WriteHeader not called", http.MethodGet, 0, true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				if tt.write {
					_, _ = w.Write([]byte("ok"))
				}
			})

			req := httptest.NewRequest(tt.method, "/api/v1/test", nil)
			rec := httptest.NewRecorder()
			handler(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestPrometheusMetrics_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return PrometheusMetrics(next.ServeHTTP)
	})
	r.Get("/containers/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/containers/{id}", "418")
	before := testutil.ToFloat64(counter)

	for _, path := range []string{"/containers/1", "/containers/2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("requests under route pattern = %v, want 2", got)
	}
}

func TestMetricsResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &metricsResponseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	w.WriteHeader(http.StatusAccepted)

	if w.statusCode != http.StatusAccepted {
		t.Errorf("statusCode = %d, want %d", w.statusCode, http.StatusAccepted)
	}
	if rec.Code != http.StatusAccepted {
		t.Errorf("underlying status = %d, want %d", rec.Code, http.StatusAccepted)
	}
}
