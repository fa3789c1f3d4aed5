// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/sage/internal/config"
	"github.com/tomtom215/sage/internal/middleware"
)

// NewRouter builds the `sage serve` route tree:
//
//	GET  <metrics_path>                                  Prometheus exposition
//	GET  /api/v1/health, /health/live, /health/ready     probes
//	GET  /api/v1/containers                              container list
//	GET  /api/v1/containers/{id}/stats                   container analytics
//	GET  /api/v1/containers/{id}/suggestions             item suggestions
//	GET  /api/v1/containers/{id}/suggestions/text        free-text suggestions
//	GET  /api/v1/evaluations                             latest scheduled evaluations
func NewRouter(cfg *config.ServerConfig, h *Handler) http.Handler {
	mw := NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins: cfg.CORSOrigins,
		RateLimitRequests:  cfg.RateLimitRequests,
		RateLimitWindow:    cfg.RateLimitWindow,
		RateLimitDisabled:  cfg.RateLimitDisabled,
	})

	r := chi.NewRouter()
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())

	r.Handle(cfg.MetricsPath, promhttp.Handler())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(chimiddleware.Compress(5, "application/json"))
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/containers", h.Containers)
		r.Get("/containers/{id}/stats", h.ContainerStats)
		r.Get("/containers/{id}/suggestions", h.Suggestions)
		r.Get("/containers/{id}/suggestions/text", h.TextSuggestions)
		r.Get("/evaluations", h.Evaluations)
	})

	return r
}
