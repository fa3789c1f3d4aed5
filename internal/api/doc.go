// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

/*
Package api provides the read-only HTTP surface of `sage serve`, routed with chi.

# Endpoints

	GET  /metrics                                     Prometheus exposition (server.metrics_path)
	GET  /api/v1/health                               store reachability, container count, last evaluation
	GET  /api/v1/health/live                          liveness probe
	GET  /api/v1/health/ready                         readiness probe (503 when the store is down)
	GET  /api/v1/containers                           container list
	GET  /api/v1/containers/{id}/stats                statistics, complexity, productivity, acceptance
	GET  /api/v1/containers/{id}/suggestions          ?item=concept:12&algorithm=VotePlus&limit=10
	GET  /api/v1/containers/{id}/suggestions/text     ?q=red+car&limit=10
	GET  /api/v1/evaluations                          latest scheduled evaluation per container

# Response Format

Every endpoint answers with the same envelope:

	{"status": "success", "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"status": "error", "error": {"code": "VALIDATION_ERROR", "message": "...", "details": [...]}, "meta": {...}}

Query parameters are validated with go-playground/validator through
internal/validation; algorithm names must be registered suggestion algorithms.

# Middleware

  - X-Request-ID propagation into the logging context
  - chi RealIP, Recoverer and gzip Compress
  - go-chi/cors (no origins allowed unless server.cors_origins is set)
  - go-chi/httprate per-IP limiting on /api/v1 (health probes are exempt)
  - Prometheus request metrics labelled by route pattern
*/
package api
