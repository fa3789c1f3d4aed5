// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

/*
Package middleware provides HTTP middleware for the `sage serve` listener.

Key Components:

  - RequestID: UUID-based request tracking; the ID is attached to the
    logging context so logging.Ctx(r.Context()) carries request_id
  - PrometheusMetrics: request count and latency per chi route pattern

Both are http.HandlerFunc decorators. The api package adapts them to chi's
func(http.Handler) http.Handler form.
*/
package middleware
