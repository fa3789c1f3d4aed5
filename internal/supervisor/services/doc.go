// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

/*
Package services provides suture.Service wrappers for Sage components.

Every wrapper implements suture.Service and fmt.Stringer, logs through a
zerolog logger tagged with "service", and returns ctx.Err() on shutdown.

# Available Services

HTTPServerService runs the read-only HTTP API. On cancellation the server
gets the configured shutdown timeout to drain connections.

EvaluationService re-runs the evaluation harness on a ticker for a fixed
list of containers and keeps the latest report of each. It implements
api.ReportSource, so /api/v1/evaluations and the health endpoint read
from it directly. Mean scores are exported as Prometheus gauges by the
harness itself.

ConfigWatchService watches the config file and applies the log level
from every valid reload. Invalid files are logged and ignored.

CachePruneService drops expired container snapshots from the API cache
once per TTL.
*/
package services
