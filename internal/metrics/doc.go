// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

/*
Package metrics provides Prometheus instrumentation for the suggestion engine,
the evaluation harness, and the graph store.

Metrics are registered on the default registry with promauto and exposed by
`sage serve` at /metrics:

	curl http://localhost:9464/metrics

# Available Metrics

Store:
  - sage_store_query_duration_seconds (histogram): operation, table
  - sage_store_query_errors_total (counter): operation, table, error_type

Suggestions:
  - sage_suggestion_duration_seconds (histogram): algorithm
  - sage_suggestions_total (counter): algorithm, status
  - sage_suggestion_candidates (histogram): algorithm

Evaluation:
  - sage_evaluation_runs_total (counter): status
  - sage_evaluation_duration_seconds (histogram)
  - sage_evaluation_trials_total (counter): algorithm
  - sage_evaluation_metric_mean (gauge): container, algorithm, metric
  - sage_evaluation_last_success_timestamp_seconds (gauge)

HTTP:
  - sage_http_requests_total (counter): method, endpoint, status
  - sage_http_request_duration_seconds (histogram): method, endpoint

Callers use the Record* helpers rather than touching the collectors directly.
*/
package metrics
