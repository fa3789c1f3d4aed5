// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sage_store_query_duration_seconds",
			Help:    "Duration of graph store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sage_store_query_errors_total",
			Help: "Total number of graph store query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// Suggestion Metrics
	SuggestionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sage_suggestion_duration_seconds",
			Help:    "Time spent computing one suggestion list",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"algorithm"},
	)

	SuggestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sage_suggestions_total",
			Help: "Total suggestion requests by algorithm and status",
		},
		[]string{"algorithm", "status"}, // "success", "error"
	)

	SuggestionCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sage_suggestion_candidates",
			Help:    "Number of candidates returned per suggestion request",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 500},
		},
		[]string{"algorithm"},
	)

	// Evaluation Metrics
	EvaluationRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sage_evaluation_runs_total",
			Help: "Total evaluation runs by status",
		},
		[]string{"status"},
	)

	EvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sage_evaluation_duration_seconds",
			Help:    "Duration of a complete evaluation run",
			Buckets: []float64{.01, .1, .5, 1, 5, 10, 30, 60, 300},
		},
	)

	EvaluationTrials = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sage_evaluation_trials_total",
			Help: "Total held-out items scored per algorithm",
		},
		[]string{"algorithm"},
	)

	EvaluationMetricMean = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sage_evaluation_metric_mean",
			Help: "Mean of each evaluation metric from the latest run",
		},
		[]string{"container", "algorithm", "metric"},
	)

	EvaluationLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sage_evaluation_last_success_timestamp_seconds",
			Help: "Unix time of the last successful evaluation run",
		},
	)

	// HTTP Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sage_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sage_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// Snapshot cache metrics
	SnapshotCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sage_snapshot_cache_requests_total",
			Help: "Graph snapshot cache lookups by result (hit, miss)",
		},
		[]string{"result"},
	)
)

// RecordDBQuery records a store query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordSuggestion records one suggestion request
func RecordSuggestion(algorithm string, duration time.Duration, candidates int, err error) {
	SuggestionDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
	if err != nil {
		SuggestionsTotal.WithLabelValues(algorithm, "error").Inc()
		return
	}
	SuggestionsTotal.WithLabelValues(algorithm, "success").Inc()
	SuggestionCandidates.WithLabelValues(algorithm).Observe(float64(candidates))
}

// RecordEvaluationRun records a finished evaluation run
func RecordEvaluationRun(duration time.Duration, err error) {
	EvaluationDuration.Observe(duration.Seconds())
	if err != nil {
		EvaluationRunsTotal.WithLabelValues("error").Inc()
		return
	}
	EvaluationRunsTotal.WithLabelValues("success").Inc()
	EvaluationLastSuccess.SetToCurrentTime()
}

// RecordEvaluationTrial counts one held-out item scored by an algorithm
func RecordEvaluationTrial(algorithm string) {
	EvaluationTrials.WithLabelValues(algorithm).Inc()
}

// SetEvaluationMean publishes the latest mean of one metric
func SetEvaluationMean(container, algorithm, metric string, mean float64) {
	EvaluationMetricMean.WithLabelValues(container, algorithm, metric).Set(mean)
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordSnapshotCache records a graph snapshot cache lookup.
func RecordSnapshotCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	SnapshotCacheRequests.WithLabelValues(result).Inc()
}
