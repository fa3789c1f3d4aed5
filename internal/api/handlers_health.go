// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the body of GET /api/v1/health.
type HealthStatus struct {
	Status         string     `json:"status"` // "healthy" or "degraded"
	StoreReachable bool       `json:"store_reachable"`
	Containers     int        `json:"containers"`
	LastEvaluation *time.Time `json:"last_evaluation,omitempty"`
	Uptime         float64    `json:"uptime_seconds"`
}

// Health reports store connectivity and the latest scheduled evaluation.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := HealthStatus{
		Status:         "healthy",
		StoreReachable: h.storeReachable(ctx),
		Uptime:         time.Since(h.startTime).Seconds(),
	}

	if status.StoreReachable {
		if containers, err := h.store.Containers(ctx); err == nil {
			status.Containers = len(containers)
		} else {
			status.StoreReachable = false
		}
	}
	if !status.StoreReachable {
		status.Status = "degraded"
	}

	if h.reports != nil {
		for _, rep := range h.reports.LatestReports() {
			finished := rep.Finished
			if status.LastEvaluation == nil || finished.After(*status.LastEvaluation) {
				status.LastEvaluation = &finished
			}
		}
	}

	respondData(w, r, status)
}

// HealthLive returns 200 OK while the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, map[string]interface{}{
		"alive":          true,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady returns 200 OK only when the store answers, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := h.storeReachable(r.Context())

	code, status := http.StatusOK, "ready"
	if !ready {
		code, status = http.StatusServiceUnavailable, "not_ready"
	}
	respondJSON(w, r, code, &APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"store_reachable": ready,
			"uptime_seconds":  time.Since(h.startTime).Seconds(),
		},
	})
}
