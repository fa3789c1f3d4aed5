// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/sage/internal/cache"
	"github.com/tomtom215/sage/internal/evaluation"
	"github.com/tomtom215/sage/internal/graph"
	"github.com/tomtom215/sage/internal/suggest"
)

// Pinger is implemented by stores that can check their connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReportSource exposes the most recent scheduled evaluation reports.
type ReportSource interface {
	LatestReports() []*evaluation.Report
}

// Handler serves the read-only HTTP API.
type Handler struct {
	store     graph.Store
	engine    *suggest.Engine
	reports   ReportSource
	snapshots *cache.Snapshots
	startTime time.Time
}

// NewHandler creates a handler. reports may be nil when scheduled
// evaluation is disabled.
func NewHandler(store graph.Store, engine *suggest.Engine, reports ReportSource) *Handler {
	return &Handler{
		store:     store,
		engine:    engine,
		reports:   reports,
		startTime: time.Now(),
	}
}

// WithSnapshots serves suggestions from cached container views.
func (h *Handler) WithSnapshots(s *cache.Snapshots) *Handler {
	h.snapshots = s
	return h
}

// loadGraph returns the container view, from the snapshot cache when set.
func (h *Handler) loadGraph(ctx context.Context, containerID int64) (*graph.Graph, error) {
	if h.snapshots != nil {
		return h.snapshots.Load(ctx, containerID)
	}
	return graph.Load(ctx, h.store, containerID)
}

// storeReachable pings SQL stores; in-process stores are always reachable.
func (h *Handler) storeReachable(ctx context.Context) bool {
	if p, ok := h.store.(Pinger); ok {
		return p.Ping(ctx) == nil
	}
	return h.store != nil
}

// containerIDParam parses the {id} route parameter; invalid input yields 0,
// which request validation rejects.
func containerIDParam(r *http.Request) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// intQuery extracts an integer query parameter with a default value.
func intQuery(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return -1
	}
	return n
}

// respondStoreError maps graph errors to HTTP status codes.
func respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, graph.ErrNotFound):
		respondError(w, r, http.StatusNotFound, CodeNotFound, err.Error(), nil)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		respondError(w, r, http.StatusServiceUnavailable, CodeNotReady, "Request timed out", err)
	default:
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Internal server error", err)
	}
}
