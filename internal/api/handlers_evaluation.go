// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package api

import (
	"net/http"
	"sort"
	"time"
)

// EvaluationSummary is the metric means of one scheduled evaluation run.
type EvaluationSummary struct {
	RunID         string                        `json:"run_id"`
	ContainerID   int64                         `json:"container_id"`
	ContainerName string                        `json:"container_name"`
	Fraction      float64                       `json:"fraction"`
	Items         int                           `json:"items"`
	Finished      time.Time                     `json:"finished"`
	DurationMs    int64                         `json:"duration_ms"`
	Means         map[string]map[string]float64 `json:"means"`
}

// Evaluations returns the latest scheduled evaluation of each container,
// ordered by container ID.
func (h *Handler) Evaluations(w http.ResponseWriter, r *http.Request) {
	out := []EvaluationSummary{}
	if h.reports != nil {
		for _, rep := range h.reports.LatestReports() {
			out = append(out, EvaluationSummary{
				RunID:         rep.RunID,
				ContainerID:   rep.ContainerID,
				ContainerName: rep.ContainerName,
				Fraction:      rep.Fraction,
				Items:         rep.Items,
				Finished:      rep.Finished,
				DurationMs:    rep.Duration.Milliseconds(),
				Means:         rep.Summary(),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ContainerID < out[j].ContainerID })
	respondData(w, r, out)
}
