// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package api

import (
	"net/http"

	"github.com/tomtom215/sage/internal/analytics"
)

type containerRequest struct {
	ContainerID int64 `validate:"gt=0"`
}

// Containers lists every container.
func (h *Handler) Containers(w http.ResponseWriter, r *http.Request) {
	containers, err := h.store.Containers(r.Context())
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondData(w, r, containers)
}

// ContainerStats returns statistics, complexity, subgraph sizes,
// productivity and acceptance for one container.
func (h *Handler) ContainerStats(w http.ResponseWriter, r *http.Request) {
	req := containerRequest{ContainerID: containerIDParam(r)}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	report, err := analytics.Analyze(r.Context(), h.store, req.ContainerID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondData(w, r, report)
}
