// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package analytics

import (
	"github.com/tomtom215/sage/internal/graph"
)

// Acceptance counts how often suggestions were accepted instead of typed in.
type Acceptance struct {
	Existing int `json:"existing"` // accepted from a suggestion
	New      int `json:"new"`      // typed in fresh
	Other    int `json:"other"`    // pulled, imported or unknown provenance

	// Ratio is Existing / (Existing + New), or 0.
	Ratio float64 `json:"ratio"`
}

// MeasureAcceptance counts edge provenance in a graph snapshot.
func MeasureAcceptance(g *graph.Graph) Acceptance {
	var a Acceptance
	for _, e := range g.Edges() {
		switch e.Provenance {
		case graph.ProvenanceExisting:
			a.Existing++
		case graph.ProvenanceNew:
			a.New++
		default:
			a.Other++
		}
	}
	if total := a.Existing + a.New; total > 0 {
		a.Ratio = float64(a.Existing) / float64(total)
	}
	return a
}
