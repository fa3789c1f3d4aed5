// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package analytics

import (
	"strings"

	"github.com/tomtom215/sage/internal/evaluation"
	"github.com/tomtom215/sage/internal/graph"
)

// Summary describes a numeric distribution. Variance is the population variance.
type Summary struct {
	Count    int     `json:"count"`
	Total    float64 `json:"total"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	StdDev   float64 `json:"std_dev"`
}

// Summarize computes a Summary of values.
func Summarize(values []float64) Summary {
	m := evaluation.NewMeasurement("", values...)
	total := 0.0
	for _, v := range values {
		total += v
	}
	return Summary{
		Count:    m.Count(),
		Total:    total,
		Min:      m.Min(),
		Max:      m.Max(),
		Mean:     m.Mean(),
		Variance: m.Variance(),
		StdDev:   m.StdDev(),
	}
}

// Statistics are the headline counts of a container.
type Statistics struct {
	Contributors int `json:"contributors"`
	Objects      int `json:"objects"`
	Concepts     int `json:"concepts"`
	Annotations  int `json:"annotations"`

	// ObjectDegrees summarises annotations per object.
	ObjectDegrees Summary `json:"object_degrees"`

	// ConceptDegrees summarises annotations per concept.
	ConceptDegrees Summary `json:"concept_degrees"`

	// Words summarises whitespace-separated words per concept text.
	Words Summary `json:"words"`
}

// Stats computes container statistics from a graph snapshot.
// Contributors counts distinct edge owners.
func Stats(g *graph.Graph) Statistics {
	owners := make(map[int64]struct{})
	for _, e := range g.Edges() {
		if e.OwnerID != nil {
			owners[*e.OwnerID] = struct{}{}
		}
	}

	words := make([]float64, 0, g.Count(graph.KindConcept))
	for _, c := range g.Concepts() {
		words = append(words, float64(len(strings.Fields(c.Text))))
	}

	return Statistics{
		Contributors:   len(owners),
		Objects:        g.Count(graph.KindObject),
		Concepts:       g.Count(graph.KindConcept),
		Annotations:    len(g.Edges()),
		ObjectDegrees:  Summarize(degrees(g, graph.KindObject)),
		ConceptDegrees: Summarize(degrees(g, graph.KindConcept)),
		Words:          Summarize(words),
	}
}

func degrees(g *graph.Graph, kind graph.Kind) []float64 {
	items := g.Items(kind)
	out := make([]float64, len(items))
	for i, ref := range items {
		out[i] = float64(g.Degree(ref))
	}
	return out
}
