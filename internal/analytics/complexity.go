// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package analytics

import (
	"github.com/tomtom215/sage/internal/graph"
)

// Complexity describes how completely and how densely objects are annotated.
type Complexity struct {
	Objects          int     `json:"objects"`
	AnnotatedObjects int     `json:"annotated_objects"`
	AnnotatedRatio   float64 `json:"annotated_ratio"`

	// Leaves have exactly one concept; branches have more.
	Leaves      int     `json:"leaves"`
	Branches    int     `json:"branches"`
	BranchRatio float64 `json:"branch_ratio"` // branches / annotated objects

	// Distributions map an annotation count (1..max) to the number of items with it.
	ObjectDistribution  map[int]int `json:"object_distribution"`
	ConceptDistribution map[int]int `json:"concept_distribution"`
}

// Measure computes the complexity of a graph snapshot.
func Measure(g *graph.Graph) Complexity {
	c := Complexity{
		Objects:             g.Count(graph.KindObject),
		ObjectDistribution:  distribution(g, graph.KindObject),
		ConceptDistribution: distribution(g, graph.KindConcept),
	}
	for _, ref := range g.Items(graph.KindObject) {
		switch d := g.Degree(ref); {
		case d == 1:
			c.Leaves++
		case d > 1:
			c.Branches++
		}
	}
	c.AnnotatedObjects = c.Leaves + c.Branches
	if c.Objects > 0 {
		c.AnnotatedRatio = float64(c.AnnotatedObjects) / float64(c.Objects)
	}
	if c.AnnotatedObjects > 0 {
		c.BranchRatio = float64(c.Branches) / float64(c.AnnotatedObjects)
	}
	return c
}

// distribution counts items per degree for degrees 1..max. Unannotated items are omitted.
func distribution(g *graph.Graph, kind graph.Kind) map[int]int {
	counts := make(map[int]int)
	maxDegree := 0
	for _, ref := range g.Items(kind) {
		d := g.Degree(ref)
		if d == 0 {
			continue
		}
		counts[d]++
		maxDegree = max(maxDegree, d)
	}
	out := make(map[int]int, maxDegree)
	for d := 1; d <= maxDegree; d++ {
		out[d] = counts[d]
	}
	return out
}
