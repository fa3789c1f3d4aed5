// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package analytics

import (
	"sort"

	"github.com/tomtom215/sage/internal/evaluation"
	"github.com/tomtom215/sage/internal/graph"
)

// Subgraphs returns the connected groups of annotated objects, where two
// objects connect when they share a concept. Groups are ordered by their
// lowest object ID and each group is sorted.
func Subgraphs(g *graph.Graph) [][]graph.Ref {
	visited := make(map[graph.Ref]struct{})
	var groups [][]graph.Ref

	for _, start := range g.Items(graph.KindObject) {
		if g.Degree(start) == 0 {
			continue
		}
		if _, seen := visited[start]; seen {
			continue
		}

		var group []graph.Ref
		queue := []graph.Ref{start}
		visited[start] = struct{}{}
		for len(queue) > 0 {
			obj := queue[0]
			queue = queue[1:]
			group = append(group, obj)
			for _, concept := range g.Neighbors(obj) {
				for _, next := range g.Neighbors(concept) {
					if _, seen := visited[next]; seen {
						continue
					}
					visited[next] = struct{}{}
					queue = append(queue, next)
				}
			}
		}
		sort.Slice(group, func(i, j int) bool { return group[i].Less(group[j]) })
		groups = append(groups, group)
	}
	return groups
}

// SubgraphSizes summarises the object count of every subgraph.
func SubgraphSizes(groups [][]graph.Ref) *evaluation.Measurement {
	m := evaluation.NewMeasurement("Subgraph Object Counts")
	for _, group := range groups {
		m.Append(float64(len(group)))
	}
	return m
}
