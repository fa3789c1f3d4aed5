// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package graph

import (
	"context"
	"fmt"
	"sort"
)

// Graph is an immutable in-memory snapshot of one container.
// Suggestion algorithms read from a Graph instead of querying the Store per hop.
type Graph struct {
	containerID int64
	concepts    []Concept
	objects     []Object
	edges       []Edge
	labels      map[Ref]string
	adjacency   map[Ref][]Ref
}

// Load reads a container from the store into a Graph.
func Load(ctx context.Context, store Store, containerID int64) (*Graph, error) {
	concepts, err := store.Concepts(ctx, containerID)
	if err != nil {
		return nil, fmt.Errorf("load concepts: %w", err)
	}
	objects, err := store.Objects(ctx, containerID)
	if err != nil {
		return nil, fmt.Errorf("load objects: %w", err)
	}
	edges, err := store.Edges(ctx, containerID)
	if err != nil {
		return nil, fmt.Errorf("load edges: %w", err)
	}
	return NewGraph(containerID, concepts, objects, edges), nil
}

// NewGraph builds a Graph from already loaded rows.
// Edges referencing unknown items are ignored.
func NewGraph(containerID int64, concepts []Concept, objects []Object, edges []Edge) *Graph {
	g := &Graph{
		containerID: containerID,
		concepts:    append([]Concept(nil), concepts...),
		objects:     append([]Object(nil), objects...),
		labels:      make(map[Ref]string, len(concepts)+len(objects)),
		adjacency:   make(map[Ref][]Ref, len(concepts)+len(objects)),
	}
	sort.Slice(g.concepts, func(i, j int) bool { return g.concepts[i].ID < g.concepts[j].ID })
	sort.Slice(g.objects, func(i, j int) bool { return g.objects[i].ID < g.objects[j].ID })

	for _, c := range g.concepts {
		g.labels[c.Ref()] = c.Text
	}
	for _, o := range g.objects {
		g.labels[o.Ref()] = o.Locator
	}

	for _, e := range edges {
		c, o := ConceptRef(e.ConceptID), ObjectRef(e.ObjectID)
		if !g.Contains(c) || !g.Contains(o) {
			continue
		}
		g.edges = append(g.edges, e)
		g.adjacency[c] = append(g.adjacency[c], o)
		g.adjacency[o] = append(g.adjacency[o], c)
	}
	SortEdges(g.edges)
	for ref, adj := range g.adjacency {
		sort.Slice(adj, func(i, j int) bool { return adj[i].ID < adj[j].ID })
		g.adjacency[ref] = adj
	}
	return g
}

// ContainerID returns the container the snapshot was taken from.
func (g *Graph) ContainerID() int64 { return g.containerID }

// Contains reports whether ref is an item of this container.
func (g *Graph) Contains(ref Ref) bool {
	_, ok := g.labels[ref]
	return ok
}

// Label returns a concept's text or an object's locator.
func (g *Graph) Label(ref Ref) string { return g.labels[ref] }

// Neighbors returns the opposite-type items linked to ref, ordered by ID.
// The returned slice must not be modified.
func (g *Graph) Neighbors(ref Ref) []Ref { return g.adjacency[ref] }

// Degree returns the number of edges touching ref.
func (g *Graph) Degree(ref Ref) int { return len(g.adjacency[ref]) }

// Related returns ref's related set as a lookup table.
func (g *Graph) Related(ref Ref) map[Ref]struct{} {
	adj := g.adjacency[ref]
	set := make(map[Ref]struct{}, len(adj))
	for _, r := range adj {
		set[r] = struct{}{}
	}
	return set
}

// Items returns every item of one kind, ordered by ID.
func (g *Graph) Items(kind Kind) []Ref {
	switch kind {
	case KindConcept:
		out := make([]Ref, len(g.concepts))
		for i, c := range g.concepts {
			out[i] = c.Ref()
		}
		return out
	case KindObject:
		out := make([]Ref, len(g.objects))
		for i, o := range g.objects {
			out[i] = o.Ref()
		}
		return out
	default:
		return nil
	}
}

// Count returns the number of items of one kind.
func (g *Graph) Count(kind Kind) int {
	switch kind {
	case KindConcept:
		return len(g.concepts)
	case KindObject:
		return len(g.objects)
	default:
		return 0
	}
}

// Concepts returns the container's concepts ordered by ID.
func (g *Graph) Concepts() []Concept { return g.concepts }

// Objects returns the container's objects ordered by ID.
func (g *Graph) Objects() []Object { return g.objects }

// Edges returns the container's edges ordered by (concept, object).
func (g *Graph) Edges() []Edge { return g.edges }

// Text returns a concept's text.
func (g *Graph) Text(conceptID int64) string { return g.labels[ConceptRef(conceptID)] }
