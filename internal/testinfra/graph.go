// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package testinfra

import (
	"context"
	"testing"

	"github.com/tomtom215/sage/internal/graph"
)

// GraphBuilder builds small annotation graphs in a MemoryStore by name.
//
//	b := testinfra.NewGraphBuilder(t)
//	b.Concept("c1", "red car")
//	b.Object("o1")
//	b.Edge("c1", "o1")
//	g := b.Graph()
type GraphBuilder struct {
	t         testing.TB
	Store     *graph.MemoryStore
	Container graph.Container

	concepts map[string]int64
	objects  map[string]int64
}

// NewGraphBuilder creates a store with one empty container.
func NewGraphBuilder(t testing.TB) *GraphBuilder {
	t.Helper()

	store := graph.NewMemoryStore()
	c, err := store.CreateContainer(context.Background(), graph.Container{Name: t.Name()})
	if err != nil {
		t.Fatalf("CreateContainer() error = %v", err)
	}
	return &GraphBuilder{
		t:         t,
		Store:     store,
		Container: c,
		concepts:  make(map[string]int64),
		objects:   make(map[string]int64),
	}
}

// Concept adds a concept under a test name and returns its ref.
func (b *GraphBuilder) Concept(name, text string) graph.Ref {
	b.t.Helper()

	c, err := b.Store.CreateConcept(context.Background(), graph.Concept{ContainerID: b.Container.ID, Text: text})
	if err != nil {
		b.t.Fatalf("CreateConcept(%q) error = %v", name, err)
	}
	b.concepts[name] = c.ID
	return c.Ref()
}

// Object adds an object whose locator is its test name.
func (b *GraphBuilder) Object(name string) graph.Ref {
	b.t.Helper()

	o, err := b.Store.CreateObject(context.Background(), graph.Object{ContainerID: b.Container.ID, Locator: name})
	if err != nil {
		b.t.Fatalf("CreateObject(%q) error = %v", name, err)
	}
	b.objects[name] = o.ID
	return o.Ref()
}

// Edge links two named items with the New provenance.
func (b *GraphBuilder) Edge(concept, object string) {
	b.t.Helper()
	b.EdgeWith(graph.Edge{Provenance: graph.ProvenanceNew}, concept, object)
}

// EdgeWith links two named items using e's provenance, owner and timestamp.
//
//nolint:gocritic // hugeParam: test helper
func (b *GraphBuilder) EdgeWith(e graph.Edge, concept, object string) {
	b.t.Helper()

	e.ConceptID = b.C(concept).ID
	e.ObjectID = b.O(object).ID
	if err := b.Store.CreateEdge(context.Background(), e); err != nil {
		b.t.Fatalf("CreateEdge(%s, %s) error = %v", concept, object, err)
	}
}

// C returns the ref of a named concept.
func (b *GraphBuilder) C(name string) graph.Ref {
	b.t.Helper()

	id, ok := b.concepts[name]
	if !ok {
		b.t.Fatalf("unknown concept %q", name)
	}
	return graph.ConceptRef(id)
}

// O returns the ref of a named object.
func (b *GraphBuilder) O(name string) graph.Ref {
	b.t.Helper()

	id, ok := b.objects[name]
	if !ok {
		b.t.Fatalf("unknown object %q", name)
	}
	return graph.ObjectRef(id)
}

// Name maps a ref back to its test name, or "" if unknown.
func (b *GraphBuilder) Name(ref graph.Ref) string {
	names := b.objects
	if ref.Kind == graph.KindConcept {
		names = b.concepts
	}
	for name, id := range names {
		if id == ref.ID {
			return name
		}
	}
	return ""
}

// Graph loads the container snapshot.
func (b *GraphBuilder) Graph() *graph.Graph {
	b.t.Helper()

	g, err := graph.Load(context.Background(), b.Store, b.Container.ID)
	if err != nil {
		b.t.Fatalf("graph.Load() error = %v", err)
	}
	return g
}
