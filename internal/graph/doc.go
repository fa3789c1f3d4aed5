// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

/*
Package graph defines the bipartite annotation graph: containers holding
concepts (short textual tags) and objects (referenced resources), linked by
annotation edges.

# Components

  - Store: persistence boundary (containers, items, edges, clones, access keys)
  - MemoryStore: in-process Store used by tests and offline datasets
  - Graph: immutable snapshot of one container, read by suggestion algorithms
  - FlattenDuplicates / MergeConcepts: item consolidation helpers

SQL-backed stores live in internal/database.

# Example

	store := graph.NewMemoryStore()
	c, _ := store.CreateContainer(ctx, graph.Container{Name: "photos"})
	tag, _ := store.CreateConcept(ctx, graph.Concept{ContainerID: c.ID, Text: "red car"})
	obj, _ := store.CreateObject(ctx, graph.Object{ContainerID: c.ID, Locator: "img/1.jpg"})
	_ = store.CreateEdge(ctx, graph.Edge{ConceptID: tag.ID, ObjectID: obj.ID, Provenance: graph.ProvenanceNew})

	g, err := graph.Load(ctx, store, c.ID)
*/
package graph
