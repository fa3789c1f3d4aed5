// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package dataset

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sage/internal/graph"
)

// Build converts a stored container into a dataset document.
// Dataset IDs are the store IDs, which keeps exports stable across runs.
func Build(ctx context.Context, store graph.Store, containerID int64) (*Dataset, error) {
	container, err := store.Container(ctx, containerID)
	if err != nil {
		return nil, fmt.Errorf("export container %d: %w", containerID, err)
	}
	g, err := graph.Load(ctx, store, containerID)
	if err != nil {
		return nil, fmt.Errorf("export container %d: %w", containerID, err)
	}

	ds := &Dataset{
		Version:     FormatVersion,
		Name:        container.Name,
		Notes:       container.Notes,
		Algorithm:   container.Algorithm,
		Concepts:    make([]Concept, 0, g.Count(graph.KindConcept)),
		Objects:     make([]Object, 0, g.Count(graph.KindObject)),
		Annotations: make([]Annotation, 0, len(g.Edges())),
	}
	for _, c := range g.Concepts() {
		ds.Concepts = append(ds.Concepts, Concept{ID: c.ID, Text: c.Text})
	}
	for _, o := range g.Objects() {
		ds.Objects = append(ds.Objects, Object{ID: o.ID, Locator: o.Locator})
	}
	for _, e := range g.Edges() {
		ds.Annotations = append(ds.Annotations, Annotation{
			Concept:    e.ConceptID,
			Object:     e.ObjectID,
			Provenance: e.Provenance,
			CreatedAt:  e.CreatedAt.UTC(),
			OwnerID:    e.OwnerID,
		})
	}
	return ds, nil
}

// Export writes a container as an indented JSON dataset.
func Export(ctx context.Context, store graph.Store, containerID int64, w io.Writer) (*Stats, error) {
	ds, err := Build(ctx, store, containerID)
	if err != nil {
		return nil, err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return nil, fmt.Errorf("encode dataset: %w", err)
	}
	return &Stats{
		ContainerID: containerID,
		Concepts:    len(ds.Concepts),
		Objects:     len(ds.Objects),
		Annotations: len(ds.Annotations),
	}, nil
}
