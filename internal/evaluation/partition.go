// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package evaluation

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/tomtom215/sage/internal/graph"
)

// Partition shuffles the container's edges, keeps the first
// round(fraction * n) as training data and deletes the rest.
// The deleted edges are returned in shuffled order.
func Partition(ctx context.Context, store graph.Store, containerID int64, fraction float64, rng *rand.Rand) ([]graph.Edge, error) {
	if err := validateFraction(fraction); err != nil {
		return nil, err
	}

	edges, err := store.Edges(ctx, containerID)
	if err != nil {
		return nil, fmt.Errorf("partition: list edges: %w", err)
	}
	rng.Shuffle(len(edges), func(i, j int) { edges[i], edges[j] = edges[j], edges[i] })

	keep := TrainSize(len(edges), fraction)
	removed := edges[keep:]
	for _, e := range removed {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := store.DeleteEdge(ctx, e.ConceptID, e.ObjectID); err != nil {
			return nil, fmt.Errorf("partition: delete edge %d-%d: %w", e.ConceptID, e.ObjectID, err)
		}
	}
	return removed, nil
}

// TrainSize returns how many of n edges a fraction keeps, rounding half away from zero.
func TrainSize(n int, fraction float64) int {
	keep := int(math.Round(fraction * float64(n)))
	return max(0, min(keep, n))
}

func validateFraction(fraction float64) error {
	if math.IsNaN(fraction) || fraction < 0 || fraction > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidFraction, fraction)
	}
	return nil
}
