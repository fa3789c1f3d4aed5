// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package graph

import (
	"context"
	"errors"
	"fmt"
)

// FlattenResult counts the items folded by FlattenDuplicates.
type FlattenResult struct {
	Concepts int
	Objects  int
}

// FlattenDuplicates folds concepts with identical text, and objects with
// identical locators, into the lowest-ID item of each group. The survivor
// gains every edge of the folded items.
func FlattenDuplicates(ctx context.Context, store Store, containerID int64) (FlattenResult, error) {
	var res FlattenResult

	concepts, err := store.Concepts(ctx, containerID)
	if err != nil {
		return res, fmt.Errorf("flatten: %w", err)
	}
	objects, err := store.Objects(ctx, containerID)
	if err != nil {
		return res, fmt.Errorf("flatten: %w", err)
	}
	edges, err := store.Edges(ctx, containerID)
	if err != nil {
		return res, fmt.Errorf("flatten: %w", err)
	}
	idx := indexEdges(edges)

	keepConcept := make(map[string]int64)
	for _, c := range concepts {
		keeper, seen := keepConcept[c.Text]
		if !seen {
			keepConcept[c.Text] = c.ID
			continue
		}
		if err := absorb(ctx, store, idx, ConceptRef(keeper), c.Ref()); err != nil {
			return res, err
		}
		if err := store.DeleteConcept(ctx, c.ID); err != nil {
			return res, fmt.Errorf("flatten concept %d: %w", c.ID, err)
		}
		res.Concepts++
	}

	// Folding concepts rewrote edges; re-read them before folding objects.
	if res.Concepts > 0 {
		edges, err = store.Edges(ctx, containerID)
		if err != nil {
			return res, fmt.Errorf("flatten: %w", err)
		}
		idx = indexEdges(edges)
	}

	keepObject := make(map[string]int64)
	for _, o := range objects {
		keeper, seen := keepObject[o.Locator]
		if !seen {
			keepObject[o.Locator] = o.ID
			continue
		}
		if err := absorb(ctx, store, idx, ObjectRef(keeper), o.Ref()); err != nil {
			return res, err
		}
		if err := store.DeleteObject(ctx, o.ID); err != nil {
			return res, fmt.Errorf("flatten object %d: %w", o.ID, err)
		}
		res.Objects++
	}

	return res, nil
}

// MergeConcepts merges others into target: their texts are appended to the
// target's as new paragraphs, their edges are unioned into the target, and
// they are deleted.
func MergeConcepts(ctx context.Context, store Store, target int64, others ...int64) error {
	keeper, err := store.Concept(ctx, target)
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	edges, err := store.Edges(ctx, keeper.ContainerID)
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	idx := indexEdges(edges)

	text := keeper.Text
	for _, id := range others {
		if id == target {
			continue
		}
		other, err := store.Concept(ctx, id)
		if err != nil {
			return fmt.Errorf("merge: %w", err)
		}
		if other.ContainerID != keeper.ContainerID {
			return fmt.Errorf("merge concept %d: %w", id, ErrCrossContainer)
		}
		text += "\n\n" + other.Text
		if err := absorb(ctx, store, idx, keeper.Ref(), other.Ref()); err != nil {
			return err
		}
		if err := store.DeleteConcept(ctx, id); err != nil {
			return fmt.Errorf("merge concept %d: %w", id, err)
		}
	}
	if err := store.UpdateConceptText(ctx, target, text); err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	return nil
}

type edgeIndex map[Ref][]Edge

func indexEdges(edges []Edge) edgeIndex {
	idx := make(edgeIndex)
	for _, e := range edges {
		c, o := ConceptRef(e.ConceptID), ObjectRef(e.ObjectID)
		idx[c] = append(idx[c], e)
		idx[o] = append(idx[o], e)
	}
	return idx
}

// absorb copies from's edges onto into, skipping edges into already has.
func absorb(ctx context.Context, store Store, idx edgeIndex, into, from Ref) error {
	for _, e := range idx[from] {
		ne := e
		if into.Kind == KindConcept {
			ne.ConceptID = into.ID
		} else {
			ne.ObjectID = into.ID
		}
		err := store.CreateEdge(ctx, ne)
		switch {
		case err == nil:
			idx[into] = append(idx[into], ne)
		case errors.Is(err, ErrDuplicateEdge):
		default:
			return fmt.Errorf("absorb %s into %s: %w", from, into, err)
		}
	}
	return nil
}
