// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package suggest

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/tomtom215/sage/internal/graph"
)

// All scores every opposite-type item 1.0.
type All struct{}

// Annotated scores the item's current neighbours 1.0.
type Annotated struct{}

// None suggests nothing.
type None struct{}

// Shuffle scores every opposite-type item with a random value in [0, 1).
// It is safe for concurrent use.
type Shuffle struct {
	rng *rand.Rand
	mu  sync.Mutex
}

var (
	_ Algorithm = All{}
	_ Algorithm = Annotated{}
	_ Algorithm = None{}
	_ Algorithm = (*Shuffle)(nil)
)

// NewAll creates the All baseline.
func NewAll() All { return All{} }

// NewAnnotated creates the Annotated baseline.
func NewAnnotated() Annotated { return Annotated{} }

// NewNone creates the None baseline.
func NewNone() None { return None{} }

// NewShuffle creates the Shuffle baseline with a fixed seed.
func NewShuffle(seed int64) *Shuffle {
	return &Shuffle{rng: rand.New(rand.NewSource(seed))} //nolint:gosec // math/rand is fine for a random control
}

func (All) Name() string { return string(KindAll) }
func (Annotated) Name() string { return string(KindAnnotated) }
func (None) Name() string { return string(KindNone) }
func (*Shuffle) Name() string { return string(KindShuffle) }

// Suggest implements Algorithm.
func (All) Suggest(_ context.Context, g *graph.Graph, item graph.Ref) (Result, error) {
	if err := checkItem(g, item); err != nil {
		return nil, err
	}
	return uniform(g.Items(item.Kind.Opposite())), nil
}

// Suggest implements Algorithm.
func (Annotated) Suggest(_ context.Context, g *graph.Graph, item graph.Ref) (Result, error) {
	if err := checkItem(g, item); err != nil {
		return nil, err
	}
	return uniform(g.Neighbors(item)), nil
}

// Suggest implements Algorithm.
func (None) Suggest(_ context.Context, g *graph.Graph, item graph.Ref) (Result, error) {
	if err := checkItem(g, item); err != nil {
		return nil, err
	}
	return Result{}, nil
}

// Suggest implements Algorithm.
func (s *Shuffle) Suggest(_ context.Context, g *graph.Graph, item graph.Ref) (Result, error) {
	if err := checkItem(g, item); err != nil {
		return nil, err
	}
	refs := g.Items(item.Kind.Opposite())

	s.mu.Lock()
	defer s.mu.Unlock()

	scores := make(Scores, len(refs))
	for _, ref := range refs {
		scores[ref] = s.rng.Float64()
	}
	return Rank(scores), nil
}

func uniform(refs []graph.Ref) Result {
	scores := make(Scores, len(refs))
	for _, ref := range refs {
		scores[ref] = 1.0
	}
	return Rank(scores)
}

func checkItem(g *graph.Graph, item graph.Ref) error {
	if !g.Contains(item) {
		return fmt.Errorf("suggest %s: %w", item, graph.ErrNotFound)
	}
	return nil
}
