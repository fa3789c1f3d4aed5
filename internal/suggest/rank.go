// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package suggest

import (
	"context"
	"fmt"
	"math"

	"github.com/tomtom215/sage/internal/graph"
)

// Mode selects how a co-occurrence variant scores a neighbour's top list.
type Mode int

const (
	// ModeVote scores 1 per top-list membership (times promotion if enabled).
	ModeVote Mode = iota

	// ModeSum scores co-occurrence count / neighbour degree (times promotion).
	ModeSum
)

// CoOccurrence implements the co-occurrence family (Vote, VotePlus, Sum, SumPlus).
//
// Every neighbour of the item is wrapped in the same variant, which computes
// the neighbour's own top co-occurrence list. Candidates collect a score from
// each list they appear in; scores are summed across neighbours.
type CoOccurrence struct {
	name   string
	mode   Mode
	params RankParams
}

var _ Algorithm = (*CoOccurrence)(nil)

// NewCoOccurrence creates a co-occurrence variant.
//
//nolint:gocritic // hugeParam: params copied once at construction
func NewCoOccurrence(name string, mode Mode, params RankParams) *CoOccurrence {
	if params.M < 0 {
		params.M = 0
	}
	return &CoOccurrence{name: name, mode: mode, params: params}
}

// Name returns the registry key.
func (r *CoOccurrence) Name() string { return r.name }

// Suggest aggregates the wrapped neighbours' scores.
func (r *CoOccurrence) Suggest(ctx context.Context, g *graph.Graph, item graph.Ref) (Result, error) {
	if !g.Contains(item) {
		return nil, fmt.Errorf("suggest %s: %w", item, graph.ErrNotFound)
	}

	parts := make([]Scores, 0, g.Degree(item))
	for _, n := range g.Neighbors(item) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		parts = append(parts, r.wrap(g, n).score())
	}
	return Rank(MergeAll(parts...)), nil
}

// wrap evaluates a neighbour with the same variant constants.
func (r *CoOccurrence) wrap(g *graph.Graph, ref graph.Ref) *ranked {
	return &ranked{g: g, ref: ref, mode: r.mode, params: r.params}
}

// ranked is one item viewed through a co-occurrence variant.
type ranked struct {
	g      *graph.Graph
	ref    graph.Ref
	mode   Mode
	params RankParams
	top    Result
}

// score returns the item's contribution for every member of its top list.
func (w *ranked) score() Scores {
	top := w.topList()
	out := make(Scores, len(top))
	deg := float64(w.g.Degree(w.ref))
	for i, s := range top {
		var base float64
		switch w.mode {
		case ModeSum:
			if deg == 0 {
				continue
			}
			base = s.Score / deg
		default:
			base = 1
		}
		if w.params.Promote {
			base *= w.promotion(i, s.Ref)
		}
		out[s.Ref] = base
	}
	return out
}

func (w *ranked) topList() Result {
	if w.top == nil {
		w.top = TopCoOccurrences(w.g, w.ref, w.params.M)
	}
	return w.top
}

// promotion = rank(position) * stability(item) * descriptive(candidate).
func (w *ranked) promotion(position int, candidate graph.Ref) float64 {
	p := w.params
	rank := p.KR / (p.KR + float64(position))
	stability := p.KS / (p.KS + math.Abs(p.KS-math.Log(float64(w.g.Degree(w.ref)))))
	descriptive := p.KD / (p.KD + math.Abs(p.KD-math.Log(float64(w.g.Degree(candidate)))))
	return rank * stability * descriptive
}

// CoOccurrences counts, for every item two hops from ref, how many of ref's
// neighbours it shares. ref itself is counted once per neighbour.
func CoOccurrences(g *graph.Graph, ref graph.Ref) Scores {
	out := make(Scores)
	for _, a := range g.Neighbors(ref) {
		for _, b := range g.Neighbors(a) {
			out[b]++
		}
	}
	return out
}

// TopCoOccurrences returns at most m co-occurring items by descending count.
func TopCoOccurrences(g *graph.Graph, ref graph.Ref, m int) Result {
	return Rank(CoOccurrences(g, ref)).Top(m)
}
