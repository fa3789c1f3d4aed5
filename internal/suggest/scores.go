// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package suggest

import (
	"sort"

	"github.com/tomtom215/sage/internal/graph"
)

// Scores maps candidate items to non-negative scores.
type Scores map[graph.Ref]float64

// Merge returns a new mapping holding the sum of a and b per key.
// Neither input is modified.
func Merge(a, b Scores) Scores {
	out := make(Scores, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] += v
	}
	return out
}

// MergeAll sums any number of mappings into a new one.
func MergeAll(parts ...Scores) Scores {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make(Scores, n)
	for _, p := range parts {
		for k, v := range p {
			out[k] += v
		}
	}
	return out
}

// Scale returns a copy of s with every score multiplied by f.
func Scale(s Scores, f float64) Scores {
	out := make(Scores, len(s))
	for k, v := range s {
		out[k] = v * f
	}
	return out
}

// Sum returns the total of all scores.
func (s Scores) Sum() float64 {
	var total float64
	for _, v := range s {
		total += v
	}
	return total
}

// Scored is one ranked candidate.
type Scored struct {
	Ref   graph.Ref `json:"ref"`
	Score float64   `json:"score"`
}

// Result is a ranked suggestion list: descending score, ascending Ref on ties.
type Result []Scored

// Rank orders a score mapping into a Result.
func Rank(s Scores) Result {
	out := make(Result, 0, len(s))
	for ref, score := range s {
		out = append(out, Scored{Ref: ref, Score: score})
	}
	sort.Slice(out, func(i, j int) bool { return before(out[i], out[j]) })
	return out
}

func before(a, b Scored) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Ref.Less(b.Ref)
}

// Refs returns the candidates in rank order.
func (r Result) Refs() []graph.Ref {
	out := make([]graph.Ref, len(r))
	for i, s := range r {
		out[i] = s.Ref
	}
	return out
}

// Scores converts the result back into a mapping.
func (r Result) Scores() Scores {
	out := make(Scores, len(r))
	for _, s := range r {
		out[s.Ref] = s.Score
	}
	return out
}

// Top returns at most k leading entries. k <= 0 yields an empty result.
func (r Result) Top(k int) Result {
	if k <= 0 {
		return Result{}
	}
	if k > len(r) {
		k = len(r)
	}
	return r[:k]
}

// Index returns the 0-based position of ref, or -1.
func (r Result) Index(ref graph.Ref) int {
	for i, s := range r {
		if s.Ref == ref {
			return i
		}
	}
	return -1
}
