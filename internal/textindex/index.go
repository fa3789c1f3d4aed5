// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package textindex

import "github.com/tomtom215/sage/internal/graph"

// Index answers similarity queries over the concepts of one container.
type Index struct {
	table *Table
	total int
}

// New builds an index from a container's concepts.
func New(concepts []graph.Concept) *Index {
	return &Index{table: BuildTable(concepts), total: len(concepts)}
}

// FromGraph builds an index from a graph snapshot.
func FromGraph(g *graph.Graph) *Index {
	return New(g.Concepts())
}

// Table exposes the underlying word table.
func (x *Index) Table() *Table { return x.table }

// Total returns the number of indexed concepts.
func (x *Index) Total() int { return x.total }

// Vector returns a concept's tf-idf vector.
func (x *Index) Vector(id int64) Vector { return x.table.Vector(id, x.total) }

// Similarity returns the cosine score of every other concept that shares at
// least one token with id. Candidates with a zero norm are left out, and a
// concept without tokens has no similar concepts.
func (x *Index) Similarity(id int64) map[int64]float64 {
	toks := x.table.Tokens(id)
	if len(toks) == 0 {
		return map[int64]float64{}
	}
	return x.similarTo(x.Vector(id), toks, id)
}

// SelfSimilarity returns Cosine(v, v) for a concept, which is |v| / 2.
func (x *Index) SelfSimilarity(id int64) float64 {
	v := x.Vector(id)
	s, _ := Cosine(v, v)
	return s
}

// SimilarityToText scores concepts against a description that is not a
// concept yet, using the idf-weighted token overlap normalised to sum 1.
func (x *Index) SimilarityToText(text string) map[int64]float64 {
	return normalise(x.Overlap(Tokenize(text)))
}

// CosineToText scores concepts against free text with the cosine measure.
func (x *Index) CosineToText(text string) map[int64]float64 {
	toks := Tokenize(text)
	if len(toks) == 0 {
		return map[int64]float64{}
	}
	return x.similarTo(x.table.TextVector(toks, x.total), toks, 0)
}

// Overlap sums tf * idf over the given tokens for every concept that
// contains them. Tokens may repeat; each occurrence counts.
func (x *Index) Overlap(tokens []string) map[int64]float64 {
	out := make(map[int64]float64)
	for _, tok := range tokens {
		idf, ok := x.table.IDF(tok, x.total)
		if !ok {
			continue
		}
		for id, n := range x.table.Postings(tok) {
			out[id] += float64(n) * idf
		}
	}
	return out
}

func (x *Index) similarTo(v Vector, toks []string, self int64) map[int64]float64 {
	out := make(map[int64]float64)
	seen := make(map[int64]struct{})
	for _, tok := range toks {
		for id := range x.table.Postings(tok) {
			if id == self {
				continue
			}
			if _, done := seen[id]; done {
				continue
			}
			seen[id] = struct{}{}
			if s, ok := Cosine(v, x.Vector(id)); ok {
				out[id] = s
			}
		}
	}
	return out
}

// normalise scales values so they sum to 1. A zero or negative total yields
// an empty map.
func normalise(m map[int64]float64) map[int64]float64 {
	var total float64
	for _, v := range m {
		total += v
	}
	if total <= 0 {
		return map[int64]float64{}
	}
	out := make(map[int64]float64, len(m))
	for k, v := range m {
		if v > 0 {
			out[k] = v / total
		}
	}
	return out
}
