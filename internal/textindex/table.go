// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package textindex

import (
	"math"

	"github.com/tomtom215/sage/internal/graph"
)

// Table is the word table of one container: token -> concept ID -> occurrences.
type Table struct {
	postings map[string]map[int64]int
	tokens   map[int64][]string
}

// BuildTable tokenizes every concept and records per-token occurrence counts.
// The table is rebuilt on every call; nothing is cached across containers.
func BuildTable(concepts []graph.Concept) *Table {
	t := &Table{
		postings: make(map[string]map[int64]int),
		tokens:   make(map[int64][]string, len(concepts)),
	}
	for _, c := range concepts {
		toks := Tokenize(c.Text)
		t.tokens[c.ID] = toks
		for _, tok := range toks {
			p, ok := t.postings[tok]
			if !ok {
				p = make(map[int64]int)
				t.postings[tok] = p
			}
			p[c.ID]++
		}
	}
	return t
}

// Tokens returns the tokenization recorded for a concept.
func (t *Table) Tokens(id int64) []string { return t.tokens[id] }

// Postings returns the concepts containing token with their occurrence counts.
// The returned map must not be modified.
func (t *Table) Postings(token string) map[int64]int { return t.postings[token] }

// Len returns the number of distinct tokens.
func (t *Table) Len() int { return len(t.postings) }

// IDF returns ln(total / documents containing token).
// The second return is false when the token is not in the table.
func (t *Table) IDF(token string, total int) (float64, bool) {
	p, ok := t.postings[token]
	if !ok || len(p) == 0 || total <= 0 {
		return 0, false
	}
	return math.Log(float64(total) / float64(len(p))), true
}

// TFIDF returns tf * idf for token in concept id. Absent tokens score 0.
func (t *Table) TFIDF(token string, id int64, total int) float64 {
	idf, ok := t.IDF(token, total)
	if !ok {
		return 0
	}
	return float64(t.postings[token][id]) * idf
}

// Vector returns the tf-idf weight of every token in a concept's own text.
func (t *Table) Vector(id int64, total int) Vector {
	toks := t.tokens[id]
	v := make(Vector, len(toks))
	for _, tok := range toks {
		if _, seen := v[tok]; seen {
			continue
		}
		v[tok] = t.TFIDF(tok, id, total)
	}
	return v
}

// TextVector weights free text against the table: tf counts come from the
// text itself and idf from the table. Tokens unknown to the table are dropped.
func (t *Table) TextVector(tokens []string, total int) Vector {
	tf := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		tf[tok]++
	}
	v := make(Vector, len(tf))
	for tok, n := range tf {
		if idf, ok := t.IDF(tok, total); ok {
			v[tok] = float64(n) * idf
		}
	}
	return v
}

// Vector maps token -> tf-idf weight.
type Vector map[string]float64

// Norm returns the Euclidean norm.
func (v Vector) Norm() float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Dot returns the dot product of two vectors.
func (v Vector) Dot(o Vector) float64 {
	if len(o) < len(v) {
		v, o = o, v
	}
	var sum float64
	for tok, w := range v {
		sum += w * o[tok]
	}
	return sum
}

// Cosine returns dot(v, o) / (|v| + |o|). The denominator is the sum of the
// norms, not their product. ok is false when either norm is zero.
func Cosine(v, o Vector) (score float64, ok bool) {
	nv, no := v.Norm(), o.Norm()
	if nv == 0 || no == 0 {
		return 0, false
	}
	return v.Dot(o) / (nv + no), true
}
