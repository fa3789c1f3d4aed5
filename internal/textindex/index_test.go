// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package textindex

import (
	"math"
	"testing"

	"github.com/tomtom215/sage/internal/graph"
)

const tolerance = 1e-9

func carConcepts() []graph.Concept {
	return []graph.Concept{
		{ID: 1, Text: "red car"},
		{ID: 2, Text: "blue car"},
		{ID: 3, Text: "airplane"},
	}
}

func TestTable_TFIDF(t *testing.T) {
	table := BuildTable(carConcepts())

	tests := []struct {
		name  string
		token string
		id    int64
		want  float64
	}{
		{"unique token", "red", 1, math.Log(3)},
		{"shared token", "car", 2, math.Log(1.5)},
		{"token not in concept", "red", 2, 0},
		{"unknown token", "boat", 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.TFIDF(tt.token, tt.id, 3); math.Abs(got-tt.want) > tolerance {
				t.Errorf("TFIDF(%q, %d) = %v, want %v", tt.token, tt.id, got, tt.want)
			}
		})
	}

	if _, ok := table.IDF("boat", 3); ok {
		t.Error("IDF(boat) ok = true, want false for absent token")
	}
}

func TestTable_TermFrequency(t *testing.T) {
	table := BuildTable([]graph.Concept{{ID: 1, Text: "car car"}, {ID: 2, Text: "boat"}})
	if got, want := table.TFIDF("car", 1, 2), 2*math.Log(2); math.Abs(got-want) > tolerance {
		t.Errorf("TFIDF(car) = %v, want %v", got, want)
	}
	if got := len(table.Vector(1, 2)); got != 1 {
		t.Errorf("len(Vector(1)) = %d, want 1", got)
	}
}

func TestIndex_Similarity(t *testing.T) {
	idx := New(carConcepts())

	sim := idx.Similarity(1)
	if len(sim) != 1 {
		t.Fatalf("Similarity(1) = %v, want only concept 2", sim)
	}

	l3, l15 := math.Log(3), math.Log(1.5)
	norm := math.Sqrt(l3*l3 + l15*l15)
	want := (l15 * l15) / (norm + norm)
	if got := sim[2]; math.Abs(got-want) > tolerance {
		t.Errorf("Similarity(1)[2] = %v, want %v (sum-of-norms cosine)", got, want)
	}

	if got := idx.Similarity(3); len(got) != 0 {
		t.Errorf("Similarity(3) = %v, want empty", got)
	}
}

func TestIndex_SimilarityNoTokens(t *testing.T) {
	idx := New([]graph.Concept{{ID: 1, Text: "?!"}, {ID: 2, Text: "car"}})
	if got := idx.Similarity(1); len(got) != 0 {
		t.Errorf("Similarity(no tokens) = %v, want empty", got)
	}
	if got := idx.Similarity(99); len(got) != 0 {
		t.Errorf("Similarity(unknown) = %v, want empty", got)
	}
}

func TestIndex_ZeroNormExcluded(t *testing.T) {
	// "car" appears everywhere, so idf is 0 and every vector is zero.
	idx := New([]graph.Concept{{ID: 1, Text: "car"}, {ID: 2, Text: "car"}})
	if got := idx.Similarity(1); len(got) != 0 {
		t.Errorf("Similarity() = %v, want empty when norms are zero", got)
	}
}

func TestIndex_SelfSimilarity(t *testing.T) {
	idx := New(carConcepts())
	v := idx.Vector(1)
	if got, want := idx.SelfSimilarity(1), v.Norm()/2; math.Abs(got-want) > tolerance {
		t.Errorf("SelfSimilarity(1) = %v, want %v", got, want)
	}
}

func TestIndex_SimilarityToText(t *testing.T) {
	idx := New(carConcepts())

	got := idx.SimilarityToText("A fast red car")
	var sum float64
	for _, v := range got {
		sum += v
	}
	if math.Abs(sum-1) > tolerance {
		t.Errorf("sum(SimilarityToText) = %v, want 1", sum)
	}
	if got[1] <= got[2] {
		t.Errorf("concept 1 (%v) should outscore concept 2 (%v)", got[1], got[2])
	}
	if _, ok := got[3]; ok {
		t.Error("airplane should not match")
	}

	if got := idx.SimilarityToText("submarine"); len(got) != 0 {
		t.Errorf("SimilarityToText(unknown words) = %v, want empty", got)
	}
}

func TestIndex_CosineToText(t *testing.T) {
	idx := New(carConcepts())
	got := idx.CosineToText("red car")
	want := idx.SelfSimilarity(1)
	if math.Abs(got[1]-want) > tolerance {
		t.Errorf("CosineToText(red car)[1] = %v, want %v", got[1], want)
	}
}
