// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package suggest

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/sage/internal/graph"
)

func TestBaselines(t *testing.T) {
	b := carFixture(t)
	g := b.Graph()
	ctx := context.Background()

	tests := []struct {
		name string
		alg  Algorithm
		item graph.Ref
		want []graph.Ref
	}{
		{"all scores every opposite item", NewAll(), b.O("o2"), []graph.Ref{b.C("c1"), b.C("c2"), b.C("c3")}},
		{"annotated scores neighbours", NewAnnotated(), b.O("o1"), []graph.Ref{b.C("c1"), b.C("c2")}},
		{"none is empty", NewNone(), b.O("o1"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.alg.Suggest(ctx, g, tt.item)
			if err != nil {
				t.Fatalf("Suggest() error = %v", err)
			}
			if len(res) != len(tt.want) {
				t.Fatalf("Suggest() = %v, want %v", res.Refs(), tt.want)
			}
			for i, ref := range tt.want {
				if res[i].Ref != ref || res[i].Score != 1.0 {
					t.Errorf("res[%d] = %+v, want %v with score 1", i, res[i], ref)
				}
			}
		})
	}
}

func TestShuffle_Deterministic(t *testing.T) {
	b := carFixture(t)
	g := b.Graph()
	ctx := context.Background()

	first, err := NewShuffle(7).Suggest(ctx, g, b.O("o1"))
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	second, _ := NewShuffle(7).Suggest(ctx, g, b.O("o1"))
	if len(first) != 3 {
		t.Fatalf("len(Suggest()) = %d, want 3", len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("same seed gave %v and %v", first, second)
			break
		}
	}
}

func TestBaselines_UnknownItem(t *testing.T) {
	g := carFixture(t).Graph()
	for _, alg := range []Algorithm{NewAll(), NewAnnotated(), NewNone(), NewShuffle(1)} {
		if _, err := alg.Suggest(context.Background(), g, graph.ConceptRef(404)); !errors.Is(err, graph.ErrNotFound) {
			t.Errorf("%s.Suggest(unknown) error = %v, want ErrNotFound", alg.Name(), err)
		}
	}
}
