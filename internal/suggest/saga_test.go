// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package suggest

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/tomtom215/sage/internal/graph"
	"github.com/tomtom215/sage/internal/testinfra"
)

const tolerance = 1e-9

// sagaFixture: c1-o1, c1-o2, c2-o2. Concept texts share no words.
func sagaFixture(t *testing.T) *testinfra.GraphBuilder {
	t.Helper()
	b := testinfra.NewGraphBuilder(t)
	b.Concept("c1", "alpha")
	b.Concept("c2", "beta")
	b.Object("o1")
	b.Object("o2")
	b.Edge("c1", "o1")
	b.Edge("c1", "o2")
	b.Edge("c2", "o2")
	return b
}

func TestDisperse_ConservesInfluenceAtDepthOne(t *testing.T) {
	b := sagaFixture(t)
	g := b.Graph()
	p := newPropagation(g)

	for _, ref := range []graph.Ref{b.O("o1"), b.O("o2"), b.C("c1"), b.C("c2")} {
		f, err := p.disperse(context.Background(), ref, 6.0, 1)
		if err != nil {
			t.Fatalf("disperse(%v) error = %v", ref, err)
		}
		if got := f.scores.Sum() + f.reserve; math.Abs(got-6.0) > tolerance {
			t.Errorf("disperse(%v): scores+reserve = %v, want 6", ref, got)
		}
	}
}

func TestPropagation_ConservesInfluence(t *testing.T) {
	b := sagaFixture(t)
	p := newPropagation(b.Graph())

	f, err := p.receive(context.Background(), b.O("o1"), 2, 3)
	if err != nil {
		t.Fatalf("receive() error = %v", err)
	}
	if got := f.scores.Sum() + f.reserve; math.Abs(got-2) > tolerance {
		t.Errorf("scores+reserve = %v, want 2", got)
	}
	if want := 29.0 / 18.0; math.Abs(f.reserve-want) > tolerance {
		t.Errorf("reserve = %v, want %v", f.reserve, want)
	}
}

func TestSAGA_Scores(t *testing.T) {
	b := sagaFixture(t)
	g := b.Graph()
	ctx := context.Background()

	tests := []struct {
		name   string
		cutoff Cutoff
		item   string
		want   map[string]float64
	}{
		{
			name:   "threshold drops weak candidate",
			cutoff: CutoffThreshold,
			item:   "o1",
			want:   map[string]float64{"c1": 112.0 / 90.0},
		},
		{
			name:   "refined keeps confirmed links below threshold",
			cutoff: CutoffRefined,
			item:   "o2",
			want:   map[string]float64{"c1": 163.0 / 135.0, "c2": 107.0 / 135.0},
		},
		{
			name:   "threshold on second object",
			cutoff: CutoffThreshold,
			item:   "o2",
			want:   map[string]float64{"c1": 163.0 / 135.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alg := NewSAGA(SAGAConfig{Cutoff: tt.cutoff})
			res, err := alg.Suggest(ctx, g, b.O(tt.item))
			if err != nil {
				t.Fatalf("Suggest() error = %v", err)
			}
			if len(res) != len(tt.want) {
				t.Fatalf("Suggest() = %v, want %d candidates", res, len(tt.want))
			}
			got := res.Scores()
			for name, want := range tt.want {
				if math.Abs(got[b.C(name)]-want) > tolerance {
					t.Errorf("score[%s] = %v, want %v", name, got[b.C(name)], want)
				}
			}
		})
	}
}

func TestSAGA_TextClusterCarriesInfluence(t *testing.T) {
	b := testinfra.NewGraphBuilder(t)
	b.Concept("c1", "red car")
	b.Concept("c2", "blue car")
	b.Concept("c3", "airplane")
	b.Object("o1")
	b.Object("o2")
	b.Edge("c1", "o1")
	b.Edge("c3", "o2")

	alg := NewSAGA(SAGAConfig{Threshold: 1e-9})
	res, err := alg.Suggest(context.Background(), b.Graph(), b.C("c2"))
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if len(res) == 0 || res[0].Ref != b.O("o1") {
		t.Fatalf("Suggest(c2) = %v, want o1 first through the similar concept c1", res)
	}
	if res[0].Score <= res.Scores()[b.O("o2")] {
		t.Errorf("o1 (%v) should outscore o2 (%v)", res[0].Score, res.Scores()[b.O("o2")])
	}
}

func TestSAGA_SuggestionsAreOppositeKind(t *testing.T) {
	b := sagaFixture(t)
	g := b.Graph()
	for _, item := range []graph.Ref{b.C("c1"), b.O("o1")} {
		res, err := NewSAGA(SAGAConfig{Threshold: 1e-9}).Suggest(context.Background(), g, item)
		if err != nil {
			t.Fatalf("Suggest(%v) error = %v", item, err)
		}
		for _, s := range res {
			if s.Ref.Kind != item.Kind.Opposite() {
				t.Errorf("Suggest(%v) returned %v", item, s.Ref)
			}
		}
	}
}

func TestSAGA_UnknownItem(t *testing.T) {
	b := sagaFixture(t)
	_, err := NewSAGA(SAGAConfig{}).Suggest(context.Background(), b.Graph(), graph.ObjectRef(999))
	if !errors.Is(err, graph.ErrNotFound) {
		t.Errorf("Suggest(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestSAGA_Cancelled(t *testing.T) {
	b := sagaFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewSAGA(SAGAConfig{}).Suggest(ctx, b.Graph(), b.O("o1")); !errors.Is(err, context.Canceled) {
		t.Errorf("Suggest() error = %v, want context.Canceled", err)
	}
}

func TestPopular(t *testing.T) {
	b := sagaFixture(t)
	g := b.Graph()

	got := popular(g, graph.KindConcept, 5)
	if math.Abs(got[b.C("c1")]-3) > tolerance || math.Abs(got[b.C("c2")]-2) > tolerance {
		t.Errorf("popular() = %v, want c1=3 c2=2 (degree+1 weights)", got)
	}

	empty := graph.NewGraph(1, []graph.Concept{{ID: 1, Text: "x"}}, nil, nil)
	if got := popular(empty, graph.KindObject, 5); len(got) != 0 {
		t.Errorf("popular(no objects) = %v, want empty", got)
	}
}

func TestCumulativeCutoff(t *testing.T) {
	ranked := Rank(Scores{
		graph.ObjectRef(1): 1.5,
		graph.ObjectRef(2): 0.6,
		graph.ObjectRef(3): 0.3,
		graph.ObjectRef(4): 0.2,
	})

	got := cumulativeCutoff(ranked, 1.0).Refs()
	want := []graph.Ref{graph.ObjectRef(1), graph.ObjectRef(2)}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("cumulativeCutoff() = %v, want %v", got, want)
	}

	if got := cumulativeCutoff(Rank(Scores{graph.ObjectRef(1): 0.4}), 1.0); len(got) != 0 {
		t.Errorf("cumulativeCutoff(all weak) = %v, want empty", got)
	}
}

func TestSAGA_FromCluster(t *testing.T) {
	b := sagaFixture(t)
	g := b.Graph()
	alg := NewSAGA(SAGAConfig{Threshold: 1e-9})

	res, err := alg.SuggestFromCluster(context.Background(), g, map[int64]float64{b.C("c2").ID: 1})
	if err != nil {
		t.Fatalf("SuggestFromCluster() error = %v", err)
	}
	if len(res) == 0 || res[0].Ref != b.O("o2") {
		t.Errorf("SuggestFromCluster(c2) = %v, want o2 first", res)
	}
	if got := res.Scores().Sum(); math.Abs(got-2) > tolerance {
		t.Errorf("total influence = %v, want 2 (object count)", got)
	}
}
