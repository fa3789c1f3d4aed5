// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package suggest

import (
	"context"
	"fmt"
	"sort"

	"github.com/tomtom215/sage/internal/graph"
	"github.com/tomtom215/sage/internal/textindex"
)

// Cutoff selects how weak SAGA candidates are filtered.
type Cutoff int

const (
	// CutoffThreshold keeps candidates scoring at least the threshold.
	CutoffThreshold Cutoff = iota

	// CutoffRefined also keeps candidates already linked to the item.
	CutoffRefined

	// CutoffCumulative sorts ascending and drops the longest prefix whose
	// running total stays below the threshold.
	CutoffCumulative
)

// SAGAConfig configures a SAGA variant.
type SAGAConfig struct {
	Name string
	// Hops should be odd; Config.Validate rejects even budgets.
	Hops      int
	Threshold float64
	Cutoff    Cutoff
}

// SAGA propagates influence from an item across the graph and ranks the
// opposite-type items by the influence they end up holding.
//
// Each allocation splits influence into deg+1 shares: one share goes to a
// popularity reserve and the rest travel to neighbours with one hop less.
// Concepts first spread their influence over textually similar concepts.
// When the hop budget is spent, the reserve is spread over every candidate
// in proportion to degree+1.
type SAGA struct {
	name      string
	hops      int
	threshold float64
	cutoff    Cutoff
}

var _ Algorithm = (*SAGA)(nil)

// NewSAGA creates a SAGA variant. Zero values take the defaults.
func NewSAGA(cfg SAGAConfig) *SAGA {
	if cfg.Name == "" {
		cfg.Name = string(KindSAGA)
	}
	if cfg.Hops <= 0 {
		cfg.Hops = DefaultHops
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	return &SAGA{
		name:      cfg.Name,
		hops:      cfg.Hops,
		threshold: cfg.Threshold,
		cutoff:    cfg.Cutoff,
	}
}

// Name returns the registry key.
func (s *SAGA) Name() string { return s.name }

// Suggest runs the propagation for one item.
func (s *SAGA) Suggest(ctx context.Context, g *graph.Graph, item graph.Ref) (Result, error) {
	if !g.Contains(item) {
		return nil, fmt.Errorf("suggest %s: %w", item, graph.ErrNotFound)
	}

	p := newPropagation(g)
	influence := float64(g.Count(item.Kind.Opposite()))
	f, err := p.receive(ctx, item, influence, s.hops)
	if err != nil {
		return nil, err
	}

	scores := Merge(f.scores, popular(g, item.Kind.Opposite(), f.reserve))
	return s.filter(g, item, scores), nil
}

// SuggestFromCluster seeds propagation from a weighted set of concepts
// instead of a single item. Used for descriptions not saved as concepts yet.
// The result holds objects.
func (s *SAGA) SuggestFromCluster(ctx context.Context, g *graph.Graph, cluster map[int64]float64) (Result, error) {
	p := newPropagation(g)
	influence := float64(g.Count(graph.KindObject))
	f, err := p.spread(ctx, cluster, influence, s.hops)
	if err != nil {
		return nil, err
	}
	scores := Merge(f.scores, popular(g, graph.KindObject, f.reserve))
	// A free-text seed has no confirmed links; refined filtering degrades to the threshold.
	return s.filter(nil, graph.Ref{}, scores), nil
}

func (s *SAGA) filter(g *graph.Graph, item graph.Ref, scores Scores) Result {
	switch s.cutoff {
	case CutoffRefined:
		var related map[graph.Ref]struct{}
		if g != nil {
			related = g.Related(item)
		}
		kept := make(Scores, len(scores))
		for ref, v := range scores {
			_, confirmed := related[ref]
			if v >= s.threshold || confirmed {
				kept[ref] = v
			}
		}
		return Rank(kept)
	case CutoffCumulative:
		return cumulativeCutoff(Rank(scores), s.threshold)
	default:
		kept := make(Scores, len(scores))
		for ref, v := range scores {
			if v >= s.threshold {
				kept[ref] = v
			}
		}
		return Rank(kept)
	}
}

// cumulativeCutoff drops the weakest entries of a ranked list while their
// running total stays below threshold.
func cumulativeCutoff(ranked Result, threshold float64) Result {
	var running float64
	keep := len(ranked)
	for i := len(ranked) - 1; i >= 0; i-- {
		running += ranked[i].Score
		if running >= threshold {
			break
		}
		keep = i
	}
	return ranked[:keep]
}

// flow is the outcome of one propagation step.
type flow struct {
	scores  Scores
	reserve float64
}

func join(parts ...flow) flow {
	out := flow{}
	all := make([]Scores, len(parts))
	for i, p := range parts {
		all[i] = p.scores
		out.reserve += p.reserve
	}
	out.scores = MergeAll(all...)
	return out
}

// propagation holds the per-request graph snapshot and a lazily built text index.
type propagation struct {
	g        *graph.Graph
	index    *textindex.Index
	clusters map[int64]map[int64]float64
}

func newPropagation(g *graph.Graph) *propagation {
	return &propagation{g: g, clusters: make(map[int64]map[int64]float64)}
}

func (p *propagation) receive(ctx context.Context, ref graph.Ref, influence float64, hops int) (flow, error) {
	if hops <= 0 {
		return flow{scores: Scores{ref: influence}}, nil
	}
	return p.allocate(ctx, ref, influence, hops)
}

func (p *propagation) allocate(ctx context.Context, ref graph.Ref, influence float64, hops int) (flow, error) {
	if ref.Kind != graph.KindConcept {
		return p.disperse(ctx, ref, influence, hops)
	}
	cluster := p.cluster(ref.ID)
	var total float64
	for _, w := range cluster {
		total += w
	}
	if total <= 0 {
		return p.disperse(ctx, ref, influence, hops)
	}
	return p.spread(ctx, cluster, influence, hops)
}

// spread hands each cluster member a share of influence proportional to its
// weight; members disperse at the same hop count.
func (p *propagation) spread(ctx context.Context, cluster map[int64]float64, influence float64, hops int) (flow, error) {
	var total float64
	ids := make([]int64, 0, len(cluster))
	for id, w := range cluster {
		total += w
		ids = append(ids, id)
	}
	if total <= 0 {
		return flow{reserve: influence}, nil
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]flow, 0, len(ids))
	for _, id := range ids {
		f, err := p.disperse(ctx, graph.ConceptRef(id), cluster[id]*influence/total, hops)
		if err != nil {
			return flow{}, err
		}
		parts = append(parts, f)
	}
	return join(parts...), nil
}

func (p *propagation) disperse(ctx context.Context, ref graph.Ref, influence float64, hops int) (flow, error) {
	if err := ctx.Err(); err != nil {
		return flow{}, err
	}
	neighbors := p.g.Neighbors(ref)
	share := influence / float64(len(neighbors)+1)

	parts := make([]flow, 0, len(neighbors)+1)
	parts = append(parts, flow{reserve: share})
	for _, n := range neighbors {
		f, err := p.receive(ctx, n, share, hops-1)
		if err != nil {
			return flow{}, err
		}
		parts = append(parts, f)
	}
	return join(parts...), nil
}

// cluster returns a concept's textual neighbourhood including itself.
func (p *propagation) cluster(id int64) map[int64]float64 {
	if c, ok := p.clusters[id]; ok {
		return c
	}
	if p.index == nil {
		p.index = textindex.FromGraph(p.g)
	}
	c := p.index.Similarity(id)
	if self := p.index.SelfSimilarity(id); self > 0 {
		c[id] = self
	}
	p.clusters[id] = c
	return c
}

// popular spreads reserve over every item of kind weighted by degree+1.
func popular(g *graph.Graph, kind graph.Kind, reserve float64) Scores {
	items := g.Items(kind)
	if len(items) == 0 || reserve == 0 {
		return Scores{}
	}
	var total float64
	for _, ref := range items {
		total += float64(g.Degree(ref) + 1)
	}
	out := make(Scores, len(items))
	for _, ref := range items {
		out[ref] = reserve * float64(g.Degree(ref)+1) / total
	}
	return out
}
