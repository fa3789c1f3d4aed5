// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package analytics

import (
	"sort"
	"time"

	"github.com/tomtom215/sage/internal/graph"
)

// BurstGap is the longest pause between two annotations of the same burst.
const BurstGap = 2 * time.Minute

// Burst is a run of annotations made without a pause longer than BurstGap.
type Burst struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Count int       `json:"count"`
}

// Duration returns the time between the first and last annotation.
func (b Burst) Duration() time.Duration { return b.End.Sub(b.Start) }

// Productivity summarises annotation bursts.
type Productivity struct {
	Bursts []Burst `json:"bursts"`

	// Count is the number of annotations inside bursts.
	Count int `json:"count"`

	// Period is the summed burst duration in seconds.
	Period float64 `json:"period_seconds"`

	// Rate is annotations per minute while inside a burst.
	Rate float64 `json:"rate_per_minute"`
}

// FindBursts groups edges by creation time. Bursts of a single annotation are dropped.
func FindBursts(edges []graph.Edge, gap time.Duration) []Burst {
	times := make([]time.Time, 0, len(edges))
	for _, e := range edges {
		times = append(times, e.CreatedAt)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	var all []Burst
	for _, t := range times {
		if n := len(all); n > 0 && !t.After(all[n-1].End.Add(gap)) {
			all[n-1].End = t
			all[n-1].Count++
			continue
		}
		all = append(all, Burst{Start: t, End: t, Count: 1})
	}

	bursts := all[:0]
	for _, b := range all {
		if b.Count > 1 {
			bursts = append(bursts, b)
		}
	}
	return bursts
}

// MeasureProductivity computes productivity from a graph snapshot's edges.
func MeasureProductivity(g *graph.Graph) Productivity {
	p := Productivity{Bursts: FindBursts(g.Edges(), BurstGap)}
	for _, b := range p.Bursts {
		p.Count += b.Count
		p.Period += b.Duration().Seconds()
	}
	if p.Period > 0 {
		p.Rate = float64(p.Count) * 60 / p.Period
	}
	return p
}
