// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package analytics

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tomtom215/sage/internal/graph"
)

// Report bundles every analysis of one container.
type Report struct {
	Container    graph.Container `json:"container"`
	Statistics   Statistics      `json:"statistics"`
	Complexity   Complexity      `json:"complexity"`
	Subgraphs    []int           `json:"subgraph_sizes"`
	Productivity Productivity    `json:"productivity"`
	Acceptance   Acceptance      `json:"acceptance"`
}

// Analyze loads a container and runs every analysis on the snapshot.
func Analyze(ctx context.Context, store graph.Store, containerID int64) (*Report, error) {
	container, err := store.Container(ctx, containerID)
	if err != nil {
		return nil, fmt.Errorf("analyze container %d: %w", containerID, err)
	}
	g, err := graph.Load(ctx, store, containerID)
	if err != nil {
		return nil, fmt.Errorf("analyze container %d: %w", containerID, err)
	}

	groups := Subgraphs(g)
	sizes := make([]int, len(groups))
	for i, group := range groups {
		sizes[i] = len(group)
	}

	return &Report{
		Container:    container,
		Statistics:   Stats(g),
		Complexity:   Measure(g),
		Subgraphs:    sizes,
		Productivity: MeasureProductivity(g),
		Acceptance:   MeasureAcceptance(g),
	}, nil
}

// WriteText renders the report for a terminal.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder
	s, c := r.Statistics, r.Complexity

	fmt.Fprintf(&b, "Statistics for %d - %s\n", r.Container.ID, r.Container.Name)
	fmt.Fprintf(&b, "Contributors: %d, objects: %d, concepts: %d, annotations: %d\n",
		s.Contributors, s.Objects, s.Concepts, s.Annotations)
	writeSummary(&b, "Annotations per object", s.ObjectDegrees)
	writeSummary(&b, "Annotations per concept", s.ConceptDegrees)
	writeSummary(&b, "Words per concept", s.Words)

	b.WriteString("\nCompleteness:\n")
	fmt.Fprintf(&b, "%d (%.2f) are annotated.\n", c.AnnotatedObjects, c.AnnotatedRatio)
	b.WriteString("\nComplexity:\n")
	fmt.Fprintf(&b, "Leaves: %d, Branches: %d, Ratio: %.2f\n", c.Leaves, c.Branches, c.BranchRatio)
	writeDistribution(&b, "Object Annotation Count Distributions", c.ObjectDistribution)
	writeDistribution(&b, "Concept Annotation Count Distributions", c.ConceptDistribution)

	fmt.Fprintf(&b, "\nThere are %d subgraphs in this container.\n", len(r.Subgraphs))
	for i, n := range r.Subgraphs {
		fmt.Fprintf(&b, "Subgraph %d: %d objects.\n", i, n)
	}

	p := r.Productivity
	b.WriteString("\nProductivity:\n")
	fmt.Fprintf(&b, "Count: %d annotations in %d bursts.\n", p.Count, len(p.Bursts))
	fmt.Fprintf(&b, "Period: %.0f seconds.\n", p.Period)
	fmt.Fprintf(&b, "Rate: %.2f annotations per minute.\n", p.Rate)

	a := r.Acceptance
	b.WriteString("\nAcceptance:\n")
	fmt.Fprintf(&b, "Accepted: %d, created: %d, other: %d, ratio: %.2f\n", a.Existing, a.New, a.Other, a.Ratio)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSummary(b *strings.Builder, name string, s Summary) {
	fmt.Fprintf(b, "%s: total %.0f, averaging %.2f (%.0f-%.0f, σ: %.2f)\n",
		name, s.Total, s.Mean, s.Min, s.Max, s.StdDev)
}

func writeDistribution(b *strings.Builder, title string, dist map[int]int) {
	fmt.Fprintf(b, "\n%s:\n", title)
	for d := 1; d <= len(dist); d++ {
		fmt.Fprintf(b, "%d: %d\n", d, dist[d])
	}
}
