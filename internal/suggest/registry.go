// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/sage/internal/graph"
)

// ErrUnknownAlgorithm is returned by Lookup for names outside the registry.
var ErrUnknownAlgorithm = errors.New("unknown suggestion algorithm")

// Algorithm scores opposite-type candidates for one item of a graph snapshot.
type Algorithm interface {
	// Name returns the registry key the algorithm was built for.
	Name() string

	// Suggest ranks candidates for item. The item must belong to g.
	Suggest(ctx context.Context, g *graph.Graph, item graph.Ref) (Result, error)
}

// Kind is a registry key selecting one algorithm variant.
type Kind string

const (
	KindSAGA           Kind = "SAGA"
	KindSAGARefined    Kind = "SAGA-Refined"
	KindSAGACumulative Kind = "SAGA-Cumulative"
	KindVote           Kind = "Vote"
	KindVotePlus       Kind = "VotePlus"
	KindSum            Kind = "Sum"
	KindSumPlus        Kind = "SumPlus"
	KindAll            Kind = "All"
	KindAnnotated      Kind = "Annotated"
	KindShuffle        Kind = "Shuffle"
	KindNone           Kind = "None"

	// DefaultKind is used when a name does not resolve.
	DefaultKind = KindSAGA
)

// aliases maps legacy names onto registry keys.
var aliases = map[string]Kind{
	"baseline": KindAll,
}

var kinds = []Kind{
	KindSAGA, KindSAGARefined, KindSAGACumulative,
	KindVote, KindVotePlus, KindSum, KindSumPlus,
	KindAll, KindAnnotated, KindShuffle, KindNone,
}

// Kinds returns every registry key in display order.
func Kinds() []Kind {
	return append([]Kind(nil), kinds...)
}

// Lookup resolves a name strictly. Matching ignores case and surrounding space.
func Lookup(name string) (Kind, error) {
	trimmed := strings.TrimSpace(name)
	for _, k := range kinds {
		if strings.EqualFold(string(k), trimmed) {
			return k, nil
		}
	}
	if k, ok := aliases[strings.ToLower(trimmed)]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// Resolve maps a name to a registry key, falling back to DefaultKind.
func Resolve(name string) Kind {
	k, err := Lookup(name)
	if err != nil {
		return DefaultKind
	}
	return k
}

// String returns the registry key.
func (k Kind) String() string { return string(k) }

// New builds the algorithm registered under kind.
// Unknown kinds build DefaultKind.
func New(kind Kind, cfg Config) Algorithm {
	cfg = cfg.withDefaults()
	switch kind {
	case KindSAGA:
		return NewSAGA(SAGAConfig{Name: string(kind), Hops: cfg.Hops, Threshold: cfg.Threshold, Cutoff: CutoffThreshold})
	case KindSAGARefined:
		return NewSAGA(SAGAConfig{Name: string(kind), Hops: cfg.Hops, Threshold: cfg.Threshold, Cutoff: CutoffRefined})
	case KindSAGACumulative:
		return NewSAGA(SAGAConfig{Name: string(kind), Hops: cfg.Hops, Threshold: cfg.Threshold, Cutoff: CutoffCumulative})
	case KindVote:
		return NewCoOccurrence(string(kind), ModeVote, cfg.Vote)
	case KindVotePlus:
		return NewCoOccurrence(string(kind), ModeVote, cfg.VotePlus)
	case KindSum:
		return NewCoOccurrence(string(kind), ModeSum, cfg.Sum)
	case KindSumPlus:
		return NewCoOccurrence(string(kind), ModeSum, cfg.SumPlus)
	case KindAll:
		return NewAll()
	case KindAnnotated:
		return NewAnnotated()
	case KindShuffle:
		return NewShuffle(cfg.Seed)
	case KindNone:
		return NewNone()
	default:
		return New(DefaultKind, cfg)
	}
}
