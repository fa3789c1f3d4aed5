// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package suggest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/sage/internal/graph"
	"github.com/tomtom215/sage/internal/metrics"
	"github.com/tomtom215/sage/internal/textindex"
)

// Engine answers suggestion requests against a Store.
// Each request loads one graph snapshot; algorithms never query the store.
// It is safe for concurrent use.
type Engine struct {
	store  graph.Store
	config Config
	logger zerolog.Logger

	mu         sync.Mutex
	algorithms map[Kind]Algorithm
}

// NewEngine creates an engine. Zero config fields take the defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(store graph.Store, cfg Config, logger zerolog.Logger) (*Engine, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Engine{
		store:      store,
		config:     cfg,
		logger:     logger.With().Str("component", "suggest").Logger(),
		algorithms: make(map[Kind]Algorithm),
	}, nil
}

// Algorithm returns the shared instance registered under kind.
func (e *Engine) Algorithm(kind Kind) Algorithm {
	e.mu.Lock()
	defer e.mu.Unlock()

	if alg, ok := e.algorithms[kind]; ok {
		return alg
	}
	alg := New(kind, e.config)
	e.algorithms[kind] = alg
	return alg
}

// ResolveFor picks the algorithm for a request: the explicit name, then the
// container's preference, then the configured default.
func (e *Engine) ResolveFor(container graph.Container, name string) Kind {
	switch {
	case name != "":
		return Resolve(name)
	case container.Algorithm != "":
		return Resolve(container.Algorithm)
	default:
		return Resolve(e.config.Default)
	}
}

// Suggest ranks candidates for item using the named algorithm.
func (e *Engine) Suggest(ctx context.Context, containerID int64, item graph.Ref, name string) (Result, error) {
	container, err := e.store.Container(ctx, containerID)
	if err != nil {
		return nil, fmt.Errorf("get container: %w", err)
	}
	kind := e.ResolveFor(container, name)

	g, err := graph.Load(ctx, e.store, containerID)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, e.Algorithm(kind), g, item)
}

// SuggestWith runs an algorithm on an already loaded snapshot.
func (e *Engine) SuggestWith(ctx context.Context, kind Kind, g *graph.Graph, item graph.Ref) (Result, error) {
	return e.run(ctx, e.Algorithm(kind), g, item)
}

// SuggestForText suggests objects for a concept description that has not
// been saved yet. Similar concepts seed the propagation in proportion to
// their idf-weighted word overlap with text.
func (e *Engine) SuggestForText(ctx context.Context, containerID int64, text string) (Result, error) {
	g, err := graph.Load(ctx, e.store, containerID)
	if err != nil {
		return nil, err
	}
	return e.SuggestTextWith(ctx, g, text)
}

// SuggestTextWith is SuggestForText on an already loaded snapshot.
func (e *Engine) SuggestTextWith(ctx context.Context, g *graph.Graph, text string) (Result, error) {
	start := time.Now()
	cluster := textindex.FromGraph(g).SimilarityToText(text)
	saga := NewSAGA(SAGAConfig{
		Name:      string(KindSAGA),
		Hops:      e.config.Hops,
		Threshold: e.config.Threshold,
		Cutoff:    CutoffThreshold,
	})
	res, err := saga.SuggestFromCluster(ctx, g, cluster)
	metrics.RecordSuggestion("SAGA-Text", time.Since(start), len(res), err)
	if err != nil {
		return nil, err
	}

	e.logger.Debug().
		Int64("container_id", g.ContainerID()).
		Int("cluster", len(cluster)).
		Int("suggestions", len(res)).
		Msg("free-text suggestion complete")
	return res, nil
}

func (e *Engine) run(ctx context.Context, alg Algorithm, g *graph.Graph, item graph.Ref) (Result, error) {
	start := time.Now()
	res, err := alg.Suggest(ctx, g, item)
	metrics.RecordSuggestion(alg.Name(), time.Since(start), len(res), err)
	if err != nil {
		e.logger.Debug().Err(err).
			Str("algorithm", alg.Name()).
			Stringer("item", item).
			Msg("suggestion failed")
		return nil, err
	}

	e.logger.Debug().
		Str("algorithm", alg.Name()).
		Stringer("item", item).
		Int("suggestions", len(res)).
		Dur("latency", time.Since(start)).
		Msg("suggestion complete")
	return res, nil
}
