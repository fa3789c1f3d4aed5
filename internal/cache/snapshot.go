// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/sage/internal/graph"
	"github.com/tomtom215/sage/internal/metrics"
)

// Snapshots caches read-only graph views per container so repeated
// suggestion requests do not reload the container from the store.
// A cached view may be up to ttl old.
type Snapshots struct {
	store graph.Store
	lru   *LRU[int64, *graph.Graph]
	group singleflight.Group
}

// NewSnapshots creates a snapshot cache over store.
func NewSnapshots(store graph.Store, capacity int, ttl time.Duration) *Snapshots {
	return &Snapshots{
		store: store,
		lru:   NewLRU[int64, *graph.Graph](capacity, ttl),
	}
}

// Load returns the cached view of a container, loading it on a miss.
// Concurrent misses for the same container share one load. The shared load
// ignores cancellation so one caller going away does not fail the others;
// each caller still returns as soon as its own ctx is done.
func (s *Snapshots) Load(ctx context.Context, containerID int64) (*graph.Graph, error) {
	if g, ok := s.lru.Get(containerID); ok {
		metrics.RecordSnapshotCache(true)
		return g, nil
	}
	metrics.RecordSnapshotCache(false)

	loadCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(strconv.FormatInt(containerID, 10), func() (any, error) {
		// Another caller may have filled the entry while we waited.
		if g, ok := s.lru.Peek(containerID); ok {
			return g, nil
		}
		g, err := graph.Load(loadCtx, s.store, containerID)
		if err != nil {
			return nil, err
		}
		s.lru.Add(containerID, g)
		return g, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load snapshot %d: %w", containerID, ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, fmt.Errorf("load snapshot %d: %w", containerID, res.Err)
	}

	g, ok := res.Val.(*graph.Graph)
	if !ok {
		return nil, fmt.Errorf("load snapshot %d: unexpected %T", containerID, res.Val)
	}
	return g, nil
}

// Invalidate drops the cached view of a container.
func (s *Snapshots) Invalidate(containerID int64) {
	s.lru.Remove(containerID)
}

// Prune drops expired views and returns how many were dropped.
func (s *Snapshots) Prune() int {
	return s.lru.CleanupExpired()
}

// Stats returns hit and miss counts and the number of cached views.
func (s *Snapshots) Stats() (hits, misses int64, size int) {
	return s.lru.Stats()
}
