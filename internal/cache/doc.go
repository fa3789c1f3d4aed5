// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

/*
Package cache provides in-memory caching for the HTTP API.

LRU is a generic, thread-safe least recently used cache with a TTL per
entry. Snapshots builds on it to keep recently used graph.Graph views so a
burst of suggestion requests against one container reads the store once:

	snapshots := cache.NewSnapshots(store, cfg.Server.SnapshotCapacity, cfg.Server.SnapshotTTL)
	g, err := snapshots.Load(ctx, containerID)

Concurrent misses for the same container are collapsed with singleflight.
Lookups are counted in sage_snapshot_cache_requests_total{result="hit|miss"}.

Views are immutable, so a cached view is safe to share between requests.
Writes made to the store after a view was loaded become visible once the
entry expires or Invalidate is called.
*/
package cache
