// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Pruner drops expired cache entries. Implemented by *cache.Snapshots.
type Pruner interface {
	Prune() int
}

// CachePruneService periodically frees expired snapshot views so idle
// containers do not hold memory until their slot is reused.
type CachePruneService struct {
	cache    Pruner
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewCachePruneService prunes c every interval; interval <= 0 means one minute.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCachePruneService(c Pruner, interval time.Duration, logger zerolog.Logger) *CachePruneService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CachePruneService{
		cache:    c,
		interval: interval,
		logger:   logger.With().Str("service", "cache-prune").Logger(),
		name:     "cache-prune-service",
	}
}

// Serve implements suture.Service.
func (s *CachePruneService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := s.cache.Prune(); n > 0 {
				s.logger.Debug().Int("pruned", n).Msg("expired snapshots pruned")
			}
		}
	}
}

// String returns the service name for logging.
func (s *CachePruneService) String() string {
	return s.name
}
