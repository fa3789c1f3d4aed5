// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/sage/internal/evaluation"
)

// Evaluator runs one evaluation of a container. *evaluation.Harness
// satisfies it.
type Evaluator interface {
	Evaluate(ctx context.Context, containerID int64, fraction float64, trials int) (*evaluation.Report, error)
}

// EvaluationServiceConfig holds configuration for scheduled evaluation.
type EvaluationServiceConfig struct {
	// Containers are evaluated in order on every run.
	Containers []int64

	Fraction float64
	Trials   int

	// RunOnStartup evaluates once before the first tick.
	RunOnStartup bool

	// Interval between runs. Default: 24h
	Interval time.Duration

	// RunTimeout bounds a single container evaluation. Default: 30m
	RunTimeout time.Duration
}

// EvaluationService re-runs the configured evaluation on a schedule and
// keeps the latest report per container.
type EvaluationService struct {
	evaluator Evaluator
	config    EvaluationServiceConfig
	logger    zerolog.Logger
	name      string

	mu     sync.RWMutex
	latest map[int64]*evaluation.Report
}

// NewEvaluationService creates a new scheduled evaluation service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEvaluationService(evaluator Evaluator, cfg EvaluationServiceConfig, logger zerolog.Logger) *EvaluationService {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 30 * time.Minute
	}
	return &EvaluationService{
		evaluator: evaluator,
		config:    cfg,
		logger:    logger.With().Str("service", "evaluation").Logger(),
		name:      "evaluation-service",
		latest:    make(map[int64]*evaluation.Report),
	}
}

// Serve implements suture.Service. With no containers configured there is
// nothing to schedule and the service asks not to be restarted.
func (s *EvaluationService) Serve(ctx context.Context) error {
	if len(s.config.Containers) == 0 {
		s.logger.Warn().Msg("no containers configured, scheduled evaluation disabled")
		return suture.ErrDoNotRestart
	}

	s.logger.Info().
		Ints64("containers", s.config.Containers).
		Bool("run_on_startup", s.config.RunOnStartup).
		Dur("interval", s.config.Interval).
		Msg("evaluation service starting")

	if s.config.RunOnStartup {
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("initial evaluation failed (will retry on schedule)")
		}
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("evaluation service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.logger.Debug().Msg("scheduled evaluation triggered")
			if err := s.RunOnce(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled evaluation failed")
			}
		}
	}
}

// RunOnce evaluates every configured container. A failing container does
// not stop the others; all failures are returned joined.
func (s *EvaluationService) RunOnce(ctx context.Context) error {
	var errs []error
	for _, id := range s.config.Containers {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if err := s.evaluate(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("container %d: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

func (s *EvaluationService) evaluate(ctx context.Context, containerID int64) error {
	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	start := time.Now()
	report, err := s.evaluator.Evaluate(runCtx, containerID, s.config.Fraction, s.config.Trials)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.latest[containerID] = report
	s.mu.Unlock()

	s.logger.Info().
		Int64("container_id", containerID).
		Str("run_id", report.RunID).
		Int("items", report.Items).
		Dur("duration", time.Since(start)).
		Msg("evaluation complete")
	return nil
}

// Latest returns the most recent report for a container.
func (s *EvaluationService) Latest(containerID int64) (*evaluation.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.latest[containerID]
	return r, ok
}

// LatestReports returns the most recent report of every evaluated
// container, ordered by container ID.
func (s *EvaluationService) LatestReports() []*evaluation.Report {
	s.mu.RLock()
	out := make([]*evaluation.Report, 0, len(s.latest))
	for _, r := range s.latest {
		out = append(out, r)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ContainerID < out[j].ContainerID })
	return out
}

// String returns the service name for logging.
func (s *EvaluationService) String() string {
	return s.name
}
