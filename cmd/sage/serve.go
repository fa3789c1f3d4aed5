// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/sage/internal/api"
	"github.com/tomtom215/sage/internal/cache"
	"github.com/tomtom215/sage/internal/config"
	"github.com/tomtom215/sage/internal/evaluation"
	"github.com/tomtom215/sage/internal/graph"
	"github.com/tomtom215/sage/internal/logging"
	"github.com/tomtom215/sage/internal/suggest"
	"github.com/tomtom215/sage/internal/supervisor"
	"github.com/tomtom215/sage/internal/supervisor/services"
)

func newServeCmd(a *app) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and Prometheus metrics, and run scheduled evaluations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context(), watch)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch-config", true, "reload the log level when the --config file changes")
	return cmd
}

func (a *app) serve(ctx context.Context, watch bool) error {
	cfg := a.cfg
	logging.Info().
		Str("driver", cfg.Database.Driver).
		Str("addr", cfg.Server.Addr()).
		Bool("scheduled_evaluation", cfg.Evaluation.Enabled).
		Msg("Starting Sage with supervisor tree")

	store, closeStore, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	engine, err := suggest.NewEngine(store, cfg.Suggest.Engine(), a.logger)
	if err != nil {
		return err
	}

	// Bridges zerolog to slog for sutureslog.
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	var reports api.ReportSource
	if cfg.Evaluation.Enabled {
		evalSvc, err := newEvaluationService(store, cfg, a)
		if err != nil {
			return err
		}
		tree.AddEvaluationService(evalSvc)
		reports = evalSvc
	}

	if watch && a.configPath != "" {
		tree.AddMaintenanceService(services.NewConfigWatchService(a.configPath, nil, a.logger))
	}

	handler := api.NewHandler(store, engine, reports)
	if cfg.Server.SnapshotTTL > 0 {
		snapshots := cache.NewSnapshots(store, cfg.Server.SnapshotCapacity, cfg.Server.SnapshotTTL)
		handler.WithSnapshots(snapshots)
		tree.AddMaintenanceService(services.NewCachePruneService(snapshots, cfg.Server.SnapshotTTL, a.logger))
	}

	if cfg.Server.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(&cfg.Server, handler),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, a.logger))

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	} else {
		serveErr = nil
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Sage stopped")
	return serveErr
}

// newEvaluationService builds the scheduled evaluation from the
// evaluation config section.
func newEvaluationService(store graph.Store, cfg *config.Config, a *app) (*services.EvaluationService, error) {
	ec := cfg.Evaluation
	harness, err := evaluation.NewHarness(store, evaluation.Options{
		Algorithms: ec.Algorithms,
		Domain:     ec.DomainKind(),
		Seed:       ec.Seed,
		Suggest:    cfg.Suggest.Engine(),
	}, a.logger)
	if err != nil {
		return nil, err
	}
	return services.NewEvaluationService(harness, services.EvaluationServiceConfig{
		Containers:   ec.Containers,
		Fraction:     ec.TrainFraction,
		Trials:       ec.Trials,
		RunOnStartup: true,
		Interval:     ec.Interval,
	}, a.logger), nil
}
