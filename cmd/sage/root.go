// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tomtom215/sage/internal/config"
	"github.com/tomtom215/sage/internal/database"
	"github.com/tomtom215/sage/internal/graph"
	"github.com/tomtom215/sage/internal/logging"
)

// app carries what every command needs once the root command has run.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:               "sage",
		Short:             "Annotation suggestion and evaluation engine",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default $CONFIG_PATH or ./config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override logging.level")

	root.AddCommand(
		newImportCmd(a),
		newExportCmd(a),
		newSuggestCmd(a),
		newEvaluateCmd(a),
		newStatsCmd(a),
		newServeCmd(a),
	)
	return root
}

// setup loads the configuration and initializes logging.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		if !logging.ValidLevel(a.logLevel) {
			return fmt.Errorf("invalid --log-level %q", a.logLevel)
		}
		cfg.Logging.Level = a.logLevel
	}

	lc := cfg.Logging.Logging()
	lc.Output = cmd.ErrOrStderr()
	logging.Init(lc)

	a.cfg = cfg
	a.logger = logging.Logger()
	return nil
}

// openStore opens the configured store. The returned close function logs
// instead of failing so it can be deferred.
func (a *app) openStore() (graph.Store, func(), error) {
	store, closeFn, err := database.Open(&a.cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", a.cfg.Database.Driver, err)
	}
	a.logger.Debug().
		Str("driver", a.cfg.Database.Driver).
		Str("path", a.cfg.Database.Path).
		Msg("Store opened")

	return store, func() {
		if err := closeFn(); err != nil {
			a.logger.Error().Err(err).Msg("Error closing store")
		}
	}, nil
}
