// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomtom215/sage/internal/config"
	"github.com/tomtom215/sage/internal/logging"
)

// ConfigWatchService reloads the config file when it changes and applies
// the settings that can change at runtime. Only the log level is live;
// everything else needs a restart.
type ConfigWatchService struct {
	path   string
	apply  func(*config.Config)
	logger zerolog.Logger
	name   string
}

// NewConfigWatchService watches path. apply is called with every
// successfully loaded configuration; nil applies the log level only.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewConfigWatchService(path string, apply func(*config.Config), logger zerolog.Logger) *ConfigWatchService {
	if apply == nil {
		apply = ApplyLogLevel
	}
	return &ConfigWatchService{
		path:   path,
		apply:  apply,
		logger: logger.With().Str("service", "config-watch").Str("path", path).Logger(),
		name:   "config-watch-service",
	}
}

// ApplyLogLevel sets the global log level from cfg.
func ApplyLogLevel(cfg *config.Config) {
	logging.SetLevelString(cfg.Logging.Level)
}

// Serve implements suture.Service.
func (s *ConfigWatchService) Serve(ctx context.Context) error {
	s.logger.Info().Msg("watching config file")
	err := config.WatchConfigFile(ctx, s.path, s.reload)
	if err != nil && ctx.Err() == nil {
		// Returning lets the supervisor restart the watcher.
		s.logger.Error().Err(err).Msg("config watch failed")
	}
	return err
}

func (s *ConfigWatchService) reload() {
	cfg, err := config.Load(s.path)
	if err != nil {
		// Keep running with the previous configuration.
		s.logger.Warn().Err(err).Msg("config reload rejected")
		return
	}
	s.apply(cfg)
	s.logger.Info().Str("log_level", cfg.Logging.Level).Msg("config reloaded")
}

// String returns the service name for logging.
func (s *ConfigWatchService) String() string {
	return s.name
}
