// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package config

import (
	"fmt"

	"github.com/tomtom215/sage/internal/validation"
)

// Validate checks struct tags first, then the cross-field rules of each section.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateSuggest(); err != nil {
		return err
	}

	if err := c.validateEvaluation(); err != nil {
		return err
	}

	return c.validateServer()
}

// validateDatabase requires a path for file-backed drivers.
func (c *Config) validateDatabase() error {
	if c.Database.Driver == DriverMemory {
		return nil
	}
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required when database driver is %s", c.Database.Driver)
	}
	return nil
}

func (c *Config) validateSuggest() error {
	if err := c.Suggest.Engine().Validate(); err != nil {
		return fmt.Errorf("suggest: %w", err)
	}
	return nil
}

// validateEvaluation checks the scheduled job only when it is enabled.
func (c *Config) validateEvaluation() error {
	if !c.Evaluation.Enabled {
		return nil
	}
	if c.Evaluation.Interval < minEvaluationInterval {
		return fmt.Errorf("EVAL_INTERVAL must be at least %v, got %v", minEvaluationInterval, c.Evaluation.Interval)
	}
	if len(c.Evaluation.Containers) == 0 {
		return fmt.Errorf("EVAL_CONTAINERS is required when scheduled evaluation is enabled")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %v", c.Server.ShutdownTimeout)
	}
	if !c.Server.RateLimitDisabled && (c.Server.RateLimitRequests <= 0 || c.Server.RateLimitWindow <= 0) {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive unless DISABLE_RATE_LIMIT is set")
	}
	if c.Server.SnapshotTTL < 0 {
		return fmt.Errorf("SNAPSHOT_TTL must not be negative, got %v", c.Server.SnapshotTTL)
	}
	return nil
}
