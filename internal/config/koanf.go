// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/sage/internal/evaluation"
	"github.com/tomtom215/sage/internal/suggest"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/sage/config.yaml",
	"/etc/sage/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// minEvaluationInterval bounds how often scheduled evaluations may run.
const minEvaluationInterval = time.Minute

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	sc := suggest.DefaultConfig()

	algorithms := make([]string, len(evaluation.DefaultAlgorithms))
	copy(algorithms, evaluation.DefaultAlgorithms)

	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Database: DatabaseConfig{
			Driver:    DriverDuckDB,
			Path:      "/data/sage.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Suggest: SuggestConfig{
			Default:   sc.Default,
			Hops:      sc.Hops,
			Threshold: sc.Threshold,
			Seed:      sc.Seed,
			Vote:      rankConfig(sc.Vote),
			VotePlus:  rankConfig(sc.VotePlus),
			Sum:       rankConfig(sc.Sum),
			SumPlus:   rankConfig(sc.SumPlus),
		},
		Evaluation: EvaluationConfig{
			TrainFraction: evaluation.DefaultFraction,
			Trials:        evaluation.DefaultTrials,
			Algorithms:    algorithms,
			Domain:        "object",
			Seed:          suggest.DefaultSeed,
			Enabled:       false,
			Interval:      24 * time.Hour,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            9464,
			MetricsPath:     "/metrics",
			ShutdownTimeout: 10 * time.Second,

			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,

			SnapshotTTL:      30 * time.Second,
			SnapshotCapacity: 64,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf with layered sources:
//
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// Precedence is ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	return Load("")
}

// Load is LoadWithKoanf with an explicit config file. An empty path falls
// back to CONFIG_PATH and DefaultConfigPaths; an explicit path must exist.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional unless given explicitly)
	configPath := path
	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// EVAL_TRAIN_FRACTION -> evaluation.train_fraction
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"evaluation.algorithms",
	"evaluation.containers",
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		strVal, ok := val.(string)
		if !ok {
			// Already a slice (YAML or defaults)
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Database
	"db_driver":         "database.driver",
	"database_path":     "database.path",
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Suggestion engine
	"suggest_default_algorithm": "suggest.default_algorithm",
	"suggest_hops":              "suggest.hops",
	"suggest_threshold":         "suggest.threshold",
	"suggest_seed":              "suggest.seed",

	// Evaluation harness
	"eval_train_fraction":   "evaluation.train_fraction",
	"eval_trials":           "evaluation.trials",
	"eval_algorithms":       "evaluation.algorithms",
	"eval_domain":           "evaluation.domain",
	"eval_seed":             "evaluation.seed",
	"eval_schedule_enabled": "evaluation.enabled",
	"eval_interval":         "evaluation.interval",
	"eval_containers":       "evaluation.containers",

	// Server
	"http_host":        "server.host",
	"http_port":        "server.port",
	"metrics_path":     "server.metrics_path",
	"shutdown_timeout": "server.shutdown_timeout",

	"cors_origins":        "server.cors_origins",
	"rate_limit_requests": "server.rate_limit_requests",
	"rate_limit_window":   "server.rate_limit_window",
	"disable_rate_limit":  "server.rate_limit_disabled",

	"snapshot_ttl":      "server.snapshot_ttl",
	"snapshot_capacity": "server.snapshot_capacity",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - LOG_LEVEL -> logging.level
//   - DUCKDB_PATH -> database.path
//   - EVAL_ALGORITHMS -> evaluation.algorithms
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so random environment variables
	// cannot pollute the config.
	return ""
}

// ErrWatchStopped is returned when the file watcher fails and stops
// delivering changes, for example because the file was removed.
var ErrWatchStopped = errors.New("config file watch stopped")

// WatchConfigFile calls callback whenever the file at path changes and
// blocks until ctx is canceled or the watcher fails. The caller reloads
// and applies the new configuration.
func WatchConfigFile(ctx context.Context, path string, callback func()) error {
	f := file.Provider(path)
	failed := make(chan error, 1)
	err := f.Watch(func(_ interface{}, err error) {
		if err != nil {
			// The provider stops watching after reporting an error.
			select {
			case failed <- err:
			default:
			}
			return
		}
		callback()
	})
	if err != nil {
		return fmt.Errorf("failed to watch config file %s: %w", path, err)
	}

	select {
	case <-ctx.Done():
	case err := <-failed:
		_ = f.Unwatch() //nolint:errcheck // watcher already stopped
		return fmt.Errorf("%w: %s: %w", ErrWatchStopped, path, err)
	}
	if err := f.Unwatch(); err != nil {
		return fmt.Errorf("failed to stop watching %s: %w", path, err)
	}
	return ctx.Err()
}
