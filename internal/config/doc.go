// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

/*
Package config provides centralized configuration management for Sage.

Configuration is layered with koanf: built-in defaults, then an optional
YAML file, then environment variables.

# Configuration Sources

  - Defaults: defaultConfig()
  - File: the path passed to Load, else CONFIG_PATH, else config.yaml,
    config.yml, /etc/sage/config.yaml, /etc/sage/config.yml
  - Environment: an explicit name mapping (see envMappings); unmapped
    variables are ignored

# Configuration Structure

  - LoggingConfig: zerolog level, format, caller
  - DatabaseConfig: store driver (duckdb, sqlite, memory) and DuckDB tuning
  - SuggestConfig: default algorithm, SAGA hop budget and threshold, Rank constants
  - EvaluationConfig: harness defaults and the scheduled evaluation job
  - ServerConfig: metrics and health listener for `sage serve`

# Environment Variables

  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
  - DB_DRIVER, DUCKDB_PATH (alias DATABASE_PATH), DUCKDB_MAX_MEMORY, DUCKDB_THREADS
  - SUGGEST_DEFAULT_ALGORITHM, SUGGEST_HOPS, SUGGEST_THRESHOLD, SUGGEST_SEED
  - EVAL_TRAIN_FRACTION, EVAL_TRIALS, EVAL_ALGORITHMS (comma-separated),
    EVAL_DOMAIN, EVAL_SEED
  - EVAL_SCHEDULE_ENABLED, EVAL_INTERVAL, EVAL_CONTAINERS (comma-separated IDs)
  - HTTP_HOST, HTTP_PORT, METRICS_PATH, SHUTDOWN_TIMEOUT

# Example Usage

	cfg, err := config.Load(flagPath)
	if err != nil {
	    log.Fatal(err)
	}
	logging.Init(cfg.Logging.Logging())
	engine := suggest.NewEngine(store, cfg.Suggest.Engine(), logger)

# Validation

Validate runs the validator struct tags from internal/validation (including
the custom algorithm and itemkind tags), then section checks: a file path
for file-backed drivers, suggestion constants, and the schedule interval and
containers when scheduled evaluation is enabled.
*/
package config
