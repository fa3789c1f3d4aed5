// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package config

import (
	"net"
	"strconv"
	"time"

	"github.com/tomtom215/sage/internal/graph"
	"github.com/tomtom215/sage/internal/logging"
	"github.com/tomtom215/sage/internal/suggest"
)

// Database drivers.
const (
	DriverDuckDB = "duckdb"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config holds all application configuration.
type Config struct {
	Logging    LoggingConfig    `koanf:"logging"`
	Database   DatabaseConfig   `koanf:"database"`
	Suggest    SuggestConfig    `koanf:"suggest"`
	Evaluation EvaluationConfig `koanf:"evaluation"`
	Server     ServerConfig     `koanf:"server"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Logging converts the section into a logging.Config.
func (c LoggingConfig) Logging() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.Level
	if c.Format != "" {
		lc.Format = c.Format
	}
	lc.Caller = c.Caller
	return lc
}

// DatabaseConfig selects and tunes the graph store.
type DatabaseConfig struct {
	// Driver is duckdb, sqlite or memory. memory keeps everything in
	// process and ignores the remaining fields.
	Driver    string `koanf:"driver" validate:"oneof=duckdb sqlite memory"`
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads" validate:"gte=0"` // 0 = NumCPU
}

// InMemory reports whether the store lives only for the process lifetime.
func (c *DatabaseConfig) InMemory() bool {
	return c.Driver == DriverMemory || c.Path == ":memory:"
}

// SuggestConfig tunes the suggestion algorithms.
type SuggestConfig struct {
	Default   string     `koanf:"default_algorithm" validate:"omitempty,algorithm"`
	Hops      int        `koanf:"hops" validate:"gte=0"`
	Threshold float64    `koanf:"threshold" validate:"gte=0"`
	Seed      int64      `koanf:"seed"`
	Vote      RankConfig `koanf:"vote"`
	VotePlus  RankConfig `koanf:"vote_plus"`
	Sum       RankConfig `koanf:"sum"`
	SumPlus   RankConfig `koanf:"sum_plus"`
}

// RankConfig holds the co-occurrence constants of one Rank variant.
type RankConfig struct {
	M       int     `koanf:"m" validate:"gte=0"`
	KS      float64 `koanf:"ks" validate:"gte=0"`
	KD      float64 `koanf:"kd" validate:"gte=0"`
	KR      float64 `koanf:"kr" validate:"gte=0"`
	Promote bool    `koanf:"promote"`
}

func (r RankConfig) params() suggest.RankParams {
	return suggest.RankParams{M: r.M, KS: r.KS, KD: r.KD, KR: r.KR, Promote: r.Promote}
}

func rankConfig(p suggest.RankParams) RankConfig {
	return RankConfig{M: p.M, KS: p.KS, KD: p.KD, KR: p.KR, Promote: p.Promote}
}

// Engine converts the section into a suggest.Config.
func (c *SuggestConfig) Engine() suggest.Config {
	return suggest.Config{
		Default:   c.Default,
		Hops:      c.Hops,
		Threshold: c.Threshold,
		Seed:      c.Seed,
		Vote:      c.Vote.params(),
		VotePlus:  c.VotePlus.params(),
		Sum:       c.Sum.params(),
		SumPlus:   c.SumPlus.params(),
	}
}

// EvaluationConfig holds harness defaults and the scheduled evaluation job.
//
// Environment Variables:
//   - EVAL_TRAIN_FRACTION: share of edges kept for training (default: 0.4)
//   - EVAL_TRIALS: domain items tested per run, 0 = all (default: 30)
//   - EVAL_ALGORITHMS: comma-separated algorithm names
//   - EVAL_SCHEDULE_ENABLED / EVAL_INTERVAL / EVAL_CONTAINERS: periodic runs under `sage serve`
type EvaluationConfig struct {
	TrainFraction float64  `koanf:"train_fraction" validate:"gte=0,lte=1"`
	Trials        int      `koanf:"trials" validate:"gte=0"`
	Algorithms    []string `koanf:"algorithms" validate:"dive,algorithm"`
	Domain        string   `koanf:"domain" validate:"itemkind"`
	Seed          int64    `koanf:"seed"`

	Enabled    bool          `koanf:"enabled"`
	Interval   time.Duration `koanf:"interval"`
	Containers []int64       `koanf:"containers" validate:"dive,gt=0"`
}

// DomainKind returns the parsed domain. Validate guarantees it parses.
func (c *EvaluationConfig) DomainKind() graph.Kind {
	k, err := graph.ParseKind(c.Domain)
	if err != nil {
		return graph.KindObject
	}
	return k
}

// ServerConfig holds the HTTP listener of `sage serve`.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	MetricsPath     string        `koanf:"metrics_path" validate:"startswith=/"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CORSOrigins is empty by default, which disables cross-origin access.
	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// SnapshotTTL bounds how stale a cached container view may be.
	// Zero disables the snapshot cache.
	SnapshotTTL      time.Duration `koanf:"snapshot_ttl"`
	SnapshotCapacity int           `koanf:"snapshot_capacity" validate:"gte=0"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
