// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package database

import (
	"fmt"
	"runtime"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "modernc.org/sqlite"

	"github.com/tomtom215/sage/internal/config"
)

// dialect holds what differs between the two SQL engines. Queries use
// ? placeholders and INSERT ... RETURNING, which both accept.
type dialect struct {
	name       string
	driverName string

	// dsn builds the driver connection string.
	dsn func(cfg *config.DatabaseConfig) string

	// tables lists the CREATE statements in dependency order.
	tables []string

	// checkpointSQL flushes the write-ahead log into the main file.
	checkpointSQL string

	// singleWriter limits the pool to one connection.
	singleWriter bool
	checkpoint   bool
}

func dialectFor(driver string) (*dialect, error) {
	switch driver {
	case config.DriverDuckDB, "":
		return duckdbDialect, nil
	case config.DriverSQLite:
		return sqliteDialect, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

var duckdbDialect = &dialect{
	name:       config.DriverDuckDB,
	driverName: "duckdb",
	dsn: func(cfg *config.DatabaseConfig) string {
		threads := cfg.Threads
		if threads <= 0 {
			threads = runtime.NumCPU()
		}
		maxMemory := cfg.MaxMemory
		if maxMemory == "" {
			maxMemory = "1GB"
		}
		// Disable auto-install/auto-load to prevent hangs in restricted network environments
		return fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
			cfg.Path, threads, maxMemory)
	},
	// DuckDB has no ON DELETE CASCADE, so cascades run in transactions
	// and the tables carry no foreign keys.
	tables: []string{
		`CREATE SEQUENCE IF NOT EXISTS seq_containers START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_concepts START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_objects START 1`,
		`CREATE TABLE IF NOT EXISTS containers (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_containers'),
			name TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			algorithm TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS concepts (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_concepts'),
			container_id BIGINT NOT NULL,
			text TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS objects (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_objects'),
			container_id BIGINT NOT NULL,
			locator TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS edges (
			container_id BIGINT NOT NULL,
			concept_id BIGINT NOT NULL,
			object_id BIGINT NOT NULL,
			provenance TEXT NOT NULL,
			owner_id BIGINT,
			created_at TIMESTAMP NOT NULL,
			PRIMARY KEY (concept_id, object_id)
		)`,
		`CREATE TABLE IF NOT EXISTS access_keys (
			access_key TEXT PRIMARY KEY,
			container_id BIGINT NOT NULL,
			role TEXT NOT NULL
		)`,
	},
	checkpointSQL: "CHECKPOINT",
	checkpoint:    true,
}

var sqliteDialect = &dialect{
	name:       config.DriverSQLite,
	driverName: "sqlite",
	dsn: func(cfg *config.DatabaseConfig) string {
		return cfg.Path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite"
	},
	tables: []string{
		`CREATE TABLE IF NOT EXISTS containers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			algorithm TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS concepts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			container_id INTEGER NOT NULL,
			text TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS objects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			container_id INTEGER NOT NULL,
			locator TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS edges (
			container_id INTEGER NOT NULL,
			concept_id INTEGER NOT NULL,
			object_id INTEGER NOT NULL,
			provenance TEXT NOT NULL,
			owner_id INTEGER,
			created_at TIMESTAMP NOT NULL,
			PRIMARY KEY (concept_id, object_id)
		)`,
		`CREATE TABLE IF NOT EXISTS access_keys (
			access_key TEXT PRIMARY KEY,
			container_id INTEGER NOT NULL,
			role TEXT NOT NULL
		)`,
	},
	checkpointSQL: "PRAGMA wal_checkpoint(TRUNCATE)",
	singleWriter:  true,
}

// indexQueries are shared by both dialects.
var indexQueries = []string{
	`CREATE INDEX IF NOT EXISTS idx_concepts_container ON concepts(container_id)`,
	`CREATE INDEX IF NOT EXISTS idx_objects_container ON objects(container_id)`,
	`CREATE INDEX IF NOT EXISTS idx_edges_container ON edges(container_id)`,
	`CREATE INDEX IF NOT EXISTS idx_edges_object ON edges(object_id)`,
	`CREATE INDEX IF NOT EXISTS idx_access_keys_container ON access_keys(container_id)`,
}

// isConstraintViolation reports whether err is a primary key or unique
// constraint failure from either engine.
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY constraint failed")
}
