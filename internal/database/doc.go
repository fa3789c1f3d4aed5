// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

// Package database provides the SQL-backed graph.Store for Sage.
//
// # Overview
//
// DB persists containers, concepts, objects, annotation edges and access
// keys in either DuckDB or SQLite. Both engines share one set of queries;
// the differences (DSN, DDL, checkpointing, pool size) live in dialect.go.
//
// The package is organized into several files:
//   - database.go: lifecycle (New, Open, Ping, Close) and pool configuration
//   - dialect.go: per-engine DSN, table DDL and constraint error matching
//   - schema.go: table and index creation
//   - migrations.go: versioned schema migrations recorded in schema_migrations
//   - store.go: containers, concepts and objects
//   - edges.go: annotation edges and access keys
//   - utils.go: query timeouts, transactions, metrics and record counts
//   - errors.go: close and rollback helpers that log instead of dropping errors
//
// # Engines
//
// DuckDB (github.com/duckdb/duckdb-go/v2) is the default. It has no
// ON DELETE CASCADE, so container and item deletes cascade inside a single
// transaction and the tables carry no foreign keys.
//
// SQLite (modernc.org/sqlite) is pure Go and runs in WAL mode with a single
// connection, which serializes writers.
//
// The "memory" driver bypasses SQL entirely; Open returns a graph.MemoryStore.
//
// # Usage
//
//	store, closeFn, err := database.Open(&cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer closeFn()
//
//	g, err := graph.Load(ctx, store, containerID)
//
// # Observability
//
// Every Store method records its duration and outcome through
// metrics.RecordDBQuery, labelled by operation and table.
package database
