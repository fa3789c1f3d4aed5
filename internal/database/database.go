// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/sage/internal/config"
	"github.com/tomtom215/sage/internal/graph"
	"github.com/tomtom215/sage/internal/logging"
)

// DB is a graph.Store over DuckDB or SQLite.
type DB struct {
	conn    *sql.DB
	cfg     *config.DatabaseConfig
	dialect *dialect
	logger  zerolog.Logger
	now     func() time.Time
}

var _ graph.Store = (*DB)(nil)

// New opens the database named by cfg and initializes the schema.
// The memory driver is not handled here; callers use graph.NewMemoryStore.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	d, err := dialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	// Ensure parent directory exists for database file
	// Use 0750 permissions (owner: rwx, group: rx, other: none) per gosec G301
	if cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	conn, err := sql.Open(d.driverName, d.dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn:    conn,
		cfg:     cfg,
		dialect: d,
		logger:  logging.With().Str("component", "database").Str("driver", d.name).Logger(),
		now:     func() time.Time { return time.Now().UTC() },
	}

	db.configureConnectionPool()

	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	db.logger.Debug().Str("path", cfg.Path).Msg("Database ready")
	return db, nil
}

// Open returns the store selected by cfg: a MemoryStore for the memory
// driver, a *DB otherwise. The close function is a no-op for memory stores.
func Open(cfg *config.DatabaseConfig) (graph.Store, func() error, error) {
	if cfg.Driver == config.DriverMemory {
		return graph.NewMemoryStore(), func() error { return nil }, nil
	}
	db, err := New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, db.Close, nil
}

// initialize creates tables and indexes, then applies pending migrations.
func (db *DB) initialize() error {
	if err := db.createTables(); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	if err := db.createIndexes(); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	if err := db.runVersionedMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// configureConnectionPool sets connection pool parameters.
//
// DuckDB shares one database instance across the pool, so several
// connections run queries in parallel. SQLite allows a single writer;
// one connection avoids SQLITE_BUSY between pooled connections.
func (db *DB) configureConnectionPool() {
	if db.dialect.singleWriter {
		db.conn.SetMaxOpenConns(1)
		db.conn.SetMaxIdleConns(1)
		db.conn.SetConnMaxLifetime(0)
		return
	}
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// Ping verifies the database connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return db.conn.PingContext(ctx)
}

// Close checkpoints DuckDB and closes the connection pool.
func (db *DB) Close() error {
	if db.dialect.checkpoint {
		if err := db.Checkpoint(context.Background()); err != nil {
			db.logger.Warn().Err(err).Msg("Checkpoint before close failed")
		}
	}
	return db.conn.Close()
}

// Conn returns the underlying SQL database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Driver returns the configured driver name.
func (db *DB) Driver() string {
	return db.dialect.name
}
