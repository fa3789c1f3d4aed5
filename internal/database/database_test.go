// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/sage/internal/config"
	"github.com/tomtom215/sage/internal/graph"
)

// testDBSemaphore serializes DuckDB tests. Concurrent CGO calls from many
// test databases can hang under CI resource pressure.
var testDBSemaphore = make(chan struct{}, 1)

// setupTestDB opens a fresh database for one driver. DuckDB runs in memory;
// SQLite uses a file in the test's temp dir.
func setupTestDB(t *testing.T, driver string) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	cfg := &config.DatabaseConfig{Driver: driver, Path: ":memory:", MaxMemory: "256MB", Threads: 1}
	if driver == config.DriverSQLite {
		cfg.Path = filepath.Join(t.TempDir(), "sage.db")
	}

	type result struct {
		db  *DB
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		db, err := New(cfg)
		resultCh <- result{db: db, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("Failed to create test database: %v", res.err)
		}
		t.Cleanup(func() {
			if err := res.db.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
		return res.db
	case <-time.After(120 * time.Second):
		t.Fatal("Timed out creating test database")
		return nil
	}
}

// forEachDriver runs fn once per SQL driver.
func forEachDriver(t *testing.T, fn func(t *testing.T, db *DB)) {
	t.Helper()
	for _, driver := range []string{config.DriverDuckDB, config.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			fn(t, setupTestDB(t, driver))
		})
	}
}

// fixture is a small container: c1-o1, c2-o1, c2-o2.
type fixture struct {
	container graph.Container
	c1, c2    graph.Concept
	o1, o2    graph.Object
}

func newFixture(t *testing.T, db *DB) fixture {
	t.Helper()
	ctx := context.Background()

	var f fixture
	var err error
	if f.container, err = db.CreateContainer(ctx, graph.Container{Name: "photos", Notes: "holiday", Algorithm: "VotePlus"}); err != nil {
		t.Fatalf("CreateContainer() error = %v", err)
	}
	if f.c1, err = db.CreateConcept(ctx, graph.Concept{ContainerID: f.container.ID, Text: "red car"}); err != nil {
		t.Fatalf("CreateConcept() error = %v", err)
	}
	if f.c2, err = db.CreateConcept(ctx, graph.Concept{ContainerID: f.container.ID, Text: "blue car"}); err != nil {
		t.Fatalf("CreateConcept() error = %v", err)
	}
	if f.o1, err = db.CreateObject(ctx, graph.Object{ContainerID: f.container.ID, Locator: "img/1.jpg"}); err != nil {
		t.Fatalf("CreateObject() error = %v", err)
	}
	if f.o2, err = db.CreateObject(ctx, graph.Object{ContainerID: f.container.ID, Locator: "img/2.jpg"}); err != nil {
		t.Fatalf("CreateObject() error = %v", err)
	}

	owner := int64(7)
	edges := []graph.Edge{
		{ConceptID: f.c1.ID, ObjectID: f.o1.ID, Provenance: graph.ProvenanceExisting, OwnerID: &owner},
		{ConceptID: f.c2.ID, ObjectID: f.o1.ID},
		{ConceptID: f.c2.ID, ObjectID: f.o2.ID, Provenance: graph.ProvenancePulled},
	}
	for _, e := range edges {
		if err := db.CreateEdge(ctx, e); err != nil {
			t.Fatalf("CreateEdge(%d, %d) error = %v", e.ConceptID, e.ObjectID, err)
		}
	}
	return f
}

func TestNew_UnsupportedDriver(t *testing.T) {
	if _, err := New(&config.DatabaseConfig{Driver: "postgres", Path: "x"}); err == nil {
		t.Error("New(postgres) error = nil, want error")
	}
}

func TestOpen_MemoryDriver(t *testing.T) {
	store, closeFn, err := Open(&config.DatabaseConfig{Driver: config.DriverMemory})
	if err != nil {
		t.Fatalf("Open(memory) error = %v", err)
	}
	if _, ok := store.(*graph.MemoryStore); !ok {
		t.Errorf("Open(memory) = %T, want *graph.MemoryStore", store)
	}
	if err := closeFn(); err != nil {
		t.Errorf("close() error = %v", err)
	}
}

func TestMigrations(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *DB) {
		ctx := context.Background()

		version, err := db.GetCurrentSchemaVersion(ctx)
		if err != nil {
			t.Fatalf("GetCurrentSchemaVersion() error = %v", err)
		}
		if want := len(db.getMigrations()); version != want {
			t.Errorf("schema version = %d, want %d", version, want)
		}

		// Re-running must not apply anything twice.
		if err := db.runVersionedMigrations(); err != nil {
			t.Fatalf("runVersionedMigrations() error = %v", err)
		}
		history, err := db.GetMigrationHistory(ctx)
		if err != nil {
			t.Fatalf("GetMigrationHistory() error = %v", err)
		}
		if len(history) != len(db.getMigrations()) {
			t.Errorf("len(history) = %d, want %d", len(history), len(db.getMigrations()))
		}
		for _, m := range history {
			if m.AppliedAt.IsZero() {
				t.Errorf("migration v%d has zero AppliedAt", m.Version)
			}
		}
	})
}

func TestPingAndCounts(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *DB) {
		ctx := context.Background()
		newFixture(t, db)

		if err := db.Ping(ctx); err != nil {
			t.Fatalf("Ping() error = %v", err)
		}
		counts, err := db.GetRecordCounts(ctx)
		if err != nil {
			t.Fatalf("GetRecordCounts() error = %v", err)
		}
		want := RecordCounts{Containers: 1, Concepts: 2, Objects: 2, Edges: 3}
		if counts != want {
			t.Errorf("GetRecordCounts() = %+v, want %+v", counts, want)
		}
		if err := db.Checkpoint(ctx); err != nil {
			t.Errorf("Checkpoint() error = %v", err)
		}
	})
}

func TestEnsureContext(t *testing.T) {
	db := &DB{}

	ctx, cancel := db.ensureContext(context.Background())
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Error("ensureContext(background) has no deadline")
	}

	parent, parentCancel := context.WithTimeout(context.Background(), time.Second)
	defer parentCancel()
	ctx2, cancel2 := db.ensureContext(parent)
	defer cancel2()
	if ctx2 != parent {
		t.Error("ensureContext() replaced a context that already had a deadline")
	}
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *DB) {
		ctx := context.Background()
		boom := errors.New("boom")

		err := db.withTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO containers (name, notes, algorithm, created_at) VALUES (?, ?, ?, ?)`,
				"doomed", "", "", db.stamp(time.Time{})); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("withTx() error = %v, want boom", err)
		}

		containers, err := db.Containers(ctx)
		if err != nil {
			t.Fatalf("Containers() error = %v", err)
		}
		if len(containers) != 0 {
			t.Errorf("len(Containers()) = %d after rollback, want 0", len(containers))
		}
	})
}
