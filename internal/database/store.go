// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/sage/internal/graph"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// stamp returns t in UTC at the microsecond precision both engines store,
// or the current time when t is zero.
func (db *DB) stamp(t time.Time) time.Time {
	if t.IsZero() {
		t = db.now()
	}
	return t.UTC().Truncate(time.Microsecond)
}

const containerColumns = `id, name, notes, algorithm, created_at`

func scanContainer(row interface{ Scan(...any) error }) (graph.Container, error) {
	var c graph.Container
	err := row.Scan(&c.ID, &c.Name, &c.Notes, &c.Algorithm, &c.CreatedAt)
	return c, err
}

// CreateContainer stores a new container and assigns its ID.
//
//nolint:gocritic // hugeParam: graph.Store takes values
func (db *DB) CreateContainer(ctx context.Context, c graph.Container) (_ graph.Container, err error) {
	defer observe("insert", "containers", &err)()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	c.CreatedAt = db.stamp(c.CreatedAt)
	err = db.conn.QueryRowContext(ctx,
		`INSERT INTO containers (name, notes, algorithm, created_at) VALUES (?, ?, ?, ?) RETURNING id`,
		c.Name, c.Notes, c.Algorithm, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		return graph.Container{}, fmt.Errorf("failed to insert container: %w", err)
	}
	return c, nil
}

// Container returns a container by ID.
func (db *DB) Container(ctx context.Context, id int64) (_ graph.Container, err error) {
	defer observe("select", "containers", &err)()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.container(ctx, db.conn, id)
}

func (db *DB) container(ctx context.Context, q querier, id int64) (graph.Container, error) {
	c, err := scanContainer(q.QueryRowContext(ctx,
		`SELECT `+containerColumns+` FROM containers WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return graph.Container{}, fmt.Errorf("container %d: %w", id, graph.ErrNotFound)
	}
	if err != nil {
		return graph.Container{}, fmt.Errorf("failed to query container %d: %w", id, err)
	}
	return c, nil
}

// containerExists returns a wrapped graph.ErrNotFound for unknown containers.
func (db *DB) containerExists(ctx context.Context, q querier, id int64) error {
	_, err := db.container(ctx, q, id)
	return err
}

// Containers returns all containers ordered by ID.
func (db *DB) Containers(ctx context.Context) (_ []graph.Container, err error) {
	defer observe("select", "containers", &err)()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT `+containerColumns+` FROM containers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query containers: %w", err)
	}
	defer closeWithLog(rows, &db.logger, "rows")

	var out []graph.Container
	for rows.Next() {
		c, err := scanContainer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan container: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteContainer removes a container with all of its items, edges and keys.
func (db *DB) DeleteContainer(ctx context.Context, id int64) (err error) {
	defer observe("delete", "containers", &err)()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if err := db.containerExists(ctx, tx, id); err != nil {
			return err
		}
		for _, table := range []string{"edges", "concepts", "objects", "access_keys"} {
			// Table names come from the fixed list above.
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE container_id = ?", id); err != nil { //nolint:gosec // G202: constant table names
				return fmt.Errorf("failed to delete %s of container %d: %w", table, id, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM containers WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete container %d: %w", id, err)
		}
		return nil
	})
}

// CloneContainer deep-copies a container's items and edges into a new container.
// Access keys are not copied.
func (db *DB) CloneContainer(ctx context.Context, id int64) (_ graph.CloneResult, err error) {
	defer observe("clone", "containers", &err)()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var result graph.CloneResult
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		src, err := db.container(ctx, tx, id)
		if err != nil {
			return err
		}

		// Every result set is drained before the next statement runs:
		// SQLite shares one connection for the whole transaction.
		concepts, err := db.concepts(ctx, tx, id)
		if err != nil {
			return err
		}
		objects, err := db.objects(ctx, tx, id)
		if err != nil {
			return err
		}
		edges, err := db.edges(ctx, tx, id)
		if err != nil {
			return err
		}

		result = graph.CloneResult{
			Concepts: make(map[int64]int64, len(concepts)),
			Objects:  make(map[int64]int64, len(objects)),
		}
		err = tx.QueryRowContext(ctx,
			`INSERT INTO containers (name, notes, algorithm, created_at) VALUES (?, ?, ?, ?) RETURNING id`,
			src.Name+" (clone)", src.Notes, src.Algorithm, db.stamp(time.Time{})).Scan(&result.ID)
		if err != nil {
			return fmt.Errorf("failed to insert clone container: %w", err)
		}

		for _, c := range concepts {
			var newID int64
			if err := tx.QueryRowContext(ctx,
				`INSERT INTO concepts (container_id, text, created_at) VALUES (?, ?, ?) RETURNING id`,
				result.ID, c.Text, c.CreatedAt).Scan(&newID); err != nil {
				return fmt.Errorf("failed to clone concept %d: %w", c.ID, err)
			}
			result.Concepts[c.ID] = newID
		}
		for _, o := range objects {
			var newID int64
			if err := tx.QueryRowContext(ctx,
				`INSERT INTO objects (container_id, locator, created_at) VALUES (?, ?, ?) RETURNING id`,
				result.ID, o.Locator, o.CreatedAt).Scan(&newID); err != nil {
				return fmt.Errorf("failed to clone object %d: %w", o.ID, err)
			}
			result.Objects[o.ID] = newID
		}

		stmt, err := tx.PrepareContext(ctx, insertEdgeQuery)
		if err != nil {
			return fmt.Errorf("failed to prepare edge insert: %w", err)
		}
		defer closeWithLog(stmt, &db.logger, "statement")

		for i := range edges {
			e := edges[i]
			e.ContainerID = result.ID
			e.ConceptID = result.Concepts[e.ConceptID]
			e.ObjectID = result.Objects[e.ObjectID]
			if _, err := stmt.ExecContext(ctx, edgeArgs(&e)...); err != nil {
				return fmt.Errorf("failed to clone edge %d-%d: %w", edges[i].ConceptID, edges[i].ObjectID, err)
			}
		}
		return nil
	})
	if err != nil {
		return graph.CloneResult{}, err
	}

	db.logger.Debug().Int64("source", id).Int64("clone", result.ID).
		Int("concepts", len(result.Concepts)).Int("objects", len(result.Objects)).
		Msg("Container cloned")
	return result, nil
}

// Concept returns a concept by ID.
func (db *DB) Concept(ctx context.Context, id int64) (_ graph.Concept, err error) {
	defer observe("select", "concepts", &err)()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.concept(ctx, db.conn, id)
}

func (db *DB) concept(ctx context.Context, q querier, id int64) (graph.Concept, error) {
	var c graph.Concept
	err := q.QueryRowContext(ctx,
		`SELECT id, container_id, text, created_at FROM concepts WHERE id = ?`, id).
		Scan(&c.ID, &c.ContainerID, &c.Text, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return graph.Concept{}, fmt.Errorf("concept %d: %w", id, graph.ErrNotFound)
	}
	if err != nil {
		return graph.Concept{}, fmt.Errorf("failed to query concept %d: %w", id, err)
	}
	return c, nil
}

// Object returns an object by ID.
func (db *DB) Object(ctx context.Context, id int64) (_ graph.Object, err error) {
	defer observe("select", "objects", &err)()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.object(ctx, db.conn, id)
}

func (db *DB) object(ctx context.Context, q querier, id int64) (graph.Object, error) {
	var o graph.Object
	err := q.QueryRowContext(ctx,
		`SELECT id, container_id, locator, created_at FROM objects WHERE id = ?`, id).
		Scan(&o.ID, &o.ContainerID, &o.Locator, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return graph.Object{}, fmt.Errorf("object %d: %w", id, graph.ErrNotFound)
	}
	if err != nil {
		return graph.Object{}, fmt.Errorf("failed to query object %d: %w", id, err)
	}
	return o, nil
}

// CreateConcept stores a concept in an existing container.
//
//nolint:gocritic // hugeParam: graph.Store takes values
func (db *DB) CreateConcept(ctx context.Context, c graph.Concept) (_ graph.Concept, err error) {
	defer observe("insert", "concepts", &err)()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	c.CreatedAt = db.stamp(c.CreatedAt)
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		if err := db.containerExists(ctx, tx, c.ContainerID); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx,
			`INSERT INTO concepts (container_id, text, created_at) VALUES (?, ?, ?) RETURNING id`,
			c.ContainerID, c.Text, c.CreatedAt).Scan(&c.ID)
	})
	if err != nil {
		return graph.Concept{}, fmt.Errorf("create concept: %w", err)
	}
	return c, nil
}

// CreateObject stores an object in an existing container.
//
//nolint:gocritic // hugeParam: graph.Store takes values
func (db *DB) CreateObject(ctx context.Context, o graph.Object) (_ graph.Object, err error) {
	defer observe("insert", "objects", &err)()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	o.CreatedAt = db.stamp(o.CreatedAt)
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		if err := db.containerExists(ctx, tx, o.ContainerID); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx,
			`INSERT INTO objects (container_id, locator, created_at) VALUES (?, ?, ?) RETURNING id`,
			o.ContainerID, o.Locator, o.CreatedAt).Scan(&o.ID)
	})
	if err != nil {
		return graph.Object{}, fmt.Errorf("create object: %w", err)
	}
	return o, nil
}

// UpdateConceptText replaces a concept's text.
func (db *DB) UpdateConceptText(ctx context.Context, id int64, text string) (err error) {
	defer observe("update", "concepts", &err)()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `UPDATE concepts SET text = ? WHERE id = ?`, text, id)
	if err != nil {
		return fmt.Errorf("failed to update concept %d: %w", id, err)
	}
	return requireAffected(res, fmt.Sprintf("concept %d", id))
}

// DeleteConcept removes a concept and its edges.
func (db *DB) DeleteConcept(ctx context.Context, id int64) (err error) {
	defer observe("delete", "concepts", &err)()
	return db.deleteItem(ctx, graph.ConceptRef(id))
}

// DeleteObject removes an object and its edges.
func (db *DB) DeleteObject(ctx context.Context, id int64) (err error) {
	defer observe("delete", "objects", &err)()
	return db.deleteItem(ctx, graph.ObjectRef(id))
}

func (db *DB) deleteItem(ctx context.Context, ref graph.Ref) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	table, edgeColumn := "concepts", "concept_id"
	if ref.Kind == graph.KindObject {
		table, edgeColumn = "objects", "object_id"
	}

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if err := db.itemExists(ctx, tx, ref); err != nil {
			return err
		}
		// Table and column names come from the switch above.
		if _, err := tx.ExecContext(ctx, "DELETE FROM edges WHERE "+edgeColumn+" = ?", ref.ID); err != nil { //nolint:gosec // G202: constant identifiers
			return fmt.Errorf("failed to delete edges of %s: %w", ref, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", ref.ID); err != nil { //nolint:gosec // G202: constant identifiers
			return fmt.Errorf("failed to delete %s: %w", ref, err)
		}
		return nil
	})
}

func (db *DB) itemExists(ctx context.Context, q querier, ref graph.Ref) error {
	switch ref.Kind {
	case graph.KindConcept:
		_, err := db.concept(ctx, q, ref.ID)
		return err
	case graph.KindObject:
		_, err := db.object(ctx, q, ref.ID)
		return err
	default:
		return fmt.Errorf("invalid ref %s", ref)
	}
}

// Concepts returns a container's concepts ordered by ID.
func (db *DB) Concepts(ctx context.Context, containerID int64) (_ []graph.Concept, err error) {
	defer observe("select", "concepts", &err)()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if err := db.containerExists(ctx, db.conn, containerID); err != nil {
		return nil, err
	}
	return db.concepts(ctx, db.conn, containerID)
}

func (db *DB) concepts(ctx context.Context, q querier, containerID int64) ([]graph.Concept, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, container_id, text, created_at FROM concepts WHERE container_id = ? ORDER BY id`, containerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query concepts: %w", err)
	}
	defer closeWithLog(rows, &db.logger, "rows")

	var out []graph.Concept
	for rows.Next() {
		var c graph.Concept
		if err := rows.Scan(&c.ID, &c.ContainerID, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan concept: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Objects returns a container's objects ordered by ID.
func (db *DB) Objects(ctx context.Context, containerID int64) (_ []graph.Object, err error) {
	defer observe("select", "objects", &err)()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if err := db.containerExists(ctx, db.conn, containerID); err != nil {
		return nil, err
	}
	return db.objects(ctx, db.conn, containerID)
}

func (db *DB) objects(ctx context.Context, q querier, containerID int64) ([]graph.Object, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, container_id, locator, created_at FROM objects WHERE container_id = ? ORDER BY id`, containerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query objects: %w", err)
	}
	defer closeWithLog(rows, &db.logger, "rows")

	var out []graph.Object
	for rows.Next() {
		var o graph.Object
		if err := rows.Scan(&o.ID, &o.ContainerID, &o.Locator, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan object: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Items returns a container's items of one kind.
func (db *DB) Items(ctx context.Context, containerID int64, kind graph.Kind) ([]graph.Item, error) {
	switch kind {
	case graph.KindConcept:
		concepts, err := db.Concepts(ctx, containerID)
		if err != nil {
			return nil, err
		}
		items := make([]graph.Item, len(concepts))
		for i, c := range concepts {
			items[i] = graph.Item{Ref: c.Ref(), ContainerID: c.ContainerID, Label: c.Text}
		}
		return items, nil
	case graph.KindObject:
		objects, err := db.Objects(ctx, containerID)
		if err != nil {
			return nil, err
		}
		items := make([]graph.Item, len(objects))
		for i, o := range objects {
			items[i] = graph.Item{Ref: o.Ref(), ContainerID: o.ContainerID, Label: o.Locator}
		}
		return items, nil
	default:
		return nil, fmt.Errorf("items: invalid kind %v", kind)
	}
}

// requireAffected maps a zero-row update or delete to graph.ErrNotFound.
func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, graph.ErrNotFound)
	}
	return nil
}
