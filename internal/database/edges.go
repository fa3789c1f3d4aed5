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

	"github.com/tomtom215/sage/internal/graph"
)

const insertEdgeQuery = `INSERT INTO edges (container_id, concept_id, object_id, provenance, owner_id, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`

func edgeArgs(e *graph.Edge) []any {
	var owner sql.NullInt64
	if e.OwnerID != nil {
		owner = sql.NullInt64{Int64: *e.OwnerID, Valid: true}
	}
	return []any{e.ContainerID, e.ConceptID, e.ObjectID, string(e.Provenance), owner, e.CreatedAt}
}

// Edges returns a container's edges ordered by (concept, object).
func (db *DB) Edges(ctx context.Context, containerID int64) (_ []graph.Edge, err error) {
	defer observe("select", "edges", &err)()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if err := db.containerExists(ctx, db.conn, containerID); err != nil {
		return nil, err
	}
	return db.edges(ctx, db.conn, containerID)
}

func (db *DB) edges(ctx context.Context, q querier, containerID int64) ([]graph.Edge, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT container_id, concept_id, object_id, provenance, owner_id, created_at
		FROM edges WHERE container_id = ? ORDER BY concept_id, object_id`, containerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer closeWithLog(rows, &db.logger, "rows")

	var out []graph.Edge
	for rows.Next() {
		var (
			e          graph.Edge
			provenance string
			owner      sql.NullInt64
		)
		if err := rows.Scan(&e.ContainerID, &e.ConceptID, &e.ObjectID, &provenance, &owner, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		e.Provenance = graph.Provenance(provenance)
		if owner.Valid {
			id := owner.Int64
			e.OwnerID = &id
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// neighborQuery returns the adjacency query for one side of the graph.
func neighborQuery(kind graph.Kind) string {
	if kind == graph.KindConcept {
		return `SELECT object_id FROM edges WHERE concept_id = ? ORDER BY object_id`
	}
	return `SELECT concept_id FROM edges WHERE object_id = ? ORDER BY concept_id`
}

// Neighbors returns the opposite-type items linked to ref, ordered by ID.
func (db *DB) Neighbors(ctx context.Context, ref graph.Ref) (_ []graph.Ref, err error) {
	defer observe("select", "edges", &err)()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if err := db.itemExists(ctx, db.conn, ref); err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx, neighborQuery(ref.Kind), ref.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query neighbors of %s: %w", ref, err)
	}
	defer closeWithLog(rows, &db.logger, "rows")

	out := []graph.Ref{}
	opposite := ref.Kind.Opposite()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan neighbor: %w", err)
		}
		out = append(out, graph.Ref{Kind: opposite, ID: id})
	}
	return out, rows.Err()
}

// Degree returns the number of edges touching ref.
func (db *DB) Degree(ctx context.Context, ref graph.Ref) (_ int, err error) {
	defer observe("count", "edges", &err)()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if err := db.itemExists(ctx, db.conn, ref); err != nil {
		return 0, err
	}

	column := "object_id"
	if ref.Kind == graph.KindConcept {
		column = "concept_id"
	}
	var n int
	// Column name comes from the fixed choice above.
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM edges WHERE "+column+" = ?", ref.ID).Scan(&n); err != nil { //nolint:gosec // G202: constant identifiers
		return 0, fmt.Errorf("failed to count edges of %s: %w", ref, err)
	}
	return n, nil
}

// CreateEdge links a concept and an object of the same container.
//
//nolint:gocritic // hugeParam: graph.Store takes values
func (db *DB) CreateEdge(ctx context.Context, e graph.Edge) (err error) {
	defer observe("insert", "edges", &err)()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		c, err := db.concept(ctx, tx, e.ConceptID)
		if err != nil {
			return err
		}
		o, err := db.object(ctx, tx, e.ObjectID)
		if err != nil {
			return err
		}
		if c.ContainerID != o.ContainerID {
			return fmt.Errorf("concept %d, object %d: %w", e.ConceptID, e.ObjectID, graph.ErrCrossContainer)
		}
		if e.ContainerID == 0 {
			e.ContainerID = c.ContainerID
		}
		if e.ContainerID != c.ContainerID {
			return fmt.Errorf("edge container %d: %w", e.ContainerID, graph.ErrCrossContainer)
		}

		var existing int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM edges WHERE concept_id = ? AND object_id = ?`,
			e.ConceptID, e.ObjectID).Scan(&existing); err != nil {
			return fmt.Errorf("failed to check edge: %w", err)
		}
		if existing > 0 {
			return fmt.Errorf("concept %d, object %d: %w", e.ConceptID, e.ObjectID, graph.ErrDuplicateEdge)
		}

		e.CreatedAt = db.stamp(e.CreatedAt)
		if e.Provenance == "" {
			e.Provenance = graph.ProvenanceNew
		}
		if _, err := tx.ExecContext(ctx, insertEdgeQuery, edgeArgs(&e)...); err != nil {
			// A concurrent writer may have won the race past the check above.
			if isConstraintViolation(err) {
				return fmt.Errorf("concept %d, object %d: %w", e.ConceptID, e.ObjectID, graph.ErrDuplicateEdge)
			}
			return fmt.Errorf("failed to insert edge: %w", err)
		}
		return nil
	})
}

// DeleteEdge removes the edge between a concept and an object.
func (db *DB) DeleteEdge(ctx context.Context, conceptID, objectID int64) (err error) {
	defer observe("delete", "edges", &err)()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM edges WHERE concept_id = ? AND object_id = ?`, conceptID, objectID)
	if err != nil {
		return fmt.Errorf("failed to delete edge %d-%d: %w", conceptID, objectID, err)
	}
	return requireAffected(res, fmt.Sprintf("edge %d-%d", conceptID, objectID))
}

// SetAccessKey assigns (or clears, with an empty key) one of a container's access keys.
func (db *DB) SetAccessKey(ctx context.Context, containerID int64, role graph.AccessRole, key string) (err error) {
	defer observe("upsert", "access_keys", &err)()
	if !role.Valid() {
		return fmt.Errorf("access role %q is not valid", role)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if err := db.containerExists(ctx, tx, containerID); err != nil {
			return err
		}

		if key != "" {
			var (
				owner     int64
				ownerRole string
			)
			err := tx.QueryRowContext(ctx,
				`SELECT container_id, role FROM access_keys WHERE access_key = ?`, key).Scan(&owner, &ownerRole)
			switch {
			case errors.Is(err, sql.ErrNoRows):
			case err != nil:
				return fmt.Errorf("failed to look up access key: %w", err)
			case owner == containerID && graph.AccessRole(ownerRole) == role:
				return nil // already assigned
			default:
				return graph.ErrDuplicateKey
			}
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM access_keys WHERE container_id = ? AND role = ?`, containerID, string(role)); err != nil {
			return fmt.Errorf("failed to clear access key: %w", err)
		}
		if key == "" {
			return nil
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO access_keys (access_key, container_id, role) VALUES (?, ?, ?)`,
			key, containerID, string(role)); err != nil {
			if isConstraintViolation(err) {
				return graph.ErrDuplicateKey
			}
			return fmt.Errorf("failed to insert access key: %w", err)
		}
		return nil
	})
}

// ContainerByKey resolves an access key to its container and role.
func (db *DB) ContainerByKey(ctx context.Context, key string) (_ graph.Container, _ graph.AccessRole, err error) {
	defer observe("select", "access_keys", &err)()
	if key == "" {
		return graph.Container{}, "", fmt.Errorf("access key: %w", graph.ErrNotFound)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var (
		c    graph.Container
		role string
	)
	err = db.conn.QueryRowContext(ctx,
		`SELECT c.id, c.name, c.notes, c.algorithm, c.created_at, k.role
		FROM access_keys k JOIN containers c ON c.id = k.container_id
		WHERE k.access_key = ?`, key).
		Scan(&c.ID, &c.Name, &c.Notes, &c.Algorithm, &c.CreatedAt, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return graph.Container{}, "", fmt.Errorf("access key: %w", graph.ErrNotFound)
	}
	if err != nil {
		return graph.Container{}, "", fmt.Errorf("failed to resolve access key: %w", err)
	}
	return c, graph.AccessRole(role), nil
}
