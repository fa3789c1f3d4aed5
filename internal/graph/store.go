// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package graph

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a container, item or edge does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEdge is returned when the concept and object are already linked.
	ErrDuplicateEdge = errors.New("edge already exists")

	// ErrCrossContainer is returned when edge endpoints belong to different containers.
	ErrCrossContainer = errors.New("edge endpoints belong to different containers")

	// ErrDuplicateKey is returned when an access key is already used by any container.
	ErrDuplicateKey = errors.New("access key already in use")
)

// Store persists containers, items and annotation edges.
//
// Implementations must enforce that every edge's endpoints belong to the edge's
// container, that access keys are unique across all containers, and that deleting
// an item or container removes its edges.
type Store interface {
	CreateContainer(ctx context.Context, c Container) (Container, error)
	Container(ctx context.Context, id int64) (Container, error)
	Containers(ctx context.Context) ([]Container, error)
	DeleteContainer(ctx context.Context, id int64) error
	CloneContainer(ctx context.Context, id int64) (CloneResult, error)

	Concept(ctx context.Context, id int64) (Concept, error)
	Object(ctx context.Context, id int64) (Object, error)
	CreateConcept(ctx context.Context, c Concept) (Concept, error)
	CreateObject(ctx context.Context, o Object) (Object, error)
	UpdateConceptText(ctx context.Context, id int64, text string) error
	DeleteConcept(ctx context.Context, id int64) error
	DeleteObject(ctx context.Context, id int64) error

	Concepts(ctx context.Context, containerID int64) ([]Concept, error)
	Objects(ctx context.Context, containerID int64) ([]Object, error)
	Items(ctx context.Context, containerID int64, kind Kind) ([]Item, error)
	Edges(ctx context.Context, containerID int64) ([]Edge, error)

	Neighbors(ctx context.Context, ref Ref) ([]Ref, error)
	Degree(ctx context.Context, ref Ref) (int, error)

	CreateEdge(ctx context.Context, e Edge) error
	DeleteEdge(ctx context.Context, conceptID, objectID int64) error

	SetAccessKey(ctx context.Context, containerID int64, role AccessRole, key string) error
	ContainerByKey(ctx context.Context, key string) (Container, AccessRole, error)
}
