// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package graph

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind distinguishes the two sides of the annotation graph.
type Kind int

const (
	// KindConcept identifies short textual tags.
	KindConcept Kind = iota + 1

	// KindObject identifies referenced resources (files, URLs).
	KindObject
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindConcept:
		return "concept"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Opposite returns the kind on the other side of an edge.
func (k Kind) Opposite() Kind {
	if k == KindConcept {
		return KindObject
	}
	return KindConcept
}

// Valid reports whether k is one of the two item kinds.
func (k Kind) Valid() bool {
	return k == KindConcept || k == KindObject
}

// ParseKind converts "concept"/"object" (and plurals) to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "concept", "concepts":
		return KindConcept, nil
	case "object", "objects":
		return KindObject, nil
	default:
		return 0, fmt.Errorf("unknown item kind %q", s)
	}
}

// Ref identifies an item on either side of the graph.
// Concept and object IDs are allocated independently, so the kind is part of the identity.
type Ref struct {
	Kind Kind
	ID   int64
}

// ConceptRef returns a reference to a concept.
func ConceptRef(id int64) Ref { return Ref{Kind: KindConcept, ID: id} }

// ObjectRef returns a reference to an object.
func ObjectRef(id int64) Ref { return Ref{Kind: KindObject, ID: id} }

// String renders the ref as "concept:12".
func (r Ref) String() string {
	return fmt.Sprintf("%s:%d", r.Kind, r.ID)
}

// ParseRef is the inverse of Ref.String: "concept:12" or "object:3".
func ParseRef(s string) (Ref, error) {
	kindStr, idStr, ok := strings.Cut(s, ":")
	if !ok {
		return Ref{}, fmt.Errorf("item reference %q: want <kind>:<id>", s)
	}
	kind, err := ParseKind(kindStr)
	if err != nil {
		return Ref{}, err
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return Ref{}, fmt.Errorf("item reference %q: invalid id", s)
	}
	return Ref{Kind: kind, ID: id}, nil
}

// Less orders refs by kind, then ID.
func (r Ref) Less(o Ref) bool {
	if r.Kind != o.Kind {
		return r.Kind < o.Kind
	}
	return r.ID < o.ID
}

// Provenance records how an annotation came to exist.
type Provenance string

const (
	// ProvenanceExisting marks an annotation confirmed from a suggestion.
	ProvenanceExisting Provenance = "Existing"

	// ProvenanceNew marks an annotation whose concept was typed in fresh.
	ProvenanceNew Provenance = "New"

	// ProvenancePulled marks an annotation pulled in from another item.
	ProvenancePulled Provenance = "Pulled"

	// ProvenanceImported marks an annotation loaded from a dataset file.
	ProvenanceImported Provenance = "Imported"
)

// Container groups concepts, objects and the edges between them (a project).
type Container struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Notes     string    `json:"notes,omitempty"`
	Algorithm string    `json:"algorithm,omitempty"` // preferred suggestion algorithm key
	CreatedAt time.Time `json:"created_at"`
}

// Concept is a textual tag.
type Concept struct {
	ID          int64     `json:"id"`
	ContainerID int64     `json:"container_id"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}

// Ref returns the concept's graph reference.
func (c Concept) Ref() Ref { return ConceptRef(c.ID) }

// Object is an annotated resource identified by a locator.
type Object struct {
	ID          int64     `json:"id"`
	ContainerID int64     `json:"container_id"`
	Locator     string    `json:"locator"`
	CreatedAt   time.Time `json:"created_at"`
}

// Ref returns the object's graph reference.
func (o Object) Ref() Ref { return ObjectRef(o.ID) }

// Item is the kind-agnostic view of a concept or object.
type Item struct {
	Ref         Ref
	ContainerID int64
	Label       string // concept text or object locator
}

// Edge is an annotation linking a concept to an object.
type Edge struct {
	ContainerID int64      `json:"container_id"`
	ConceptID   int64      `json:"concept_id"`
	ObjectID    int64      `json:"object_id"`
	Provenance  Provenance `json:"provenance"`
	CreatedAt   time.Time  `json:"created_at"`
	OwnerID     *int64     `json:"owner_id,omitempty"`
}

// AccessRole names the three container access keys.
type AccessRole string

const (
	RoleViewer        AccessRole = "Viewer"
	RoleContributor   AccessRole = "Contributor"
	RoleAdministrator AccessRole = "Administrator"
)

// Valid reports whether r is a known role.
func (r AccessRole) Valid() bool {
	switch r {
	case RoleViewer, RoleContributor, RoleAdministrator:
		return true
	}
	return false
}

// CloneResult describes a container produced by CloneContainer.
type CloneResult struct {
	ID       int64
	Concepts map[int64]int64 // source concept ID -> clone concept ID
	Objects  map[int64]int64 // source object ID -> clone object ID
}
