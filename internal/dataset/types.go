// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package dataset

import (
	"time"

	"github.com/tomtom215/sage/internal/graph"
)

// FormatVersion is written to every exported dataset.
const FormatVersion = 1

// Dataset is the JSON document for one container.
// IDs are local to the document and are remapped on import.
type Dataset struct {
	Version     int          `json:"version" validate:"gte=0,lte=1"`
	Name        string       `json:"name" validate:"required,max=200"`
	Notes       string       `json:"notes,omitempty"`
	Algorithm   string       `json:"algorithm,omitempty" validate:"omitempty,algorithm"`
	Concepts    []Concept    `json:"concepts" validate:"dive"`
	Objects     []Object     `json:"objects" validate:"dive"`
	Annotations []Annotation `json:"annotations"`
}

// Concept is a dataset concept.
type Concept struct {
	ID   int64  `json:"id" validate:"gt=0"`
	Text string `json:"text" validate:"required"`
}

// Object is a dataset object.
type Object struct {
	ID      int64  `json:"id" validate:"gt=0"`
	Locator string `json:"locator" validate:"required"`
}

// Annotation links a dataset concept to a dataset object.
type Annotation struct {
	Concept    int64            `json:"concept"`
	Object     int64            `json:"object"`
	Provenance graph.Provenance `json:"provenance,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	OwnerID    *int64           `json:"owner_id,omitempty"`
}

// Stats holds counts for an import or export.
type Stats struct {
	ContainerID int64
	Concepts    int
	Objects     int
	Annotations int

	// Skipped counts annotations that referenced unknown items or repeated an edge.
	Skipped int

	// AccessKeys holds the keys issued to an imported container.
	AccessKeys map[graph.AccessRole]string

	StartTime time.Time
	EndTime   time.Time
}

// Duration returns how long the operation took.
func (s *Stats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}
