// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/sage/internal/graph"
	"github.com/tomtom215/sage/internal/validation"
)

// ErrInvalidDataset is returned when a document fails validation.
var ErrInvalidDataset = errors.New("invalid dataset")

// Decode reads and validates a dataset document.
func Decode(r io.Reader) (*Dataset, error) {
	var ds Dataset
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if verr := validation.ValidateStruct(&ds); verr != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDataset, verr.Error())
	}
	if err := checkUniqueIDs(&ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

func checkUniqueIDs(ds *Dataset) error {
	concepts := make(map[int64]struct{}, len(ds.Concepts))
	for _, c := range ds.Concepts {
		if _, dup := concepts[c.ID]; dup {
			return fmt.Errorf("%w: duplicate concept id %d", ErrInvalidDataset, c.ID)
		}
		concepts[c.ID] = struct{}{}
	}
	objects := make(map[int64]struct{}, len(ds.Objects))
	for _, o := range ds.Objects {
		if _, dup := objects[o.ID]; dup {
			return fmt.Errorf("%w: duplicate object id %d", ErrInvalidDataset, o.ID)
		}
		objects[o.ID] = struct{}{}
	}
	return nil
}

// Importer loads datasets into a store as new containers.
type Importer struct {
	store  graph.Store
	logger zerolog.Logger
}

// NewImporter creates an importer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewImporter(store graph.Store, logger zerolog.Logger) *Importer {
	return &Importer{
		store:  store,
		logger: logger.With().Str("component", "dataset").Logger(),
	}
}

// Import decodes r and creates a container holding its items and annotations.
// Annotations naming unknown items or repeating an edge are skipped and counted.
// On failure the partially created container is deleted.
func (i *Importer) Import(ctx context.Context, r io.Reader) (*Stats, error) {
	ds, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return i.ImportDataset(ctx, ds)
}

// ImportDataset creates a container from an already decoded dataset.
func (i *Importer) ImportDataset(ctx context.Context, ds *Dataset) (stats *Stats, err error) {
	stats = &Stats{StartTime: time.Now()}

	container, err := i.store.CreateContainer(ctx, graph.Container{
		Name:      ds.Name,
		Notes:     ds.Notes,
		Algorithm: ds.Algorithm,
	})
	if err != nil {
		return nil, fmt.Errorf("create container: %w", err)
	}
	stats.ContainerID = container.ID
	defer func() {
		if err == nil {
			return
		}
		if derr := i.store.DeleteContainer(context.WithoutCancel(ctx), container.ID); derr != nil {
			err = errors.Join(err, fmt.Errorf("delete partial container %d: %w", container.ID, derr))
		}
	}()

	concepts := make(map[int64]int64, len(ds.Concepts))
	for _, c := range ds.Concepts {
		created, err := i.store.CreateConcept(ctx, graph.Concept{ContainerID: container.ID, Text: c.Text})
		if err != nil {
			return nil, fmt.Errorf("create concept %d: %w", c.ID, err)
		}
		concepts[c.ID] = created.ID
	}
	stats.Concepts = len(concepts)

	objects := make(map[int64]int64, len(ds.Objects))
	for _, o := range ds.Objects {
		created, err := i.store.CreateObject(ctx, graph.Object{ContainerID: container.ID, Locator: o.Locator})
		if err != nil {
			return nil, fmt.Errorf("create object %d: %w", o.ID, err)
		}
		objects[o.ID] = created.ID
	}
	stats.Objects = len(objects)

	for _, a := range ds.Annotations {
		conceptID, okC := concepts[a.Concept]
		objectID, okO := objects[a.Object]
		if !okC || !okO {
			stats.Skipped++
			i.logger.Warn().Int64("concept", a.Concept).Int64("object", a.Object).Msg("Skipping annotation with unknown item")
			continue
		}
		provenance := a.Provenance
		if provenance == "" {
			provenance = graph.ProvenanceImported
		}
		err := i.store.CreateEdge(ctx, graph.Edge{
			ContainerID: container.ID,
			ConceptID:   conceptID,
			ObjectID:    objectID,
			Provenance:  provenance,
			CreatedAt:   a.CreatedAt,
			OwnerID:     a.OwnerID,
		})
		if errors.Is(err, graph.ErrDuplicateEdge) {
			stats.Skipped++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create annotation %d-%d: %w", a.Concept, a.Object, err)
		}
		stats.Annotations++
	}

	stats.AccessKeys, err = graph.IssueAccessKeys(ctx, i.store, container.ID)
	if err != nil {
		return nil, fmt.Errorf("issue access keys: %w", err)
	}

	stats.EndTime = time.Now()
	i.logger.Info().
		Int64("container_id", container.ID).
		Int("concepts", stats.Concepts).
		Int("objects", stats.Objects).
		Int("annotations", stats.Annotations).
		Int("skipped", stats.Skipped).
		Dur("duration", stats.Duration()).
		Msg("Dataset imported")
	return stats, nil
}
