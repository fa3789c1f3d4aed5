// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package graph

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

type edgeKey struct {
	concept int64
	object  int64
}

type accessKey struct {
	container int64
	role      AccessRole
}

// MemoryStore is a Store held entirely in process memory.
// It is safe for concurrent use.
type MemoryStore struct {
	mu sync.RWMutex

	nextContainer int64
	nextConcept   int64
	nextObject    int64

	containers map[int64]Container
	concepts   map[int64]Concept
	objects    map[int64]Object
	edges      map[edgeKey]Edge

	// adjacency, kept in sync with edges
	conceptEdges map[int64]map[int64]struct{}
	objectEdges  map[int64]map[int64]struct{}

	keys    map[string]accessKey
	keyByID map[accessKey]string

	now func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		containers:   make(map[int64]Container),
		concepts:     make(map[int64]Concept),
		objects:      make(map[int64]Object),
		edges:        make(map[edgeKey]Edge),
		conceptEdges: make(map[int64]map[int64]struct{}),
		objectEdges:  make(map[int64]map[int64]struct{}),
		keys:         make(map[string]accessKey),
		keyByID:      make(map[accessKey]string),
		now:          time.Now,
	}
}

var _ Store = (*MemoryStore)(nil)

// CreateContainer stores a new container and assigns its ID.
//
//nolint:gocritic // hugeParam: value semantics mirror the SQL store
func (s *MemoryStore) CreateContainer(_ context.Context, c Container) (Container, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextContainer++
	c.ID = s.nextContainer
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	s.containers[c.ID] = c
	return c, nil
}

// Container returns a container by ID.
func (s *MemoryStore) Container(_ context.Context, id int64) (Container, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.containers[id]
	if !ok {
		return Container{}, fmt.Errorf("container %d: %w", id, ErrNotFound)
	}
	return c, nil
}

// Containers returns all containers ordered by ID.
func (s *MemoryStore) Containers(_ context.Context) ([]Container, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Container, 0, len(s.containers))
	for _, c := range s.containers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// DeleteContainer removes a container with all of its items, edges and keys.
func (s *MemoryStore) DeleteContainer(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.containers[id]; !ok {
		return fmt.Errorf("container %d: %w", id, ErrNotFound)
	}
	for cid, c := range s.concepts {
		if c.ContainerID == id {
			s.deleteConceptLocked(cid)
		}
	}
	for oid, o := range s.objects {
		if o.ContainerID == id {
			s.deleteObjectLocked(oid)
		}
	}
	for _, role := range AccessRoles {
		ak := accessKey{container: id, role: role}
		if key, ok := s.keyByID[ak]; ok {
			delete(s.keys, key)
			delete(s.keyByID, ak)
		}
	}
	delete(s.containers, id)
	return nil
}

// CloneContainer deep-copies a container's items and edges into a new container.
// Access keys are not copied.
func (s *MemoryStore) CloneContainer(_ context.Context, id int64) (CloneResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, ok := s.containers[id]
	if !ok {
		return CloneResult{}, fmt.Errorf("container %d: %w", id, ErrNotFound)
	}

	s.nextContainer++
	clone := Container{
		ID:        s.nextContainer,
		Name:      src.Name + " (clone)",
		Notes:     src.Notes,
		Algorithm: src.Algorithm,
		CreatedAt: s.now(),
	}
	s.containers[clone.ID] = clone

	result := CloneResult{
		ID:       clone.ID,
		Concepts: make(map[int64]int64),
		Objects:  make(map[int64]int64),
	}

	// Iterate in ID order so clone IDs are deterministic.
	for _, cid := range sortedKeys(s.concepts) {
		c := s.concepts[cid]
		if c.ContainerID != id {
			continue
		}
		s.nextConcept++
		s.concepts[s.nextConcept] = Concept{ID: s.nextConcept, ContainerID: clone.ID, Text: c.Text, CreatedAt: c.CreatedAt}
		result.Concepts[cid] = s.nextConcept
	}
	for _, oid := range sortedKeys(s.objects) {
		o := s.objects[oid]
		if o.ContainerID != id {
			continue
		}
		s.nextObject++
		s.objects[s.nextObject] = Object{ID: s.nextObject, ContainerID: clone.ID, Locator: o.Locator, CreatedAt: o.CreatedAt}
		result.Objects[oid] = s.nextObject
	}

	for _, e := range s.edgesLocked(id) {
		ne := e
		ne.ContainerID = clone.ID
		ne.ConceptID = result.Concepts[e.ConceptID]
		ne.ObjectID = result.Objects[e.ObjectID]
		s.insertEdgeLocked(ne)
	}

	return result, nil
}

// Concept returns a concept by ID.
func (s *MemoryStore) Concept(_ context.Context, id int64) (Concept, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.concepts[id]
	if !ok {
		return Concept{}, fmt.Errorf("concept %d: %w", id, ErrNotFound)
	}
	return c, nil
}

// Object returns an object by ID.
func (s *MemoryStore) Object(_ context.Context, id int64) (Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.objects[id]
	if !ok {
		return Object{}, fmt.Errorf("object %d: %w", id, ErrNotFound)
	}
	return o, nil
}

// CreateConcept stores a concept in an existing container.
//
//nolint:gocritic // hugeParam: value semantics mirror the SQL store
func (s *MemoryStore) CreateConcept(_ context.Context, c Concept) (Concept, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.containers[c.ContainerID]; !ok {
		return Concept{}, fmt.Errorf("container %d: %w", c.ContainerID, ErrNotFound)
	}
	s.nextConcept++
	c.ID = s.nextConcept
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	s.concepts[c.ID] = c
	return c, nil
}

// CreateObject stores an object in an existing container.
//
//nolint:gocritic // hugeParam: value semantics mirror the SQL store
func (s *MemoryStore) CreateObject(_ context.Context, o Object) (Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.containers[o.ContainerID]; !ok {
		return Object{}, fmt.Errorf("container %d: %w", o.ContainerID, ErrNotFound)
	}
	s.nextObject++
	o.ID = s.nextObject
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.now()
	}
	s.objects[o.ID] = o
	return o, nil
}

// UpdateConceptText replaces a concept's text.
func (s *MemoryStore) UpdateConceptText(_ context.Context, id int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.concepts[id]
	if !ok {
		return fmt.Errorf("concept %d: %w", id, ErrNotFound)
	}
	c.Text = text
	s.concepts[id] = c
	return nil
}

// DeleteConcept removes a concept and its edges.
func (s *MemoryStore) DeleteConcept(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.concepts[id]; !ok {
		return fmt.Errorf("concept %d: %w", id, ErrNotFound)
	}
	s.deleteConceptLocked(id)
	return nil
}

// DeleteObject removes an object and its edges.
func (s *MemoryStore) DeleteObject(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[id]; !ok {
		return fmt.Errorf("object %d: %w", id, ErrNotFound)
	}
	s.deleteObjectLocked(id)
	return nil
}

// Concepts returns a container's concepts ordered by ID.
func (s *MemoryStore) Concepts(_ context.Context, containerID int64) ([]Concept, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.containers[containerID]; !ok {
		return nil, fmt.Errorf("container %d: %w", containerID, ErrNotFound)
	}
	var out []Concept
	for _, id := range sortedKeys(s.concepts) {
		if c := s.concepts[id]; c.ContainerID == containerID {
			out = append(out, c)
		}
	}
	return out, nil
}

// Objects returns a container's objects ordered by ID.
func (s *MemoryStore) Objects(_ context.Context, containerID int64) ([]Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.containers[containerID]; !ok {
		return nil, fmt.Errorf("container %d: %w", containerID, ErrNotFound)
	}
	var out []Object
	for _, id := range sortedKeys(s.objects) {
		if o := s.objects[id]; o.ContainerID == containerID {
			out = append(out, o)
		}
	}
	return out, nil
}

// Items returns a container's items of one kind.
func (s *MemoryStore) Items(ctx context.Context, containerID int64, kind Kind) ([]Item, error) {
	switch kind {
	case KindConcept:
		concepts, err := s.Concepts(ctx, containerID)
		if err != nil {
			return nil, err
		}
		items := make([]Item, len(concepts))
		for i, c := range concepts {
			items[i] = Item{Ref: c.Ref(), ContainerID: c.ContainerID, Label: c.Text}
		}
		return items, nil
	case KindObject:
		objects, err := s.Objects(ctx, containerID)
		if err != nil {
			return nil, err
		}
		items := make([]Item, len(objects))
		for i, o := range objects {
			items[i] = Item{Ref: o.Ref(), ContainerID: o.ContainerID, Label: o.Locator}
		}
		return items, nil
	default:
		return nil, fmt.Errorf("items: invalid kind %v", kind)
	}
}

// Edges returns a container's edges ordered by (concept, object).
func (s *MemoryStore) Edges(_ context.Context, containerID int64) ([]Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.containers[containerID]; !ok {
		return nil, fmt.Errorf("container %d: %w", containerID, ErrNotFound)
	}
	return s.edgesLocked(containerID), nil
}

// Neighbors returns the opposite-type items linked to ref, ordered by ID.
func (s *MemoryStore) Neighbors(_ context.Context, ref Ref) ([]Ref, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	adj, err := s.adjacencyLocked(ref)
	if err != nil {
		return nil, err
	}
	out := make([]Ref, 0, len(adj))
	for _, id := range sortedSet(adj) {
		out = append(out, Ref{Kind: ref.Kind.Opposite(), ID: id})
	}
	return out, nil
}

// Degree returns the number of edges touching ref.
func (s *MemoryStore) Degree(_ context.Context, ref Ref) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	adj, err := s.adjacencyLocked(ref)
	if err != nil {
		return 0, err
	}
	return len(adj), nil
}

// CreateEdge links a concept and an object of the same container.
//
//nolint:gocritic // hugeParam: value semantics mirror the SQL store
func (s *MemoryStore) CreateEdge(_ context.Context, e Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.concepts[e.ConceptID]
	if !ok {
		return fmt.Errorf("concept %d: %w", e.ConceptID, ErrNotFound)
	}
	o, ok := s.objects[e.ObjectID]
	if !ok {
		return fmt.Errorf("object %d: %w", e.ObjectID, ErrNotFound)
	}
	if c.ContainerID != o.ContainerID {
		return fmt.Errorf("concept %d, object %d: %w", e.ConceptID, e.ObjectID, ErrCrossContainer)
	}
	if e.ContainerID == 0 {
		e.ContainerID = c.ContainerID
	}
	if e.ContainerID != c.ContainerID {
		return fmt.Errorf("edge container %d: %w", e.ContainerID, ErrCrossContainer)
	}
	if _, exists := s.edges[edgeKey{e.ConceptID, e.ObjectID}]; exists {
		return fmt.Errorf("concept %d, object %d: %w", e.ConceptID, e.ObjectID, ErrDuplicateEdge)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	if e.Provenance == "" {
		e.Provenance = ProvenanceNew
	}
	s.insertEdgeLocked(e)
	return nil
}

// DeleteEdge removes the edge between a concept and an object.
func (s *MemoryStore) DeleteEdge(_ context.Context, conceptID, objectID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := edgeKey{conceptID, objectID}
	if _, ok := s.edges[k]; !ok {
		return fmt.Errorf("edge %d-%d: %w", conceptID, objectID, ErrNotFound)
	}
	s.removeEdgeLocked(k)
	return nil
}

// SetAccessKey assigns (or clears, with an empty key) one of a container's access keys.
func (s *MemoryStore) SetAccessKey(_ context.Context, containerID int64, role AccessRole, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !role.Valid() {
		return fmt.Errorf("access role %q is not valid", role)
	}
	if _, ok := s.containers[containerID]; !ok {
		return fmt.Errorf("container %d: %w", containerID, ErrNotFound)
	}
	ak := accessKey{container: containerID, role: role}
	if key != "" {
		if owner, taken := s.keys[key]; taken && owner != ak {
			return ErrDuplicateKey
		}
	}
	if old, ok := s.keyByID[ak]; ok {
		delete(s.keys, old)
		delete(s.keyByID, ak)
	}
	if key != "" {
		s.keys[key] = ak
		s.keyByID[ak] = key
	}
	return nil
}

// ContainerByKey resolves an access key to its container and role.
func (s *MemoryStore) ContainerByKey(_ context.Context, key string) (Container, AccessRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ak, ok := s.keys[key]
	if !ok || key == "" {
		return Container{}, "", fmt.Errorf("access key: %w", ErrNotFound)
	}
	return s.containers[ak.container], ak.role, nil
}

func (s *MemoryStore) adjacencyLocked(ref Ref) (map[int64]struct{}, error) {
	switch ref.Kind {
	case KindConcept:
		if _, ok := s.concepts[ref.ID]; !ok {
			return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
		}
		return s.conceptEdges[ref.ID], nil
	case KindObject:
		if _, ok := s.objects[ref.ID]; !ok {
			return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
		}
		return s.objectEdges[ref.ID], nil
	default:
		return nil, fmt.Errorf("invalid ref %s", ref)
	}
}

//nolint:gocritic // hugeParam: value semantics mirror the SQL store
func (s *MemoryStore) insertEdgeLocked(e Edge) {
	s.edges[edgeKey{e.ConceptID, e.ObjectID}] = e
	if s.conceptEdges[e.ConceptID] == nil {
		s.conceptEdges[e.ConceptID] = make(map[int64]struct{})
	}
	s.conceptEdges[e.ConceptID][e.ObjectID] = struct{}{}
	if s.objectEdges[e.ObjectID] == nil {
		s.objectEdges[e.ObjectID] = make(map[int64]struct{})
	}
	s.objectEdges[e.ObjectID][e.ConceptID] = struct{}{}
}

func (s *MemoryStore) removeEdgeLocked(k edgeKey) {
	delete(s.edges, k)
	delete(s.conceptEdges[k.concept], k.object)
	delete(s.objectEdges[k.object], k.concept)
}

func (s *MemoryStore) deleteConceptLocked(id int64) {
	for oid := range s.conceptEdges[id] {
		s.removeEdgeLocked(edgeKey{id, oid})
	}
	delete(s.conceptEdges, id)
	delete(s.concepts, id)
}

func (s *MemoryStore) deleteObjectLocked(id int64) {
	for cid := range s.objectEdges[id] {
		s.removeEdgeLocked(edgeKey{cid, id})
	}
	delete(s.objectEdges, id)
	delete(s.objects, id)
}

func (s *MemoryStore) edgesLocked(containerID int64) []Edge {
	var out []Edge
	for _, e := range s.edges {
		if e.ContainerID == containerID {
			out = append(out, e)
		}
	}
	SortEdges(out)
	return out
}

// SortEdges orders edges by concept ID, then object ID.
func SortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].ConceptID != edges[j].ConceptID {
			return edges[i].ConceptID < edges[j].ConceptID
		}
		return edges[i].ObjectID < edges[j].ObjectID
	})
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func sortedSet(m map[int64]struct{}) []int64 {
	return sortedKeys(m)
}
