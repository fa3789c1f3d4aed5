// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package graph

import (
	"context"
	"errors"
	"testing"
)

func TestIssueAccessKeys(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c, _ := store.CreateContainer(ctx, Container{Name: "keys"})

	keys, err := IssueAccessKeys(ctx, store, c.ID)
	if err != nil {
		t.Fatalf("IssueAccessKeys() error = %v", err)
	}
	if len(keys) != len(AccessRoles) {
		t.Fatalf("len(keys) = %d, want %d", len(keys), len(AccessRoles))
	}

	seen := make(map[string]bool)
	for _, role := range AccessRoles {
		key := keys[role]
		if key == "" || seen[key] {
			t.Errorf("%s key %q is empty or repeated", role, key)
		}
		seen[key] = true

		got, gotRole, err := store.ContainerByKey(ctx, key)
		if err != nil {
			t.Fatalf("ContainerByKey(%s) error = %v", role, err)
		}
		if got.ID != c.ID || gotRole != role {
			t.Errorf("ContainerByKey(%s) = (%d, %s), want (%d, %s)", role, got.ID, gotRole, c.ID, role)
		}
	}
}

func TestIssueAccessKeys_RetriesOnCollision(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	a, _ := store.CreateContainer(ctx, Container{Name: "a"})
	b, _ := store.CreateContainer(ctx, Container{Name: "b"})
	if err := store.SetAccessKey(ctx, a.ID, RoleViewer, "taken"); err != nil {
		t.Fatal(err)
	}

	seq := []string{"taken", "v", "c", "x"}
	orig := newAccessKey
	t.Cleanup(func() { newAccessKey = orig })
	newAccessKey = func() string {
		k := seq[0]
		seq = seq[1:]
		return k
	}

	keys, err := IssueAccessKeys(ctx, store, b.ID)
	if err != nil {
		t.Fatalf("IssueAccessKeys() error = %v", err)
	}
	if keys[RoleViewer] != "v" || keys[RoleContributor] != "c" || keys[RoleAdministrator] != "x" {
		t.Errorf("keys = %v, want viewer v, contributor c, administrator x", keys)
	}
}

func TestIssueAccessKeys_GivesUp(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	a, _ := store.CreateContainer(ctx, Container{Name: "a"})
	b, _ := store.CreateContainer(ctx, Container{Name: "b"})
	if err := store.SetAccessKey(ctx, a.ID, RoleViewer, "taken"); err != nil {
		t.Fatal(err)
	}

	orig := newAccessKey
	t.Cleanup(func() { newAccessKey = orig })
	newAccessKey = func() string { return "taken" }

	if _, err := IssueAccessKeys(ctx, store, b.ID); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("IssueAccessKeys() error = %v, want ErrDuplicateKey", err)
	}
	if _, err := IssueAccessKeys(ctx, store, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("IssueAccessKeys(unknown) error = %v, want ErrNotFound", err)
	}
}
