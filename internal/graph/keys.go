// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// maxKeyAttempts bounds retries when a generated key is already taken.
const maxKeyAttempts = 5

// AccessRoles lists the roles in ascending privilege.
var AccessRoles = []AccessRole{RoleViewer, RoleContributor, RoleAdministrator}

var newAccessKey = uuid.NewString

// IssueAccessKeys assigns a fresh random key for every role of a container,
// replacing any existing keys.
func IssueAccessKeys(ctx context.Context, store Store, containerID int64) (map[AccessRole]string, error) {
	keys := make(map[AccessRole]string, len(AccessRoles))
	for _, role := range AccessRoles {
		key, err := issueKey(ctx, store, containerID, role)
		if err != nil {
			return nil, err
		}
		keys[role] = key
	}
	return keys, nil
}

func issueKey(ctx context.Context, store Store, containerID int64, role AccessRole) (string, error) {
	for attempt := 0; attempt < maxKeyAttempts; attempt++ {
		key := newAccessKey()
		err := store.SetAccessKey(ctx, containerID, role, key)
		if err == nil {
			return key, nil
		}
		if !errors.Is(err, ErrDuplicateKey) {
			return "", fmt.Errorf("set %s key: %w", role, err)
		}
	}
	return "", fmt.Errorf("set %s key: %w after %d attempts", role, ErrDuplicateKey, maxKeyAttempts)
}
