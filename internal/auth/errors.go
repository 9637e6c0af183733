// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique constraint (email, username)
// would be violated.
var ErrDuplicate = errors.New("already exists")
