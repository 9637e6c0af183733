// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

// Package auth provides authentication and ownership primitives for SquadUp.
//
// # Domain Types
//
// Domain types (User, Session, Principal) should be created using their
// respective constructors:
//   - NewUser - creates a User with validated email, username and password hash
//   - NewSession - creates a Session with validated owner and expiry
//
// Direct struct initialization bypasses validation and may create invalid
// state. Repository implementations receive pre-validated types from these
// constructors.
//
// # Services
//
// Service coordinates the domain operations: registration, login, token
// validation (with lazy expiry) and revocation. All time handling routes
// through an injected clock.Clock so expiry is deterministic under test and
// independent of the host timezone.
//
// # Ownership
//
// Authorize is the single authorization rule in the system: a principal may
// mutate a resource only when it is the resource's owner. There is no role
// hierarchy and no admin override.
package auth
