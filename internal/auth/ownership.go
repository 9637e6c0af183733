// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

package auth

import "github.com/samber/oops"

// Authorize permits mutation of an owner-scoped resource only by its
// owner. It denies when no principal is present or when the principal is
// not the owner. This is the only authorization rule in the system.
//
// The owner identifier must come from the resource's stored or encoded
// owner reference, never from client-supplied input.
func Authorize(p *Principal, resourceOwnerID int64) error {
	if p == nil {
		return oops.Code("AUTH_REQUIRED").Errorf("authentication required")
	}
	if p.ID != resourceOwnerID {
		return oops.Code("NOT_OWNER").
			With("principal_id", p.ID).
			With("owner_id", resourceOwnerID).
			Errorf("not the resource owner")
	}
	return nil
}
