// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

package auth

import "context"

// Principal is the authenticated identity resolved from a valid session
// for the lifetime of one request. It is never persisted and never shared
// across requests.
type Principal struct {
	ID       int64
	Email    string
	Username string
}

type principalKey struct{}

// WithPrincipal returns a context carrying the resolved principal. The
// context is request-scoped and discarded when the request completes.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom extracts the principal attached by WithPrincipal, if any.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
