// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

// Package authtest provides in-memory test doubles for auth repositories.
package authtest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/squadup/squadup/internal/auth"
)

// UserRepo is an in-memory auth.UserRepository.
type UserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*auth.User

	// CreateErr, when set, is returned by Create.
	CreateErr error
	// GetErr, when set, is returned by all lookups.
	GetErr error
}

// NewUserRepo creates an empty UserRepo.
func NewUserRepo() *UserRepo {
	return &UserRepo{nextID: 1, users: make(map[int64]*auth.User)}
}

// Create assigns an ID and stores a copy of the user.
func (r *UserRepo) Create(_ context.Context, user *auth.User) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) || u.Username == user.Username {
			return auth.ErrDuplicate
		}
	}
	user.ID = r.nextID
	r.nextID++
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

// GetByID returns the stored user or auth.ErrNotFound.
func (r *UserRepo) GetByID(_ context.Context, id int64) (*auth.User, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// GetByEmail returns the stored user or auth.ErrNotFound.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, auth.ErrNotFound
}

// GetByUsername returns the stored user or auth.ErrNotFound.
func (r *UserRepo) GetByUsername(_ context.Context, username string) (*auth.User, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, auth.ErrNotFound
}

// SessionRepo is an in-memory auth.SessionRepository keyed by token hash.
type SessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*auth.Session

	// CreateErr, when set, is returned by Create.
	CreateErr error
}

// NewSessionRepo creates an empty SessionRepo.
func NewSessionRepo() *SessionRepo {
	return &SessionRepo{sessions: make(map[string]*auth.Session)}
}

// Create stores a copy of the session.
func (r *SessionRepo) Create(_ context.Context, session *auth.Session) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *session
	r.sessions[session.TokenHash] = &cp
	return nil
}

// GetByTokenHash returns the stored session or auth.ErrNotFound.
func (r *SessionRepo) GetByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[tokenHash]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

// DeleteByTokenHash removes the session if present.
func (r *SessionRepo) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, tokenHash)
	return nil
}

// DeleteExpired removes sessions expiring before the given instant.
func (r *SessionRepo) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for hash, s := range r.sessions {
		if s.ExpiresAt.Before(before) {
			delete(r.sessions, hash)
			n++
		}
	}
	return n, nil
}

// Len reports the number of live sessions.
func (r *SessionRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Compile-time interface checks.
var (
	_ auth.UserRepository    = (*UserRepo)(nil)
	_ auth.SessionRepository = (*SessionRepo)(nil)
)
