// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/squadup/squadup/internal/clock"
)

// Service provides registration, login, session validation and revocation.
type Service struct {
	users    UserRepository
	sessions SessionRepository
	hasher   PasswordHasher
	clock    clock.Clock
	ttl      time.Duration
}

// NewService creates a new Service with the default session lifetime.
func NewService(users UserRepository, sessions SessionRepository, hasher PasswordHasher, clk clock.Clock) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		clock:    clk,
		ttl:      SessionTTL,
	}
}

// SetSessionTTL overrides the session lifetime for newly created
// sessions. Zero or negative values are ignored.
func (s *Service) SetSessionTTL(ttl time.Duration) {
	if ttl > 0 {
		s.ttl = ttl
	}
}

// dummyPasswordHash is used when a user doesn't exist to prevent timing
// attacks. We still run password verification to make response time
// consistent. This is NOT a real credential - it's a fake hash that will
// never match any password.
//
//nolint:gosec // G101: intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// RegisterParams carries the registration input.
type RegisterParams struct {
	Email    string
	Username string
	Password string
	WeChat   *string
	QQ       *string
	YY       *string
}

// Register creates a new user and an initial session. Validation failures
// short-circuit before any persistence access. Returns the created user
// and the plaintext session token.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, string, error) {
	if err := ValidatePassword(params.Password); err != nil {
		return nil, "", err
	}

	digest, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, "", oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := NewUser(params.Email, params.Username, digest, s.clock.Now())
	if err != nil {
		return nil, "", err
	}
	user.WeChat = params.WeChat
	user.QQ = params.QQ
	user.YY = params.YY

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, "", oops.Code("VALIDATION_DUPLICATE").
				Errorf("email or username is already registered")
		}
		return nil, "", oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create user").
			Wrap(err)
	}

	token, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login verifies credentials and issues a new session, independent from
// any prior sessions for the same user. Uses constant-time operations to
// prevent timing-based account enumeration.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	if email == "" {
		return nil, "", oops.Code("VALIDATION_EMAIL").Errorf("email cannot be empty")
	}
	if password == "" {
		return nil, "", oops.Code("VALIDATION_PASSWORD").Errorf("password cannot be empty")
	}

	user, lookupErr := s.users.GetByEmail(ctx, strings.ToLower(email))

	// Pick the hash to verify against (real or dummy for timing attack
	// prevention).
	targetHash := dummyPasswordHash
	userExists := false

	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by email").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !userExists {
			return nil, "", oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid email or password")
		}
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	// Absent user and wrong password produce the same error.
	if !userExists || !valid {
		return nil, "", oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid email or password")
	}

	token, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// createSession inserts a fresh session expiring ttl from now and
// returns the plaintext token.
func (s *Service) createSession(ctx context.Context, userID int64) (string, error) {
	token, tokenHash, err := GenerateSessionToken()
	if err != nil {
		return "", err
	}

	now := s.clock.Now()
	session, err := NewSession(userID, tokenHash, now, now.Add(s.ttl))
	if err != nil {
		return "", err
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return "", oops.Code("SESSION_CREATE_FAILED").
			With("operation", "persist session").
			Wrap(err)
	}

	return token, nil
}

// Validate resolves a session token to a Principal. An absent session
// returns SESSION_INVALID; an expired one is deleted on detection (lazy
// expiry, no background sweeper) and returns SESSION_EXPIRED.
func (s *Service) Validate(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, oops.Code("AUTH_REQUIRED").Errorf("session token cannot be empty")
	}

	tokenHash := HashSessionToken(token)

	session, err := s.sessions.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("SESSION_INVALID").Errorf("invalid session token")
		}
		return nil, oops.Code("SESSION_VALIDATE_FAILED").
			With("operation", "get session by token hash").
			Wrap(err)
	}

	if session.IsExpiredAt(s.clock.Now()) {
		// A race between two requests detecting the same expired session
		// is harmless: the delete is idempotent.
		_ = s.sessions.DeleteByTokenHash(ctx, tokenHash) //nolint:errcheck // Best effort, result is the same
		return nil, oops.Code("SESSION_EXPIRED").Errorf("session has expired")
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("SESSION_INVALID").Errorf("invalid session token")
		}
		return nil, oops.Code("SESSION_VALIDATE_FAILED").
			With("operation", "resolve session owner").
			With("user_id", session.UserID).
			Wrap(err)
	}

	return &Principal{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
	}, nil
}

// Revoke deletes the session matching the token. Revoking an unknown or
// already-deleted token is a no-op (idempotent logout).
func (s *Service) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return oops.Code("AUTH_REQUIRED").Errorf("session token cannot be empty")
	}
	if err := s.sessions.DeleteByTokenHash(ctx, HashSessionToken(token)); err != nil {
		return oops.Code("SESSION_REVOKE_FAILED").
			With("operation", "delete session").
			Wrap(err)
	}
	return nil
}

// Me returns the public identity for an already-resolved principal's user.
func (s *Service) Me(ctx context.Context, principalID int64) (*User, error) {
	user, err := s.users.GetByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("USER_NOT_FOUND").With("user_id", principalID).Wrap(err)
		}
		return nil, oops.Code("USER_GET_FAILED").With("user_id", principalID).Wrap(err)
	}
	return user, nil
}
