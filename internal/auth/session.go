// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Session token configuration.
const (
	SessionTokenBytes = 24                 // random component: 24 bytes = 48 hex chars
	SessionTTL        = 7 * 24 * time.Hour // one week
)

// Session represents one authenticated device/login. A user may hold any
// number of concurrent sessions. A session is either present and unexpired
// (valid) or absent (revoked or lazily expired); there is no visible
// "expired but present" state.
type Session struct {
	ID        ulid.ULID
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewSession creates a validated Session instance. The expiry must be
// strictly later than the creation instant.
func NewSession(userID int64, tokenHash string, createdAt, expiresAt time.Time) (*Session, error) {
	if userID <= 0 {
		return nil, oops.Code("SESSION_INVALID_USER").Errorf("user ID must be positive")
	}
	if tokenHash == "" {
		return nil, oops.Code("SESSION_INVALID_HASH").Errorf("token hash cannot be empty")
	}
	if createdAt.IsZero() || expiresAt.IsZero() {
		return nil, oops.Code("SESSION_INVALID_EXPIRY").Errorf("creation and expiry times cannot be zero")
	}
	if !expiresAt.After(createdAt) {
		return nil, oops.Code("SESSION_INVALID_EXPIRY").
			With("created_at", createdAt).
			With("expires_at", expiresAt).
			Errorf("expiry must be after creation")
	}

	return &Session{
		ID:        ulid.Make(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: createdAt,
	}, nil
}

// IsExpiredAt returns true if the session would be expired at the given
// instant.
func (s *Session) IsExpiredAt(t time.Time) bool {
	return t.After(s.ExpiresAt)
}

// GenerateSessionToken creates an opaque session token and its hash.
// Returns (plaintext_token, sha256_hash, error).
//
// The token combines a ULID (monotonic time component) with a
// cryptographically random suffix; it is never derived from
// user-predictable data. The plaintext is sent to the client once; only
// the hash is stored.
func GenerateSessionToken() (token, hash string, err error) {
	random := make([]byte, SessionTokenBytes)
	if _, err = rand.Read(random); err != nil {
		return "", "", oops.Code("SESSION_TOKEN_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			With("requested_bytes", SessionTokenBytes).
			Wrap(err)
	}

	token = strings.ToLower(ulid.Make().String()) + hex.EncodeToString(random)
	hash = HashSessionToken(token)

	return token, hash, nil
}

// HashSessionToken computes the SHA256 hash of a session token. This is
// what gets persisted; a leaked sessions table does not leak usable tokens.
func HashSessionToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// VerifySessionToken checks if the plaintext token matches the stored hash.
// Uses constant-time comparison to prevent timing attacks.
func VerifySessionToken(token, hash string) (bool, error) {
	if token == "" {
		return false, oops.Code("SESSION_TOKEN_EMPTY").Errorf("session token cannot be empty")
	}
	if hash == "" {
		return false, oops.Code("SESSION_HASH_EMPTY").Errorf("stored hash cannot be empty")
	}
	computed := HashSessionToken(token)
	// Both are hex-encoded SHA256 hashes, use constant-time compare
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1, nil
}

// SessionRepository manages session persistence. Each method is a single
// read or a single write; no operation spans writes that must be atomic
// together.
type SessionRepository interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// GetByTokenHash retrieves a session by its token hash. Returns
	// ErrNotFound (wrapped) if absent.
	GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error)

	// DeleteByTokenHash removes a session by its token hash. Deleting an
	// absent session is a no-op, not an error; revocation and lazy-expiry
	// races are harmless.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error

	// DeleteExpired removes all sessions that expired before the given
	// instant and returns the count of deleted rows. Nothing in the
	// service schedules this; it exists for operators.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
