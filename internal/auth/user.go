// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/samber/oops"
)

// Credential validation constraints.
const (
	MinPasswordLength = 6
	MaxUsernameLength = 30
)

// emailRegex is a permissive shape check. Real validation happens when
// the address is used; this only rejects obvious garbage.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User represents a registered account.
type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	AvatarURL    *string
	WeChat       *string
	QQ           *string
	YY           *string
	CreatedAt    time.Time
}

// NewUser creates a validated User ready for persistence. The ID is
// assigned by the store on insert.
func NewUser(email, username, passwordHash string, createdAt time.Time) (*User, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code("VALIDATION_PASSWORD_HASH").Errorf("password hash cannot be empty")
	}
	if createdAt.IsZero() {
		return nil, oops.Code("VALIDATION_CREATED_AT").Errorf("creation time cannot be zero")
	}

	return &User{
		Email:        strings.ToLower(email),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
	}, nil
}

// ValidateEmail checks that the address is plausibly an email.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code("VALIDATION_EMAIL").Errorf("email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return oops.Code("VALIDATION_EMAIL").With("email", email).Errorf("email is not valid")
	}
	return nil
}

// ValidateUsername checks the display name constraints.
func ValidateUsername(username string) error {
	if username == "" {
		return oops.Code("VALIDATION_USERNAME").Errorf("username cannot be empty")
	}
	if len(username) > MaxUsernameLength {
		return oops.Code("VALIDATION_USERNAME").
			With("max", MaxUsernameLength).
			Errorf("username must be at most %d characters", MaxUsernameLength)
	}
	return nil
}

// ValidatePassword enforces the minimum length precondition. The
// plaintext is never retained; it exists only on the way into Hash.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return oops.Code("VALIDATION_PASSWORD").
			With("min", MinPasswordLength).
			Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user and assigns its ID. Returns ErrDuplicate
	// (wrapped) when the email or username is already taken.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID. Returns ErrNotFound (wrapped) if absent.
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByEmail retrieves a user by email (case-insensitive).
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*User, error)
}
