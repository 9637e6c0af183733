// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

// Package team implements game team listings: recruitment posts players
// create, browse, and manage.
package team

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
)

// Field constraints.
const (
	MaxGameLength        = 40
	MaxTitleLength       = 80
	MaxDescriptionLength = 2000

	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ErrNotFound is returned (wrapped) when a team does not exist.
var ErrNotFound = errors.New("team not found")

// Status describes whether a team is still recruiting.
type Status string

// Recruitment states.
const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
	StatusFull   Status = "full"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusClosed, StatusFull:
		return true
	}
	return false
}

// Team is a recruitment post owned by its creator.
type Team struct {
	ID          int64
	CreatorID   int64
	Game        string
	Title       string
	Description *string
	Contact     *string
	Status      Status
	CreatedAt   time.Time
}

// New creates a validated Team in the open state. The ID is assigned by
// the store on insert.
func New(creatorID int64, game, title string, createdAt time.Time) (*Team, error) {
	if creatorID <= 0 {
		return nil, oops.Code("VALIDATION_CREATOR").Errorf("creator ID must be positive")
	}
	if err := ValidateGame(game); err != nil {
		return nil, err
	}
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if createdAt.IsZero() {
		return nil, oops.Code("VALIDATION_CREATED_AT").Errorf("creation time cannot be zero")
	}

	return &Team{
		CreatorID: creatorID,
		Game:      game,
		Title:     title,
		Status:    StatusOpen,
		CreatedAt: createdAt,
	}, nil
}

// ValidateGame checks the game name constraints.
func ValidateGame(game string) error {
	if game == "" {
		return oops.Code("VALIDATION_GAME").Errorf("game cannot be empty")
	}
	if len(game) > MaxGameLength {
		return oops.Code("VALIDATION_GAME").
			With("max", MaxGameLength).
			Errorf("game must be at most %d characters", MaxGameLength)
	}
	return nil
}

// ValidateTitle checks the post title constraints.
func ValidateTitle(title string) error {
	if title == "" {
		return oops.Code("VALIDATION_TITLE").Errorf("title cannot be empty")
	}
	if len(title) > MaxTitleLength {
		return oops.Code("VALIDATION_TITLE").
			With("max", MaxTitleLength).
			Errorf("title must be at most %d characters", MaxTitleLength)
	}
	return nil
}

// ValidateDescription checks the optional description length.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return oops.Code("VALIDATION_DESCRIPTION").
			With("max", MaxDescriptionLength).
			Errorf("description must be at most %d characters", MaxDescriptionLength)
	}
	return nil
}

// ValidateStatus checks that the status is a known value.
func ValidateStatus(status Status) error {
	if !status.Valid() {
		return oops.Code("VALIDATION_STATUS").
			With("status", string(status)).
			Errorf("status must be one of open, closed, full")
	}
	return nil
}

// ListFilter narrows and pages team listings. Zero values mean "no
// filter" for Game and Status.
type ListFilter struct {
	Game   string
	Status Status
	Limit  int
	Offset int
}

// Normalize clamps paging to sane bounds.
func (f *ListFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// Repository manages team persistence.
type Repository interface {
	// Create stores a new team and assigns its ID.
	Create(ctx context.Context, t *Team) error

	// GetByID retrieves a team by ID. Returns ErrNotFound (wrapped) if absent.
	GetByID(ctx context.Context, id int64) (*Team, error)

	// Update persists changed fields of an existing team.
	// Returns ErrNotFound (wrapped) if the team no longer exists.
	Update(ctx context.Context, t *Team) error

	// Delete removes a team. Returns ErrNotFound (wrapped) if absent.
	Delete(ctx context.Context, id int64) error

	// List returns teams matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]*Team, error)
}
