// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

package team

import (
	"context"
	"errors"

	"github.com/samber/oops"

	"github.com/squadup/squadup/internal/auth"
	"github.com/squadup/squadup/internal/clock"
)

// Service provides team CRUD with creator-only modification.
type Service struct {
	teams Repository
	clock clock.Clock
}

// NewService creates a new Service.
func NewService(teams Repository, clk clock.Clock) *Service {
	return &Service{teams: teams, clock: clk}
}

// CreateParams carries the team creation input.
type CreateParams struct {
	Game        string
	Title       string
	Description *string
	Contact     *string
	Status      Status
}

// Create stores a new team owned by the principal. Status defaults to
// open when unset.
func (s *Service) Create(ctx context.Context, p *auth.Principal, params CreateParams) (*Team, error) {
	if p == nil {
		return nil, oops.Code("AUTH_REQUIRED").Errorf("authentication required")
	}

	t, err := New(p.ID, params.Game, params.Title, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if params.Description != nil {
		if err := ValidateDescription(*params.Description); err != nil {
			return nil, err
		}
		t.Description = params.Description
	}
	t.Contact = params.Contact
	if params.Status != "" {
		if err := ValidateStatus(params.Status); err != nil {
			return nil, err
		}
		t.Status = params.Status
	}

	if err := s.teams.Create(ctx, t); err != nil {
		return nil, oops.Code("TEAM_CREATE_FAILED").
			With("operation", "create team").
			Wrap(err)
	}
	return t, nil
}

// Get retrieves a single team.
func (s *Service) Get(ctx context.Context, id int64) (*Team, error) {
	t, err := s.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("TEAM_NOT_FOUND").With("team_id", id).Wrap(err)
		}
		return nil, oops.Code("TEAM_GET_FAILED").With("team_id", id).Wrap(err)
	}
	return t, nil
}

// List returns teams matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Team, error) {
	if filter.Status != "" {
		if err := ValidateStatus(filter.Status); err != nil {
			return nil, err
		}
	}
	filter.Normalize()

	teams, err := s.teams.List(ctx, filter)
	if err != nil {
		return nil, oops.Code("TEAM_LIST_FAILED").
			With("operation", "list teams").
			Wrap(err)
	}
	return teams, nil
}

// UpdateParams carries a partial team update. Nil fields are unchanged.
type UpdateParams struct {
	Game        *string
	Title       *string
	Description *string
	Contact     *string
	Status      *Status
}

// Update applies a partial update. Only the creator may modify a team.
func (s *Service) Update(ctx context.Context, p *auth.Principal, id int64, params UpdateParams) (*Team, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(p, t.CreatorID); err != nil {
		return nil, err
	}

	if params.Game != nil {
		if err := ValidateGame(*params.Game); err != nil {
			return nil, err
		}
		t.Game = *params.Game
	}
	if params.Title != nil {
		if err := ValidateTitle(*params.Title); err != nil {
			return nil, err
		}
		t.Title = *params.Title
	}
	if params.Description != nil {
		if err := ValidateDescription(*params.Description); err != nil {
			return nil, err
		}
		t.Description = params.Description
	}
	if params.Contact != nil {
		t.Contact = params.Contact
	}
	if params.Status != nil {
		if err := ValidateStatus(*params.Status); err != nil {
			return nil, err
		}
		t.Status = *params.Status
	}

	if err := s.teams.Update(ctx, t); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("TEAM_NOT_FOUND").With("team_id", id).Wrap(err)
		}
		return nil, oops.Code("TEAM_UPDATE_FAILED").With("team_id", id).Wrap(err)
	}
	return t, nil
}

// Delete removes a team. Only the creator may delete it.
func (s *Service) Delete(ctx context.Context, p *auth.Principal, id int64) error {
	t, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.Authorize(p, t.CreatorID); err != nil {
		return err
	}

	if err := s.teams.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Deleted concurrently after the ownership check. Same outcome.
			return nil
		}
		return oops.Code("TEAM_DELETE_FAILED").With("team_id", id).Wrap(err)
	}
	return nil
}
