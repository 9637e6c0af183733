// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

// Package teamtest provides an in-memory test double for the team repository.
package teamtest

import (
	"context"
	"sort"
	"sync"

	"github.com/squadup/squadup/internal/team"
)

// Repo is an in-memory team.Repository.
type Repo struct {
	mu     sync.Mutex
	nextID int64
	teams  map[int64]*team.Team

	// CreateErr, when set, is returned by Create.
	CreateErr error
	// GetErr, when set, is returned by GetByID and List.
	GetErr error
}

// NewRepo creates an empty Repo.
func NewRepo() *Repo {
	return &Repo{nextID: 1, teams: make(map[int64]*team.Team)}
}

// Create assigns an ID and stores a copy of the team.
func (r *Repo) Create(_ context.Context, t *team.Team) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = r.nextID
	r.nextID++
	cp := *t
	r.teams[t.ID] = &cp
	return nil
}

// GetByID returns the stored team or team.ErrNotFound.
func (r *Repo) GetByID(_ context.Context, id int64) (*team.Team, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[id]
	if !ok {
		return nil, team.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

// Update replaces the stored team or returns team.ErrNotFound.
func (r *Repo) Update(_ context.Context, t *team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teams[t.ID]; !ok {
		return team.ErrNotFound
	}
	cp := *t
	r.teams[t.ID] = &cp
	return nil
}

// Delete removes the stored team or returns team.ErrNotFound.
func (r *Repo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teams[id]; !ok {
		return team.ErrNotFound
	}
	delete(r.teams, id)
	return nil
}

// List returns matching teams newest first, applying limit and offset.
func (r *Repo) List(_ context.Context, filter team.ListFilter) ([]*team.Team, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*team.Team
	for _, t := range r.teams {
		if filter.Game != "" && t.Game != filter.Game {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		cp := *t
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if filter.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// Len reports the number of stored teams.
func (r *Repo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.teams)
}

// Compile-time interface check.
var _ team.Repository = (*Repo)(nil)
