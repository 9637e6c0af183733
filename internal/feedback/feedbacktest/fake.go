// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

// Package feedbacktest provides an in-memory test double for the feedback repository.
package feedbacktest

import (
	"context"
	"sort"
	"sync"

	"github.com/squadup/squadup/internal/feedback"
)

// Repo is an in-memory feedback.Repository.
type Repo struct {
	mu     sync.Mutex
	nextID int64
	posts  map[int64]*feedback.Feedback

	// CreateErr, when set, is returned by Create.
	CreateErr error
}

// NewRepo creates an empty Repo.
func NewRepo() *Repo {
	return &Repo{nextID: 1, posts: make(map[int64]*feedback.Feedback)}
}

// Create assigns an ID and stores a copy of the post.
func (r *Repo) Create(_ context.Context, f *feedback.Feedback) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	f.ID = r.nextID
	r.nextID++
	cp := *f
	r.posts[f.ID] = &cp
	return nil
}

// ListByMonth returns matching posts newest first.
func (r *Repo) ListByMonth(_ context.Context, month string) ([]*feedback.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*feedback.Feedback
	for _, f := range r.posts {
		if month != "" && f.Month != month {
			continue
		}
		cp := *f
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	return matched, nil
}

// Compile-time interface check.
var _ feedback.Repository = (*Repo)(nil)
