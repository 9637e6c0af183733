// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

package feedback

import (
	"context"

	"github.com/samber/oops"

	"github.com/squadup/squadup/internal/auth"
	"github.com/squadup/squadup/internal/clock"
)

// Service provides feedback posting and monthly listings.
type Service struct {
	feedback Repository
	clock    clock.Clock
}

// NewService creates a new Service.
func NewService(feedback Repository, clk clock.Clock) *Service {
	return &Service{feedback: feedback, clock: clk}
}

// Post stores a new feedback entry for the principal, bucketed into the
// current month per the service clock.
func (s *Service) Post(ctx context.Context, p *auth.Principal, content string) (*Feedback, error) {
	if p == nil {
		return nil, oops.Code("AUTH_REQUIRED").Errorf("authentication required")
	}

	f, err := New(p.ID, content, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.feedback.Create(ctx, f); err != nil {
		return nil, oops.Code("FEEDBACK_CREATE_FAILED").
			With("operation", "create feedback").
			Wrap(err)
	}
	return f, nil
}

// List returns posts for the given month, or every post when month is
// empty.
func (s *Service) List(ctx context.Context, month string) ([]*Feedback, error) {
	if month != "" {
		if err := ValidateMonth(month); err != nil {
			return nil, err
		}
	}

	posts, err := s.feedback.ListByMonth(ctx, month)
	if err != nil {
		return nil, oops.Code("FEEDBACK_LIST_FAILED").
			With("operation", "list feedback").
			With("month", month).
			Wrap(err)
	}
	return posts, nil
}
