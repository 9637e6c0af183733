// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

// Package feedback implements monthly community feedback posts.
package feedback

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/samber/oops"
)

// MaxContentLength bounds a single feedback post.
const MaxContentLength = 2000

// MonthFormat is the bucket key layout, e.g. "2026-03".
const MonthFormat = "2006-01"

// ErrNotFound is returned (wrapped) when feedback does not exist.
var ErrNotFound = errors.New("feedback not found")

// Feedback is a single post, bucketed by the month it was submitted in.
type Feedback struct {
	ID        int64
	UserID    int64
	Content   string
	Month     string
	CreatedAt time.Time
}

// New creates a validated Feedback. The month bucket is derived from the
// creation instant, so it follows the injected wall clock's offset.
func New(userID int64, content string, createdAt time.Time) (*Feedback, error) {
	if userID <= 0 {
		return nil, oops.Code("VALIDATION_USER").Errorf("user ID must be positive")
	}
	if err := ValidateContent(content); err != nil {
		return nil, err
	}
	if createdAt.IsZero() {
		return nil, oops.Code("VALIDATION_CREATED_AT").Errorf("creation time cannot be zero")
	}

	return &Feedback{
		UserID:    userID,
		Content:   content,
		Month:     createdAt.Format(MonthFormat),
		CreatedAt: createdAt,
	}, nil
}

// ValidateContent checks the post body constraints.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return oops.Code("VALIDATION_CONTENT").Errorf("content cannot be empty")
	}
	if len(content) > MaxContentLength {
		return oops.Code("VALIDATION_CONTENT").
			With("max", MaxContentLength).
			Errorf("content must be at most %d characters", MaxContentLength)
	}
	return nil
}

// ValidateMonth checks that month parses as "2006-01".
func ValidateMonth(month string) error {
	if _, err := time.Parse(MonthFormat, month); err != nil {
		return oops.Code("VALIDATION_MONTH").
			With("month", month).
			Errorf("month must look like %s", MonthFormat)
	}
	return nil
}

// Repository manages feedback persistence.
type Repository interface {
	// Create stores a new post and assigns its ID.
	Create(ctx context.Context, f *Feedback) error

	// ListByMonth returns posts for one month bucket, newest first.
	// An empty month returns all posts.
	ListByMonth(ctx context.Context, month string) ([]*Feedback, error)
}
