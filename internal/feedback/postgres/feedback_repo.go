// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

// Package postgres implements the feedback repository over PostgreSQL.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/squadup/squadup/internal/feedback"
)

// DB is the subset of pgxpool.Pool the repository uses. pgxmock
// satisfies it, which keeps the unit tests off a live database.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// FeedbackRepository implements feedback.Repository using PostgreSQL.
type FeedbackRepository struct {
	db DB
}

// NewFeedbackRepository creates a new FeedbackRepository.
func NewFeedbackRepository(db DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create stores a new post and assigns its generated ID.
func (r *FeedbackRepository) Create(ctx context.Context, f *feedback.Feedback) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO feedback (user_id, content, month, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`,
		f.UserID,
		f.Content,
		f.Month,
		f.CreatedAt,
	).Scan(&f.ID)
	if err != nil {
		return oops.Code("FEEDBACK_CREATE_FAILED").
			With("operation", "insert feedback").
			Wrap(err)
	}
	return nil
}

// ListByMonth returns posts for one month bucket, newest first. An
// empty month returns all posts.
func (r *FeedbackRepository) ListByMonth(ctx context.Context, month string) ([]*feedback.Feedback, error) {
	query := `
		SELECT id, user_id, content, month, created_at
		FROM feedback
	`
	var args []any
	if month != "" {
		query += ` WHERE month = $1`
		args = append(args, month)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, oops.Code("FEEDBACK_LIST_FAILED").
			With("operation", "list feedback").
			With("month", month).
			Wrap(err)
	}
	defer rows.Close()

	var posts []*feedback.Feedback
	for rows.Next() {
		var f feedback.Feedback
		if err := rows.Scan(&f.ID, &f.UserID, &f.Content, &f.Month, &f.CreatedAt); err != nil {
			return nil, oops.Code("FEEDBACK_LIST_FAILED").
				With("operation", "scan feedback row").
				Wrap(err)
		}
		posts = append(posts, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("FEEDBACK_LIST_FAILED").
			With("operation", "iterate feedback").
			Wrap(err)
	}
	return posts, nil
}

// Compile-time interface check.
var _ feedback.Repository = (*FeedbackRepository)(nil)
