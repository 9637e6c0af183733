// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

// Package postgres implements the team repository over PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/squadup/squadup/internal/team"
)

// DB is the subset of pgxpool.Pool the repository uses. pgxmock
// satisfies it, which keeps the unit tests off a live database.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TeamRepository implements team.Repository using PostgreSQL.
type TeamRepository struct {
	db DB
}

// NewTeamRepository creates a new TeamRepository.
func NewTeamRepository(db DB) *TeamRepository {
	return &TeamRepository{db: db}
}

const teamColumns = `id, creator_id, game, title, description, contact, status, created_at`

// Create stores a new team and assigns its generated ID.
func (r *TeamRepository) Create(ctx context.Context, t *team.Team) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO teams (creator_id, game, title, description, contact, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		t.CreatorID,
		t.Game,
		t.Title,
		t.Description,
		t.Contact,
		string(t.Status),
		t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		return oops.Code("TEAM_CREATE_FAILED").
			With("operation", "insert team").
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a team by ID.
func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*team.Team, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+teamColumns+`
		FROM teams
		WHERE id = $1
	`, id)

	t, err := scanTeam(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("TEAM_NOT_FOUND").
			With("team_id", id).
			Wrap(team.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("TEAM_GET_FAILED").
			With("operation", "get team by id").
			With("team_id", id).
			Wrap(err)
	}
	return t, nil
}

// Update persists the mutable fields of an existing team.
func (r *TeamRepository) Update(ctx context.Context, t *team.Team) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE teams
		SET game = $2, title = $3, description = $4, contact = $5, status = $6
		WHERE id = $1
	`,
		t.ID,
		t.Game,
		t.Title,
		t.Description,
		t.Contact,
		string(t.Status),
	)
	if err != nil {
		return oops.Code("TEAM_UPDATE_FAILED").
			With("operation", "update team").
			With("team_id", t.ID).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code("TEAM_NOT_FOUND").
			With("team_id", t.ID).
			Wrap(team.ErrNotFound)
	}
	return nil
}

// Delete removes a team by ID.
func (r *TeamRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return oops.Code("TEAM_DELETE_FAILED").
			With("operation", "delete team").
			With("team_id", id).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code("TEAM_NOT_FOUND").
			With("team_id", id).
			Wrap(team.ErrNotFound)
	}
	return nil
}

// List returns teams matching the filter, newest first. The filter is
// assumed normalized by the service.
func (r *TeamRepository) List(ctx context.Context, filter team.ListFilter) ([]*team.Team, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Game != "" {
		args = append(args, filter.Game)
		conds = append(conds, fmt.Sprintf("game = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + teamColumns + ` FROM teams`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	args = append(args, filter.Limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d`, len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(` OFFSET $%d`, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, oops.Code("TEAM_LIST_FAILED").
			With("operation", "list teams").
			Wrap(err)
	}
	defer rows.Close()

	var teams []*team.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, oops.Code("TEAM_LIST_FAILED").
				With("operation", "scan team row").
				Wrap(err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("TEAM_LIST_FAILED").
			With("operation", "iterate teams").
			Wrap(err)
	}
	return teams, nil
}

// scanTeam scans a single row into a Team.
// Callers are responsible for handling pgx.ErrNoRows.
func scanTeam(row pgx.Row) (*team.Team, error) {
	var (
		t      team.Team
		status string
	)
	err := row.Scan(
		&t.ID,
		&t.CreatorID,
		&t.Game,
		&t.Title,
		&t.Description,
		&t.Contact,
		&status,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("TEAM_SCAN_FAILED").
			With("operation", "scan team").
			Wrap(err)
	}
	t.Status = team.Status(status)
	return &t, nil
}

// Compile-time interface check.
var _ team.Repository = (*TeamRepository)(nil)
