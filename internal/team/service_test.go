// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

package team_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadup/squadup/internal/auth"
	"github.com/squadup/squadup/internal/clock"
	"github.com/squadup/squadup/internal/team"
	"github.com/squadup/squadup/internal/team/teamtest"
	"github.com/squadup/squadup/pkg/errutil"
)

func newTestService(t *testing.T) (*team.Service, *teamtest.Repo, *clock.Manual) {
	t.Helper()
	repo := teamtest.NewRepo()
	clk := clock.NewManual(time.Date(2026, 3, 1, 12, 0, 0, 0, clock.Zone))
	return team.NewService(repo, clk), repo, clk
}

func strptr(s string) *string { return &s }

var creator = &auth.Principal{ID: 7, Email: "c@x.com", Username: "creator"}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates open team by default", func(t *testing.T) {
		svc, repo, clk := newTestService(t)
		tm, err := svc.Create(ctx, creator, team.CreateParams{Game: "valorant", Title: "duo wanted"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), tm.ID)
		assert.Equal(t, creator.ID, tm.CreatorID)
		assert.Equal(t, team.StatusOpen, tm.Status)
		assert.True(t, tm.CreatedAt.Equal(clk.Now()))
		assert.Equal(t, 1, repo.Len())
	})

	t.Run("honors explicit status and optional fields", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		tm, err := svc.Create(ctx, creator, team.CreateParams{
			Game:        "cs2",
			Title:       "five stack",
			Description: strptr("evenings only"),
			Contact:     strptr("wechat: abc"),
			Status:      team.StatusFull,
		})
		require.NoError(t, err)
		assert.Equal(t, team.StatusFull, tm.Status)
		require.NotNil(t, tm.Description)
		assert.Equal(t, "evenings only", *tm.Description)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.Create(ctx, creator, team.CreateParams{Game: "cs2", Title: "x", Status: "hiring"})
		errutil.AssertErrorCode(t, err, "VALIDATION_STATUS")
	})

	t.Run("requires a principal", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.Create(ctx, nil, team.CreateParams{Game: "cs2", Title: "x"})
		errutil.AssertErrorCode(t, err, "AUTH_REQUIRED")
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stored team", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		created, err := svc.Create(ctx, creator, team.CreateParams{Game: "valorant", Title: "duo"})
		require.NoError(t, err)

		got, err := svc.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Title, got.Title)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.Get(ctx, 42)
		errutil.AssertErrorCode(t, err, "TEAM_NOT_FOUND")
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, svc *team.Service, clk *clock.Manual) {
		t.Helper()
		for _, p := range []struct {
			game   string
			status team.Status
		}{
			{"valorant", team.StatusOpen},
			{"valorant", team.StatusFull},
			{"cs2", team.StatusOpen},
		} {
			_, err := svc.Create(ctx, creator, team.CreateParams{Game: p.game, Title: "t", Status: p.status})
			require.NoError(t, err)
			clk.Advance(time.Minute)
		}
	}

	t.Run("no filter returns all newest first", func(t *testing.T) {
		svc, _, clk := newTestService(t)
		seed(t, svc, clk)
		teams, err := svc.List(ctx, team.ListFilter{})
		require.NoError(t, err)
		require.Len(t, teams, 3)
		assert.Equal(t, "cs2", teams[0].Game)
	})

	t.Run("filters by game and status", func(t *testing.T) {
		svc, _, clk := newTestService(t)
		seed(t, svc, clk)
		teams, err := svc.List(ctx, team.ListFilter{Game: "valorant", Status: team.StatusOpen})
		require.NoError(t, err)
		require.Len(t, teams, 1)
		assert.Equal(t, team.StatusOpen, teams[0].Status)
	})

	t.Run("pages with limit and offset", func(t *testing.T) {
		svc, _, clk := newTestService(t)
		seed(t, svc, clk)
		page, err := svc.List(ctx, team.ListFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		require.Len(t, page, 1)
	})

	t.Run("rejects unknown status filter", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.List(ctx, team.ListFilter{Status: "hiring"})
		errutil.AssertErrorCode(t, err, "VALIDATION_STATUS")
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	other := &auth.Principal{ID: 8, Email: "o@x.com", Username: "other"}

	t.Run("creator updates fields", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		created, err := svc.Create(ctx, creator, team.CreateParams{Game: "valorant", Title: "duo"})
		require.NoError(t, err)

		status := team.StatusFull
		updated, err := svc.Update(ctx, creator, created.ID, team.UpdateParams{
			Title:  strptr("duo found"),
			Status: &status,
		})
		require.NoError(t, err)
		assert.Equal(t, "duo found", updated.Title)
		assert.Equal(t, team.StatusFull, updated.Status)
		assert.Equal(t, "valorant", updated.Game, "unset fields unchanged")
	})

	t.Run("non-creator is denied", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		created, err := svc.Create(ctx, creator, team.CreateParams{Game: "valorant", Title: "duo"})
		require.NoError(t, err)

		_, err = svc.Update(ctx, other, created.ID, team.UpdateParams{Title: strptr("mine now")})
		errutil.AssertErrorCode(t, err, "NOT_OWNER")
	})

	t.Run("anonymous is denied", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		created, err := svc.Create(ctx, creator, team.CreateParams{Game: "valorant", Title: "duo"})
		require.NoError(t, err)

		_, err = svc.Update(ctx, nil, created.ID, team.UpdateParams{Title: strptr("x")})
		errutil.AssertErrorCode(t, err, "AUTH_REQUIRED")
	})

	t.Run("invalid field value", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		created, err := svc.Create(ctx, creator, team.CreateParams{Game: "valorant", Title: "duo"})
		require.NoError(t, err)

		_, err = svc.Update(ctx, creator, created.ID, team.UpdateParams{Title: strptr("")})
		errutil.AssertErrorCode(t, err, "VALIDATION_TITLE")
	})

	t.Run("unknown team", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.Update(ctx, creator, 42, team.UpdateParams{Title: strptr("x")})
		errutil.AssertErrorCode(t, err, "TEAM_NOT_FOUND")
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	other := &auth.Principal{ID: 8, Email: "o@x.com", Username: "other"}

	t.Run("creator deletes", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		created, err := svc.Create(ctx, creator, team.CreateParams{Game: "valorant", Title: "duo"})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, creator, created.ID))
		assert.Equal(t, 0, repo.Len())
	})

	t.Run("non-creator is denied and team survives", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		created, err := svc.Create(ctx, creator, team.CreateParams{Game: "valorant", Title: "duo"})
		require.NoError(t, err)

		err = svc.Delete(ctx, other, created.ID)
		errutil.AssertErrorCode(t, err, "NOT_OWNER")
		assert.Equal(t, 1, repo.Len())
	})

	t.Run("unknown team", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		err := svc.Delete(ctx, creator, 42)
		errutil.AssertErrorCode(t, err, "TEAM_NOT_FOUND")
	})
}
