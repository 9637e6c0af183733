// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/squadup/squadup/internal/asset"
	"github.com/squadup/squadup/internal/asset/assettest"
	"github.com/squadup/squadup/internal/auth"
	"github.com/squadup/squadup/internal/auth/authtest"
	"github.com/squadup/squadup/internal/clock"
	"github.com/squadup/squadup/internal/feedback"
	"github.com/squadup/squadup/internal/feedback/feedbacktest"
	"github.com/squadup/squadup/internal/observability"
	"github.com/squadup/squadup/internal/team"
	"github.com/squadup/squadup/internal/team/teamtest"
)

type testEnv struct {
	server  *Server
	handler http.Handler
	clock   *clock.Manual
	teams   *teamtest.Repo
	assets  *assettest.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clk := clock.NewManual(time.Date(2025, 4, 1, 9, 0, 0, 0, clock.Zone))
	authSvc := auth.NewService(
		authtest.NewUserRepo(), authtest.NewSessionRepo(),
		auth.NewArgon2idHasher(), clk)
	teams := teamtest.NewRepo()
	store := assettest.NewStore()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := NewServer("127.0.0.1:0", Services{
		Auth:     authSvc,
		Teams:    team.NewService(teams, clk),
		Feedback: feedback.NewService(feedbacktest.NewRepo(), clk),
		Assets:   asset.NewService(store, clk),
	}, logger, WithMetrics(observability.NewMetrics(prometheus.NewRegistry())))

	return &testEnv{
		server:  server,
		handler: server.Handler(),
		clock:   clk,
		teams:   teams,
		assets:  store,
	}
}

// do performs one request against the route table. A non-nil body is
// JSON-encoded; a non-empty token is sent as a bearer credential.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(dst))
}

// register creates a user through the API and returns the session token
// and user id.
func (e *testEnv) register(t *testing.T, email, username, password string) (string, int64) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "register failed: %s", rec.Body.String())

	var resp authResponse
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.User.ID
}

func TestServer_SessionLifecycle(t *testing.T) {
	env := newTestEnv(t)

	token1, userID := env.register(t, "a@x.com", "A", "secret1")

	// A second login mints a distinct token.
	rec := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var login authResponse
	decodeBody(t, rec, &login)
	token2 := login.Token
	require.NotEmpty(t, token2)
	require.NotEqual(t, token1, token2)

	// Both sessions resolve to the same user.
	rec = env.do(t, http.MethodGet, "/api/auth/me", token1, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me userResponse
	decodeBody(t, rec, &me)
	assert.Equal(t, userID, me.ID)
	assert.Equal(t, "a@x.com", me.Email)

	// Logging out the first session leaves the second intact.
	rec = env.do(t, http.MethodPost, "/api/auth/logout", token1, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/auth/me", token1, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/auth/me", token2, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Logout_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "a@x.com", "A", "secret1")

	for range 2 {
		rec := env.do(t, http.MethodPost, "/api/auth/logout", token, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}

	rec := env.do(t, http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_Register_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@x.com", "A", "secret1")

	tests := []struct {
		name string
		body any
		want int
	}{
		{"short password", map[string]string{"email": "b@x.com", "username": "B", "password": "abc"}, http.StatusBadRequest},
		{"duplicate email", map[string]string{"email": "a@x.com", "username": "B", "password": "secret1"}, http.StatusBadRequest},
		{"duplicate username", map[string]string{"email": "b@x.com", "username": "A", "password": "secret1"}, http.StatusBadRequest},
		{"malformed body", "not json", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec *httptest.ResponseRecorder
			if s, ok := tt.body.(string); ok {
				req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader([]byte(s)))
				rec = httptest.NewRecorder()
				env.handler.ServeHTTP(rec, req)
			} else {
				rec = env.do(t, http.MethodPost, "/api/auth/register", "", tt.body)
			}
			assert.Equal(t, tt.want, rec.Code)

			var resp errorResponse
			decodeBody(t, rec, &resp)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestServer_Login_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@x.com", "A", "secret1")

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Unknown account answers identically to a bad password.
	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "nobody@x.com",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_Login_MissingFields(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@x.com", "A", "secret1")

	// Empty credentials are a validation failure, not an auth failure.
	rec := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "a@x.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_SessionExpiry(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "a@x.com", "A", "secret1")

	env.clock.Advance(auth.SessionTTL)
	rec := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code, "session is still valid at the expiry instant")

	env.clock.Advance(time.Second)
	rec = env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_InternalErrorIsOpaque(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "a@x.com", "A", "secret1")

	env.teams.CreateErr = context.DeadlineExceeded
	rec := env.do(t, http.MethodPost, "/api/teams", token, map[string]string{
		"game":  "dota2",
		"title": "ranked grind",
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp errorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "internal error", resp.Error)

	t.Run("oops error without a code", func(t *testing.T) {
		env.teams.CreateErr = oops.Wrap(errors.New("disk full"))
		rec := env.do(t, http.MethodPost, "/api/teams", token, map[string]string{
			"game":  "dota2",
			"title": "ranked grind",
		})
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		var resp errorResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, "internal error", resp.Error)
	})
}

func TestServer_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	env := newTestEnv(t)
	errCh, err := env.server.Start()
	require.NoError(t, err)
	require.NotEmpty(t, env.server.Addr())

	_, startAgainErr := env.server.Start()
	require.Error(t, startAgainErr)

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + env.server.Addr() + "/api/teams")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, env.server.Stop(ctx))

	_, open := <-errCh
	assert.False(t, open, "error channel closes on graceful stop")

	// Stop twice is a no-op.
	require.NoError(t, env.server.Stop(ctx))
}
