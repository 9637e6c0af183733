// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

// Package httpapi exposes the JSON HTTP API.
package httpapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/samber/oops"

	"github.com/squadup/squadup/internal/asset"
	"github.com/squadup/squadup/internal/auth"
	"github.com/squadup/squadup/internal/feedback"
	"github.com/squadup/squadup/internal/observability"
	"github.com/squadup/squadup/internal/team"
)

// Services bundles the application services the API serves. Assets may
// be nil, which disables the asset endpoints.
type Services struct {
	Auth     *auth.Service
	Teams    *team.Service
	Feedback *feedback.Service
	Assets   *asset.Service
}

// Server serves the JSON API with graceful shutdown.
type Server struct {
	addr         string
	services     Services
	logger       *slog.Logger
	metrics      *observability.Metrics
	assetBaseURL string

	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// Option configures optional server behavior.
type Option func(*Server)

// WithMetrics records request and auth counters on the given metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithAssetBaseURL sets the public URL prefix returned for uploaded
// assets. Defaults to the server's own serving path.
func WithAssetBaseURL(base string) Option {
	return func(s *Server) { s.assetBaseURL = base }
}

// NewServer creates a new API server.
func NewServer(addr string, services Services, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		addr:     addr,
		services: services,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/auth/me", s.requireAuth(s.handleMe))
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)

	mux.HandleFunc("GET /api/teams", s.optionalAuth(s.handleTeamList))
	mux.HandleFunc("POST /api/teams", s.requireAuth(s.handleTeamCreate))
	mux.HandleFunc("GET /api/teams/{id}", s.handleTeamGet)
	mux.HandleFunc("PATCH /api/teams/{id}", s.requireAuth(s.handleTeamUpdate))
	mux.HandleFunc("DELETE /api/teams/{id}", s.requireAuth(s.handleTeamDelete))

	mux.HandleFunc("POST /api/feedback", s.requireAuth(s.handleFeedbackPost))
	mux.HandleFunc("GET /api/feedback", s.optionalAuth(s.handleFeedbackList))

	if s.services.Assets != nil {
		mux.HandleFunc("POST /api/assets", s.requireAuth(s.handleAssetUpload))
		mux.HandleFunc("GET /api/assets/{key...}", s.handleAssetServe)
		mux.HandleFunc("DELETE /api/assets/{key...}", s.requireAuth(s.handleAssetDelete))
	}

	return s.countRequests(mux)
}

// countRequests records one observation per request by route pattern
// and status code.
func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Start begins serving the API. It returns an error channel that
// receives any serve error; the channel is closed on graceful stop.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			s.logger.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("api server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_api_server").Wrap(err)
		}
	}

	s.logger.Info("api server stopped")
	return nil
}

// Addr returns the address the server is listening on.
// Returns empty string if not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
