// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

package httpapi

import (
	"net/http"
	"strings"

	"github.com/samber/oops"

	"github.com/squadup/squadup/internal/auth"
)

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme comparison is case-insensitive per RFC 9110.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// requireAuth rejects the request with 401 unless it carries a valid
// session token. The resolved principal is attached to the request
// context for the wrapped handler.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			s.countValidation("missing")
			s.writeError(w, r, oops.Code("AUTH_REQUIRED").Errorf("authentication required"))
			return
		}

		principal, err := s.services.Auth.Validate(r.Context(), token)
		if err != nil {
			s.countValidation("rejected")
			s.writeError(w, r, err)
			return
		}

		s.countValidation("success")
		next(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	}
}

// optionalAuth attaches a principal when a valid token is supplied and
// proceeds anonymously otherwise. Invalid tokens do not fail the
// request; the handler simply sees no principal.
func (s *Server) optionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next(w, r)
			return
		}

		principal, err := s.services.Auth.Validate(r.Context(), token)
		if err != nil {
			s.countValidation("rejected")
			next(w, r)
			return
		}

		s.countValidation("success")
		next(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	}
}

func (s *Server) countValidation(outcome string) {
	if s.metrics != nil {
		s.metrics.SessionValidations.WithLabelValues(outcome).Inc()
	}
}
