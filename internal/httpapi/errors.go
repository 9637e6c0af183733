// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/samber/oops"

	"github.com/squadup/squadup/pkg/errutil"
)

// errorResponse is the JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

// statusForCode maps service error codes onto HTTP statuses. Unknown
// codes are treated as internal errors.
func statusForCode(code string) int {
	switch code {
	case "AUTH_REQUIRED", "AUTH_INVALID_CREDENTIALS", "SESSION_INVALID", "SESSION_EXPIRED":
		return http.StatusUnauthorized
	case "NOT_OWNER":
		return http.StatusForbidden
	}
	switch {
	case strings.HasPrefix(code, "VALIDATION_"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// writeError renders a service error as JSON. Internal errors are
// logged with their full context and leave only a generic message in
// the response body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var code string
	if oopsErr, ok := oops.AsOops(err); ok {
		code, _ = oopsErr.Code().(string)
	}

	status := statusForCode(code)
	message := err.Error()
	if status == http.StatusInternalServerError {
		errutil.LogError(s.logger, "request failed", err)
		message = "internal error"
	}

	s.writeJSON(w, r, status, errorResponse{Error: message})
}

// writeJSON renders a response body. Encoding failures are logged; the
// status line has already been sent at that point.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.ErrorContext(r.Context(), "response encoding failed", "error", err)
	}
}

// readJSON decodes a request body, tolerating unknown fields.
func readJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return oops.Code("VALIDATION_BODY").Errorf("request body is not valid JSON")
	}
	return nil
}
