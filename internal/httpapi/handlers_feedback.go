// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

package httpapi

import (
	"net/http"
	"time"

	"github.com/squadup/squadup/internal/auth"
	"github.com/squadup/squadup/internal/feedback"
)

type feedbackResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	Month     string    `json:"month"`
	CreatedAt time.Time `json:"created_at"`
}

func toFeedbackResponse(f *feedback.Feedback) feedbackResponse {
	return feedbackResponse{
		ID:        f.ID,
		UserID:    f.UserID,
		Content:   f.Content,
		Month:     f.Month,
		CreatedAt: f.CreatedAt,
	}
}

type feedbackPostRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleFeedbackPost(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFrom(r.Context())

	var req feedbackPostRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	posted, err := s.services.Feedback.Post(r.Context(), principal, req.Content)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusCreated, toFeedbackResponse(posted))
}

func (s *Server) handleFeedbackList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.services.Feedback.List(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]feedbackResponse, 0, len(entries))
	for _, f := range entries {
		out = append(out, toFeedbackResponse(f))
	}

	s.writeJSON(w, r, http.StatusOK, out)
}
