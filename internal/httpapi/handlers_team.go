// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/samber/oops"

	"github.com/squadup/squadup/internal/auth"
	"github.com/squadup/squadup/internal/team"
)

type teamResponse struct {
	ID          int64     `json:"id"`
	CreatorID   int64     `json:"creator_id"`
	Game        string    `json:"game"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Contact     *string   `json:"contact,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func toTeamResponse(t *team.Team) teamResponse {
	return teamResponse{
		ID:          t.ID,
		CreatorID:   t.CreatorID,
		Game:        t.Game,
		Title:       t.Title,
		Description: t.Description,
		Contact:     t.Contact,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
	}
}

func toTeamResponses(teams []*team.Team) []teamResponse {
	out := make([]teamResponse, 0, len(teams))
	for _, t := range teams {
		out = append(out, toTeamResponse(t))
	}
	return out
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, oops.Code("VALIDATION_ID").
			With("id", r.PathValue("id")).
			Errorf("id must be a positive integer")
	}
	return id, nil
}

func (s *Server) handleTeamList(w http.ResponseWriter, r *http.Request) {
	filter := team.ListFilter{
		Game:   r.URL.Query().Get("game"),
		Status: team.Status(r.URL.Query().Get("status")),
	}

	var err error
	if filter.Limit, err = queryInt(r, "limit"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if filter.Offset, err = queryInt(r, "offset"); err != nil {
		s.writeError(w, r, err)
		return
	}

	teams, err := s.services.Teams.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, toTeamResponses(teams))
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, oops.Code("VALIDATION_PAGINATION").
			With("param", name).
			Errorf("%s must be a non-negative integer", name)
	}
	return v, nil
}

type teamCreateRequest struct {
	Game        string  `json:"game"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Contact     *string `json:"contact"`
	Status      string  `json:"status"`
}

func (s *Server) handleTeamCreate(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFrom(r.Context())

	var req teamCreateRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.services.Teams.Create(r.Context(), principal, team.CreateParams{
		Game:        req.Game,
		Title:       req.Title,
		Description: req.Description,
		Contact:     req.Contact,
		Status:      team.Status(req.Status),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusCreated, toTeamResponse(created))
}

func (s *Server) handleTeamGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	t, err := s.services.Teams.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, toTeamResponse(t))
}

type teamUpdateRequest struct {
	Game        *string `json:"game"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Contact     *string `json:"contact"`
	Status      *string `json:"status"`
}

func (s *Server) handleTeamUpdate(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req teamUpdateRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	params := team.UpdateParams{
		Game:        req.Game,
		Title:       req.Title,
		Description: req.Description,
		Contact:     req.Contact,
	}
	if req.Status != nil {
		status := team.Status(*req.Status)
		params.Status = &status
	}

	updated, err := s.services.Teams.Update(r.Context(), principal, id, params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, toTeamResponse(updated))
}

func (s *Server) handleTeamDelete(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.services.Teams.Delete(r.Context(), principal, id); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
