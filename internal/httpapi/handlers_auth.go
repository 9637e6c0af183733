// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

package httpapi

import (
	"net/http"
	"time"

	"github.com/samber/oops"

	"github.com/squadup/squadup/internal/auth"
)

// userResponse is the public identity shape. The password hash never
// leaves the service layer.
type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	WeChat    *string   `json:"wechat,omitempty"`
	QQ        *string   `json:"qq,omitempty"`
	YY        *string   `json:"yy,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *auth.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
		WeChat:    u.WeChat,
		QQ:        u.QQ,
		YY:        u.YY,
		CreatedAt: u.CreatedAt,
	}
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type registerRequest struct {
	Email    string  `json:"email"`
	Username string  `json:"username"`
	Password string  `json:"password"`
	WeChat   *string `json:"wechat"`
	QQ       *string `json:"qq"`
	YY       *string `json:"yy"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, token, err := s.services.Auth.Register(r.Context(), auth.RegisterParams{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		WeChat:   req.WeChat,
		QQ:       req.QQ,
		YY:       req.YY,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusCreated, authResponse{Token: token, User: toUserResponse(user)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, token, err := s.services.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.countLogin("failure")
		s.writeError(w, r, err)
		return
	}

	s.countLogin("success")
	s.writeJSON(w, r, http.StatusOK, authResponse{Token: token, User: toUserResponse(user)})
}

func (s *Server) countLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.LoginsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFrom(r.Context())

	user, err := s.services.Auth.Me(r.Context(), principal.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, toUserResponse(user))
}

// handleLogout revokes exactly the supplied token. The token does not
// need to resolve to a live session; revoking an unknown token is a
// no-op so logout is idempotent.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		s.writeError(w, r, oops.Code("AUTH_REQUIRED").Errorf("authentication required"))
		return
	}

	if err := s.services.Auth.Revoke(r.Context(), token); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
