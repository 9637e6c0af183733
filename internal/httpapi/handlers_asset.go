// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

package httpapi

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/samber/oops"

	"github.com/squadup/squadup/internal/asset"
	"github.com/squadup/squadup/internal/auth"
)

type assetResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func (s *Server) assetURL(key string) string {
	if s.assetBaseURL != "" {
		return strings.TrimSuffix(s.assetBaseURL, "/") + "/" + key
	}
	return "/api/assets/" + key
}

func (s *Server) handleAssetUpload(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFrom(r.Context())

	// Bound the multipart parse to the upload limit plus a little headroom
	// for the form framing.
	r.Body = http.MaxBytesReader(w, r.Body, asset.MaxUploadSize+4096)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.countUpload("rejected")
		s.writeError(w, r, oops.Code("VALIDATION_FILE").
			Wrapf(err, "multipart form must carry a file field"))
		return
	}
	defer file.Close()

	key, err := s.services.Assets.Upload(r.Context(), principal,
		header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		s.countUpload("rejected")
		s.writeError(w, r, err)
		return
	}

	s.countUpload("success")
	s.writeJSON(w, r, http.StatusCreated, assetResponse{Key: key, URL: s.assetURL(key)})
}

func (s *Server) handleAssetServe(w http.ResponseWriter, r *http.Request) {
	obj, err := s.services.Assets.Open(r.Context(), r.PathValue("key"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	if _, err := io.Copy(w, obj.Body); err != nil {
		s.logger.Error("asset body copy failed", "error", err)
	}
}

func (s *Server) handleAssetDelete(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFrom(r.Context())

	if err := s.services.Assets.Delete(r.Context(), principal, r.PathValue("key")); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) countUpload(outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.UploadsTotal.WithLabelValues(outcome).Inc()
}
