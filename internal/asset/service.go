// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

package asset

import (
	"context"
	"io"

	"github.com/samber/oops"

	"github.com/squadup/squadup/internal/auth"
	"github.com/squadup/squadup/internal/clock"
)

// Service provides upload, serving, and owner-only deletion of forum
// images.
type Service struct {
	store BlobStore
	clock clock.Clock
}

// NewService creates a new Service.
func NewService(store BlobStore, clk clock.Clock) *Service {
	return &Service{store: store, clock: clk}
}

// Upload validates and stores an image for the principal, returning the
// generated object key.
func (s *Service) Upload(ctx context.Context, p *auth.Principal, contentType string, size int64, body io.Reader) (string, error) {
	if p == nil {
		return "", oops.Code("AUTH_REQUIRED").Errorf("authentication required")
	}
	if err := ValidateUpload(contentType, size); err != nil {
		return "", err
	}

	key := NewKey(p.ID, contentType, s.clock.Now())
	if err := s.store.Put(ctx, key, contentType, io.LimitReader(body, MaxUploadSize), size); err != nil {
		return "", err
	}
	return key, nil
}

// Open retrieves a stored image for serving. No authentication; forum
// images are public once uploaded.
func (s *Service) Open(ctx context.Context, key string) (*Object, error) {
	if _, err := OwnerIDFromKey(key); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, key)
}

// Delete removes an image. The owner is taken from the stored key, so
// only the uploader can delete it.
func (s *Service) Delete(ctx context.Context, p *auth.Principal, key string) error {
	ownerID, err := OwnerIDFromKey(key)
	if err != nil {
		return err
	}
	if err := auth.Authorize(p, ownerID); err != nil {
		return err
	}
	return s.store.Delete(ctx, key)
}
