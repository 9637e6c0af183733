// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

// Package assettest provides an in-memory test double for the blob store.
package assettest

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/samber/oops"

	"github.com/squadup/squadup/internal/asset"
)

type object struct {
	data        []byte
	contentType string
}

// Store is an in-memory asset.BlobStore.
type Store struct {
	mu      sync.Mutex
	objects map[string]object

	// PutErr, when set, is returned by Put.
	PutErr error
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{objects: make(map[string]object)}
}

// Put reads and stores the body.
func (s *Store) Put(_ context.Context, key, contentType string, body io.Reader, _ int64) error {
	if s.PutErr != nil {
		return s.PutErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = object{data: data, contentType: contentType}
	return nil
}

// Get returns the stored object or asset.ErrNotFound.
func (s *Store) Get(_ context.Context, key string) (*asset.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, oops.Code("ASSET_NOT_FOUND").
			With("key", key).
			Wrapf(asset.ErrNotFound, "no object stored under key")
	}
	return &asset.Object{
		Body:        io.NopCloser(bytes.NewReader(obj.data)),
		ContentType: obj.contentType,
		Size:        int64(len(obj.data)),
	}, nil
}

// Delete removes the object if present.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Len reports the number of stored objects.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// Compile-time interface check.
var _ asset.BlobStore = (*Store)(nil)
