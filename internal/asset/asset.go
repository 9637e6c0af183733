// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

// Package asset implements forum image storage on an S3-compatible
// blob store. Object keys carry the owner's user ID so ownership checks
// never depend on client input.
package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
)

// MaxUploadSize bounds a single upload to 5 MiB.
const MaxUploadSize = 5 << 20

// keyPrefix is the namespace every forum asset lives under.
const keyPrefix = "forum"

// ErrNotFound is returned (wrapped) when an object does not exist.
var ErrNotFound = errors.New("asset not found")

// extByMIME lists the accepted image types and their key extensions.
var extByMIME = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// ValidateUpload checks the declared content type and size before any
// bytes are read.
func ValidateUpload(contentType string, size int64) error {
	if _, ok := extByMIME[contentType]; !ok {
		return oops.Code("VALIDATION_CONTENT_TYPE").
			With("content_type", contentType).
			Errorf("content type must be one of image/jpeg, image/png, image/webp, image/gif")
	}
	if size <= 0 {
		return oops.Code("VALIDATION_SIZE").Errorf("upload size must be positive")
	}
	if size > MaxUploadSize {
		return oops.Code("VALIDATION_SIZE").
			With("max_bytes", int64(MaxUploadSize)).
			Errorf("upload exceeds %d bytes", int64(MaxUploadSize))
	}
	return nil
}

// NewKey builds an object key of the form
// forum/<ownerID>/<unix-millis>-<random>.<ext>. The content type must
// already have passed ValidateUpload.
func NewKey(ownerID int64, contentType string, now time.Time) string {
	ext := extByMIME[contentType]
	return fmt.Sprintf("%s/%d/%d-%s.%s", keyPrefix, ownerID, now.UnixMilli(), uuid.NewString(), ext)
}

// OwnerIDFromKey extracts the owner's user ID from a stored key. This
// is the authoritative ownership source for deletes.
func OwnerIDFromKey(key string) (int64, error) {
	parts := strings.SplitN(key, "/", 3)
	if len(parts) != 3 || parts[0] != keyPrefix || parts[2] == "" {
		return 0, oops.Code("VALIDATION_KEY").
			With("key", key).
			Errorf("key must look like %s/<owner>/<name>", keyPrefix)
	}
	ownerID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || ownerID <= 0 {
		return 0, oops.Code("VALIDATION_KEY").
			With("key", key).
			Errorf("key owner segment is not a valid user ID")
	}
	return ownerID, nil
}

// Object is a stored blob opened for reading.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// BlobStore abstracts the S3-compatible backend.
type BlobStore interface {
	// Put stores an object under key.
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error

	// Get opens an object for reading. Returns ErrNotFound (wrapped) if
	// absent. The caller closes the body.
	Get(ctx context.Context, key string) (*Object, error)

	// Delete removes an object. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error
}
