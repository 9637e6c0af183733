// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

package asset

import (
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/samber/oops"
)

// S3Config describes the blob store connection. Endpoint is optional;
// set it for R2 or MinIO deployments.
type S3Config struct {
	Region    string
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
}

// S3Store implements BlobStore on any S3-compatible service.
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store creates a blob store client with static credentials.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, oops.Code("ASSET_CONFIG_INVALID").Errorf("bucket cannot be empty")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, oops.Code("ASSET_CONFIG_INVALID").
			With("operation", "load aws config").
			Wrap(err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// MinIO and most self-hosted gateways only speak path style.
			o.UsePathStyle = true
		}
	})

	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

// Put stores an object under key.
func (s *S3Store) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return oops.Code("ASSET_PUT_FAILED").
			With("operation", "put object").
			With("key", key).
			Wrap(err)
	}
	return nil
}

// Get opens an object for reading.
func (s *S3Store) Get(ctx context.Context, key string) (*Object, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, oops.Code("ASSET_NOT_FOUND").
				With("key", key).
				Wrap(ErrNotFound)
		}
		return nil, oops.Code("ASSET_GET_FAILED").
			With("operation", "get object").
			With("key", key).
			Wrap(err)
	}

	obj := &Object{Body: out.Body}
	if out.ContentType != nil {
		obj.ContentType = *out.ContentType
	}
	if out.ContentLength != nil {
		obj.Size = *out.ContentLength
	}
	return obj, nil
}

// Delete removes an object. S3 deletes are idempotent, so an absent key
// is not an error.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return oops.Code("ASSET_DELETE_FAILED").
			With("operation", "delete object").
			With("key", key).
			Wrap(err)
	}
	return nil
}

// Compile-time interface check.
var _ BlobStore = (*S3Store)(nil)
