// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

package main

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/squadup/squadup/internal/asset"
	"github.com/squadup/squadup/internal/config"
	"github.com/squadup/squadup/internal/httpapi"
	"github.com/squadup/squadup/internal/observability"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// DatabaseOpener connects to PostgreSQL.
	// Default: store.Open
	DatabaseOpener func(ctx context.Context, dsn string) (Database, error)

	// MigratorFactory creates a migrator for auto-migration at startup.
	// Default: store.NewMigrator
	MigratorFactory func(databaseURL string) (AutoMigrator, error)

	// BlobStoreFactory creates the asset blob store.
	// Default: asset.NewS3Store
	BlobStoreFactory func(ctx context.Context, cfg config.S3) (asset.BlobStore, error)

	// APIServerFactory creates the JSON API server.
	// Default: httpapi.NewServer
	APIServerFactory func(addr string, services httpapi.Services, logger *slog.Logger, opts ...httpapi.Option) APIServer

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer
}

// Database is the subset of pgxpool.Pool the serve command wires into
// the repositories.
type Database interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// AutoMigrator interface wraps the methods used from store.Migrator
// during startup migration.
type AutoMigrator interface {
	Up() error
	Close() error
}

// APIServer interface wraps the methods used from httpapi.Server.
type APIServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}

// ObservabilityServer interface wraps the methods used from
// observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}
