// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/squadup/squadup/internal/asset"
	"github.com/squadup/squadup/internal/auth"
	authpg "github.com/squadup/squadup/internal/auth/postgres"
	"github.com/squadup/squadup/internal/clock"
	"github.com/squadup/squadup/internal/config"
	"github.com/squadup/squadup/internal/feedback"
	feedbackpg "github.com/squadup/squadup/internal/feedback/postgres"
	"github.com/squadup/squadup/internal/httpapi"
	"github.com/squadup/squadup/internal/logging"
	"github.com/squadup/squadup/internal/observability"
	"github.com/squadup/squadup/internal/store"
	"github.com/squadup/squadup/internal/team"
	teampg "github.com/squadup/squadup/internal/team/postgres"
	"github.com/squadup/squadup/internal/xdg"
)

// autoMigrate controls whether serve runs pending migrations at startup.
var autoMigrate bool

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the SquadUp API server",
		Long: `Start the HTTP API server, connect to PostgreSQL and, unless
disabled, run any pending database migrations first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeWithDeps(cmd.Context(), cmd, nil)
		},
	}

	cmd.Flags().String("listen-addr", defaults.ListenAddr, "API listen address")
	cmd.Flags().String("metrics-addr", defaults.MetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("database-url", "", "PostgreSQL connection URL")
	cmd.Flags().String("log-format", defaults.LogFormat, "log format (json or text)")
	cmd.Flags().Duration("session-ttl", defaults.SessionTTL, "session lifetime")
	cmd.Flags().String("asset-base-url", "", "public URL prefix for uploaded assets")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", true, "run pending migrations at startup")

	return cmd
}

// runServeWithDeps starts the server with injectable dependencies.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cmd *cobra.Command, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}
	if deps.DatabaseOpener == nil {
		deps.DatabaseOpener = func(ctx context.Context, dsn string) (Database, error) {
			return store.Open(ctx, dsn)
		}
	}
	if deps.MigratorFactory == nil {
		deps.MigratorFactory = func(databaseURL string) (AutoMigrator, error) {
			return store.NewMigrator(databaseURL)
		}
	}
	if deps.BlobStoreFactory == nil {
		deps.BlobStoreFactory = func(ctx context.Context, cfg config.S3) (asset.BlobStore, error) {
			return asset.NewS3Store(ctx, asset.S3Config{
				Region:    cfg.Region,
				Endpoint:  cfg.Endpoint,
				Bucket:    cfg.Bucket,
				AccessKey: cfg.AccessKey,
				SecretKey: cfg.SecretKey,
			})
		}
	}
	if deps.APIServerFactory == nil {
		deps.APIServerFactory = func(addr string, services httpapi.Services, logger *slog.Logger, opts ...httpapi.Option) APIServer {
			return httpapi.NewServer(addr, services, logger, opts...)
		}
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, readinessChecker)
		}
	}

	path := configFile
	if path == "" {
		path = xdg.DefaultConfigPath()
	}
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return err
	}

	logging.SetDefault("squadup", version, cfg.LogFormat)
	logger := slog.Default()

	logger.Info("starting server",
		"listen_addr", cfg.ListenAddr,
		"log_format", cfg.LogFormat,
	)

	if autoMigrate {
		migrator, migErr := deps.MigratorFactory(cfg.DatabaseURL)
		if migErr != nil {
			return fmt.Errorf("failed to create migrator: %w", migErr)
		}
		upErr := migrator.Up()
		if closeErr := migrator.Close(); closeErr != nil {
			logger.Warn("error closing migrator", "error", closeErr)
		}
		if upErr != nil {
			return fmt.Errorf("failed to run migrations: %w", upErr)
		}
		logger.Info("migrations up to date")
	}

	db, err := deps.DatabaseOpener(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	logger.Info("connected to database")

	clk := clock.NewSystem()

	authSvc := auth.NewService(
		authpg.NewUserRepository(db),
		authpg.NewSessionRepository(db),
		auth.NewArgon2idHasher(),
		clk,
	)
	authSvc.SetSessionTTL(cfg.SessionTTL)

	services := httpapi.Services{
		Auth:     authSvc,
		Teams:    team.NewService(teampg.NewTeamRepository(db), clk),
		Feedback: feedback.NewService(feedbackpg.NewFeedbackRepository(db), clk),
	}

	if cfg.AssetsEnabled() {
		blobStore, storeErr := deps.BlobStoreFactory(ctx, cfg.S3)
		if storeErr != nil {
			return fmt.Errorf("failed to create asset store: %w", storeErr)
		}
		services.Assets = asset.NewService(blobStore, clk)
		logger.Info("asset uploads enabled", "bucket", cfg.S3.Bucket)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Readiness flips once the API server is accepting connections.
	var ready atomic.Bool

	var apiOpts []httpapi.Option
	if cfg.AssetBaseURL != "" {
		apiOpts = append(apiOpts, httpapi.WithAssetBaseURL(cfg.AssetBaseURL))
	}

	var obsServer ObservabilityServer
	if cfg.MetricsAddr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.MetricsAddr, ready.Load)
		apiOpts = append(apiOpts, httpapi.WithMetrics(obsServer.Metrics()))
	}

	apiServer := deps.APIServerFactory(cfg.ListenAddr, services, logger, apiOpts...)
	apiErrChan, err := apiServer.Start()
	if err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}
	go monitorServerErrors(ctx, cancel, apiErrChan, "api")
	ready.Store(true)

	logger.Info("api server started", "addr", apiServer.Addr())

	if obsServer != nil {
		obsErrChan, obsErr := obsServer.Start()
		if obsErr != nil {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if stopErr := apiServer.Stop(shutdownCtx); stopErr != nil {
				logger.Warn("failed to stop API server during cleanup", "error", stopErr)
			}
			return fmt.Errorf("failed to start observability server: %w", obsErr)
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
		logger.Info("observability server started", "addr", obsServer.Addr())
	}

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("SquadUp server started")

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	logger.Info("shutting down...")
	ready.Store(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Warn("error stopping API server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			logger.Warn("error stopping observability server", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

// monitorServerErrors watches a server's error channel and cancels the
// context on error so the whole process shuts down. It exits when an
// error arrives, the channel closes, or the context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
