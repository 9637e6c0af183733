// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

package main

import (
	"os"
	"strconv"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/squadup/squadup/internal/store"
)

// Migrator interface wraps the store.Migrator methods the migrate
// subcommands use.
type Migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (version uint, dirty bool, err error)
	Force(version int) error
	PendingMigrations() ([]uint, error)
	AppliedMigrations() ([]uint, error)
	Close() error
}

// MigratorFactory creates a Migrator for a database URL. Tests inject
// fakes through it.
type MigratorFactory func(databaseURL string) (Migrator, error)

func defaultMigratorFactory(databaseURL string) (Migrator, error) {
	return store.NewMigrator(databaseURL)
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return newMigrateCmdWithFactory(defaultMigratorFactory)
}

func newMigrateCmdWithFactory(factory MigratorFactory) *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  `Apply, roll back and inspect schema migrations on the PostgreSQL database.`,
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", "",
		"PostgreSQL connection URL (default: DATABASE_URL environment variable)")

	open := func() (Migrator, error) {
		url := databaseURL
		if url == "" {
			url = os.Getenv("DATABASE_URL")
		}
		if url == "" {
			return nil, oops.Code("CONFIG_INVALID").
				Errorf("database URL is required (--database-url flag or DATABASE_URL environment variable)")
		}
		return factory(url)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(open, func(m Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				cmd.Println("Migrations completed successfully")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(open, func(m Migrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				cmd.Println("Rollback completed successfully")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "steps <n>",
		Short: "Migrate up (positive) or down (negative) by n steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return oops.Code("VALIDATION_STEPS").
					With("steps", args[0]).
					Errorf("steps must be an integer")
			}
			return withMigrator(open, func(m Migrator) error {
				if err := m.Steps(n); err != nil {
					return err
				}
				cmd.Printf("Applied %d step(s)\n", n)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current migration version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(open, func(m Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				if version == 0 {
					cmd.Println("No migrations applied")
					return nil
				}
				name, err := store.MigrationName(version)
				if err != nil {
					name = "unknown"
				}
				cmd.Printf("Version: %d (%s), dirty: %t\n", version, name, dirty)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "force <version>",
		Short: "Force the schema version without running migrations",
		Long: `Force the recorded schema version after a failed migration left the
database dirty. Use with care; the schema itself is not changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return oops.Code("VALIDATION_VERSION").
					With("version", args[0]).
					Errorf("version must be an integer")
			}
			return withMigrator(open, func(m Migrator) error {
				if err := m.Force(version); err != nil {
					return err
				}
				cmd.Printf("Forced version to %d\n", version)
				return nil
			})
		},
	})

	return cmd
}

// withMigrator runs fn with a freshly opened migrator and always closes it.
func withMigrator(open func() (Migrator, error), fn func(Migrator) error) error {
	m, err := open()
	if err != nil {
		return err
	}
	defer func() {
		_ = m.Close()
	}()
	return fn(m)
}
