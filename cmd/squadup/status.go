// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/squadup/squadup/internal/store"
)

// SchemaStatus holds the migration state reported by the status command.
type SchemaStatus struct {
	Reachable bool   `json:"reachable"`
	Version   uint   `json:"version"`
	Name      string `json:"name,omitempty"`
	Dirty     bool   `json:"dirty"`
	Applied   []uint `json:"applied"`
	Pending   []uint `json:"pending"`
	Error     string `json:"error,omitempty"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	jsonOutput  bool
	databaseURL string
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	return newStatusCmdWithDeps(defaultMigratorFactory, func(ctx context.Context, dsn string) (Database, error) {
		return store.Open(ctx, dsn)
	})
}

func newStatusCmdWithDeps(factory MigratorFactory, ping PingFunc) *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show database and schema status",
		Long:  `Check database reachability and report applied and pending schema migrations.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg, factory, ping)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")
	cmd.Flags().StringVar(&cfg.databaseURL, "database-url", "",
		"PostgreSQL connection URL (default: DATABASE_URL environment variable)")

	return cmd
}

// PingFunc checks database reachability. It matches store.Open.
type PingFunc func(ctx context.Context, dsn string) (Database, error)

// runStatus executes the status command.
func runStatus(cmd *cobra.Command, cfg *statusConfig, factory MigratorFactory, ping PingFunc) error {
	databaseURL := cfg.databaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("database URL is required (--database-url flag or DATABASE_URL environment variable)")
	}

	status := querySchemaStatus(cmd.Context(), databaseURL, factory, ping)

	var output string
	if cfg.jsonOutput {
		encoded, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		output = string(encoded)
	} else {
		output = formatStatusTable(status)
	}

	cmd.Println(output)
	return nil
}

// querySchemaStatus connects to the database and collects migration state.
func querySchemaStatus(ctx context.Context, databaseURL string, factory MigratorFactory, ping PingFunc) SchemaStatus {
	status := SchemaStatus{Applied: []uint{}, Pending: []uint{}}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	db, err := ping(pingCtx, databaseURL)
	if err != nil {
		status.Error = fmt.Sprintf("database unreachable: %v", err)
		return status
	}
	db.Close()
	status.Reachable = true

	m, err := factory(databaseURL)
	if err != nil {
		status.Error = fmt.Sprintf("failed to create migrator: %v", err)
		return status
	}
	defer func() {
		_ = m.Close()
	}()

	status.Version, status.Dirty, err = m.Version()
	if err != nil {
		status.Error = fmt.Sprintf("failed to read version: %v", err)
		return status
	}
	if status.Version > 0 {
		if name, nameErr := store.MigrationName(status.Version); nameErr == nil {
			status.Name = name
		}
	}

	if applied, listErr := m.AppliedMigrations(); listErr == nil {
		status.Applied = applied
	}
	if pending, listErr := m.PendingMigrations(); listErr == nil {
		status.Pending = pending
	}

	return status
}

// formatStatusTable renders the schema status as an aligned table.
func formatStatusTable(status SchemaStatus) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 8, 2, ' ', 0)

	fmt.Fprintf(w, "REACHABLE\t%t\n", status.Reachable)
	if status.Error != "" {
		fmt.Fprintf(w, "ERROR\t%s\n", status.Error)
	}
	if status.Reachable {
		if status.Version == 0 {
			fmt.Fprintf(w, "VERSION\tnone\n")
		} else {
			fmt.Fprintf(w, "VERSION\t%d (%s)\n", status.Version, status.Name)
		}
		fmt.Fprintf(w, "DIRTY\t%t\n", status.Dirty)
		fmt.Fprintf(w, "APPLIED\t%d\n", len(status.Applied))
		fmt.Fprintf(w, "PENDING\t%d\n", len(status.Pending))
	}

	_ = w.Flush()
	return buf.String()
}
