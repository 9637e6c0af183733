// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the SquadUp CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "squadup",
		Short: "SquadUp - find teammates for your next match",
		Long: `SquadUp is a team-matching service where players post the squads
they are forming, browse open teams by game, and leave monthly feedback.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}
