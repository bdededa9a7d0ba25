// Package cliapp is the cobra command tree that dispatches to the catalog
// engine: init, list, show, search, stats, and glossary management. Each
// RunE builds the engine from environment configuration and delegates;
// no catalog logic lives here.
package cliapp

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"catalogcore/internal/config"
	"catalogcore/internal/engine"
)

var outputFormat string

// NewRootCmd builds the top-level `catalog-cli` command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalog-cli",
		Short:         "Inspect and mutate a serverless data catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&outputFormat, "output", "table", "output format: table or json")

	root.AddCommand(
		newInitCmd(),
		newListCmd(),
		newShowCmd(),
		newSearchCmd(),
		newStatsCmd(),
		newGlossaryCmd(),
	)
	return root
}

// openEngine loads configuration from the environment and opens the
// catalog engine, used by every subcommand's RunE.
func openEngine(cmd *cobra.Command) (*engine.Engine, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return engine.Open(cmd.Context(), cfg, logger)
}

func validOutputFormat() error {
	if outputFormat != "table" && outputFormat != "json" {
		return fmt.Errorf("invalid --output %q, expected table or json", outputFormat)
	}
	return nil
}
