// Package cli holds the eventhub command tree.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/msomdec/eventhub/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	logLevel  string
	logFormat string

	// rootCmd runs the server when called without a subcommand.
	rootCmd = &cobra.Command{
		Use:   "eventhub",
		Short: "eventhub - event management API",
		Long: `eventhub serves a JSON API where users sign up, create and manage events,
and register to attend them.

Configuration is read from environment variables, optionally seeded from a
.env file in the working directory.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
	}
)

// Execute runs the command tree. It is called by main.main().
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error) (default: info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, console) (default: json)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
}

// applyLogFlags lets command-line flags override the environment.
func applyLogFlags(cfg *config.LoggingConfig) {
	if logLevel != "" {
		cfg.Level = logLevel
	}
	if logFormat != "" {
		cfg.Format = logFormat
	}
}
