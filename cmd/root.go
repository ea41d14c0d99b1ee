// Package cmd defines and implements the CLI commands for the outreach
// executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/magicplate/outreach/internal/config"
	"github.com/magicplate/outreach/internal/logging"
	"github.com/magicplate/outreach/internal/metrics"
)

var cfgFile string

// app bundles what every subcommand needs. It is populated once in the root
// command's PersistentPreRunE.
type app struct {
	cfg    config.Config
	logger *zap.Logger
}

var current app

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outreach",
		Short: "Lead-generation pipeline for low-online-presence businesses.",
		Long: `outreach searches a places API for businesses around a geographic
center, keeps the ones with a light online footprint, harvests a public
contact email from their websites, exports the leads, and optionally sends
a capped, throttled intro email per lead with persisted send history.`,

		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			// .env first so viper's AutomaticEnv sees the values.
			_ = godotenv.Load()

			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger, err := logging.New(cfg.Logging.Development)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			metrics.Init()
			current = app{cfg: cfg, logger: logger}
			return nil
		},

		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if current.logger != nil {
				_ = current.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML); env vars use the OUTREACH_ prefix")

	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
