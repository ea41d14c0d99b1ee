package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/magicplate/outreach/internal/api"
)

// newServeCmd creates the 'serve' subcommand: a read-only HTTP API over the
// output directory for inspecting exports and send history.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the lead exports and outreach state over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger := current.cfg, current.logger

			server := api.NewServer(cfg.Output.Dir, logger)
			addr := fmt.Sprintf(":%d", cfg.Server.Port)
			httpServer := &http.Server{
				Addr:              addr,
				Handler:           server.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       15 * time.Second,
				WriteTimeout:      30 * time.Second,
			}

			logger.Info("serving", zap.String("addr", addr), zap.String("data_dir", cfg.Output.Dir))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}
}
