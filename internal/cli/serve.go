package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aryankumar/gridrun/internal/batch"
	"github.com/aryankumar/gridrun/internal/clients"
	"github.com/aryankumar/gridrun/internal/event"
	"github.com/aryankumar/gridrun/internal/server"
	"github.com/spf13/cobra"
)

// newServeCmd creates the serve command
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the batch HTTP server",
		Long: `Run the HTTP server that accepts batch events on POST /batches.

The response body is the batch outcome; its HTTP status is 200 when
every payload succeeded and 207 when some failed. The server shuts
down gracefully on SIGINT or SIGTERM.

Examples:
  # Listen on the default address
  gridrun serve

  # Listen on a specific address
  gridrun serve --addr :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}

// runServe starts the batch server and blocks until the context is cancelled
func runServe(cmd *cobra.Command, addr string) error {
	logger := slog.Default()
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	mgr := clients.NewManager(cfg.Services, cfg.Defaults.Timeout, logger)
	defer mgr.Close()

	orch, err := batch.NewOrchestrator(cfg.Defaults.Parallel, mgr.Runner(), logger)
	if err != nil {
		return err
	}

	normalizer := event.NewNormalizer(mgr.Refdata(), cfg.Defaults.WindowDays, logger)

	srv := server.New(addr, orch, normalizer, mgr.Notifier(), logger)

	if err := srv.Start(); err != nil {
		return err
	}

	// Block until the signal handler cancels the context
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}
