package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aryankumar/gridrun/internal/batch"
	"github.com/aryankumar/gridrun/internal/clients"
	"github.com/aryankumar/gridrun/internal/config"
	"github.com/aryankumar/gridrun/internal/event"
	"github.com/aryankumar/gridrun/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newRunCmd creates the run command
func newRunCmd() *cobra.Command {
	var eventFile string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a batch event",
		Long: `Execute a batch event from a JSON or YAML file.

Each job in the event becomes a payload; each payload expands into one
task per (period, item) combination and runs through a bounded worker
pool. The exit status reflects the batch outcome: success when every
payload succeeded, failure otherwise.

Examples:
  # Run an event file
  gridrun run --file event.json

  # Read the event from stdin
  cat event.yaml | gridrun run --file -

  # Raise the per-payload worker limit
  gridrun run --file event.json --parallel 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, eventFile)
		},
	}

	cmd.Flags().StringVarP(&eventFile, "file", "f", "", "path to the event file, or - for stdin (required)")
	cmd.MarkFlagRequired("file")

	return cmd
}

// runBatch executes one batch event end to end
func runBatch(cmd *cobra.Command, eventFile string) error {
	logger := slog.Default()
	ctx := cmd.Context()

	raw, err := readEventFile(eventFile)
	if err != nil {
		return err
	}

	ev, err := event.Parse(raw)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	mgr := clients.NewManager(cfg.Services, cfg.Defaults.Timeout, logger)
	defer mgr.Close()

	// Debug events are forwarded to the webhook instead of executed
	if ev.Debug {
		if err := mgr.Notifier().Forward(ctx, raw); err != nil {
			return fmt.Errorf("failed to forward debug event: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Event forwarded")
		return nil
	}

	normalizer := event.NewNormalizer(mgr.Refdata(), cfg.Defaults.WindowDays, logger)

	payloads, err := normalizer.Normalize(ctx, ev)
	if err != nil {
		return fmt.Errorf("failed to normalize event: %w", err)
	}

	limit := workerLimit(cfg)
	orch, err := batch.NewOrchestrator(limit, mgr.Runner(), logger)
	if err != nil {
		return err
	}

	outcome := orch.Run(ctx, payloads)

	if err := formatOutcome(cmd.OutOrStdout(), cfg, outcome); err != nil {
		return err
	}

	if !outcome.OK() {
		return fmt.Errorf("%d of %d payloads failed", outcome.FailCount, len(outcome.Payloads))
	}

	return nil
}

// readEventFile reads the event body from a file or stdin
func readEventFile(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read event from stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event file: %w", err)
	}
	return data, nil
}

// loadConfig loads the gridrun configuration honoring the --config flag
func loadConfig() (*config.GridrunConfig, error) {
	mgr := config.NewManager(cfgFile)
	cfg, err := mgr.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// workerLimit resolves the per-payload worker limit, preferring an
// explicit --parallel flag over the configured default.
func workerLimit(cfg *config.GridrunConfig) int {
	if limit := viper.GetInt("parallel"); limit >= 1 {
		return limit
	}
	return cfg.Defaults.Parallel
}

// formatOutcome renders the batch outcome in the selected format
func formatOutcome(w io.Writer, cfg *config.GridrunConfig, outcome batch.Outcome) error {
	format := viper.GetString("output")
	if format == "" {
		format = cfg.Defaults.OutputFormat
	}

	noColor := viper.GetBool("no-color") || cfg.Defaults.NoColor

	formatter := output.NewFormatter(
		output.Format(format),
		output.WithNoColor(noColor),
	)

	return formatter.FormatBatch(w, outcome)
}
