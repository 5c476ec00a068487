package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fishter/lovelace-windrose-card/pkg/policy"
	"github.com/fishter/lovelace-windrose-card/pkg/telemetry"
)

var (
	// Global flags
	jsonOutput    bool
	logLevel      string
	logFormat     string
	traceExporter string
	traceEndpoint string
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "windrose",
		Short: "Validate and normalize wind rose card configurations",
		Long: `windrose checks wind rose card configurations the same way the card does
before it draws anything.

Features:
  - Field level errors with a kind and a dotted field path
  - Defaults and deprecated keys resolved into one normalized model
  - Optional strict CUE schema checks
  - Live re-validation of a config file with Prometheus metrics`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaults := telemetry.DefaultConfig()
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaults.Logging.Level, "log level (trace, debug, info, warn, error, none)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", defaults.Logging.Format, "log format (console, json)")
	rootCmd.PersistentFlags().StringVar(&traceExporter, "trace-exporter", defaults.Tracing.Exporter, "trace exporter (none, stdout, otlp)")
	rootCmd.PersistentFlags().StringVar(&traceEndpoint, "trace-endpoint", "", "OTLP collector endpoint")

	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newExampleCommand())
	rootCmd.AddCommand(newWatchCommand())

	return rootCmd
}

// newTelemetry builds telemetry from the global flags. Logs and stdout spans
// go to the command's error stream so that stdout stays machine readable.
func newTelemetry(cmd *cobra.Command, async bool) (*telemetry.Telemetry, error) {
	cfg := telemetry.DefaultConfig()
	if v := cmd.Root().Version; v != "" {
		cfg.ServiceVersion = v
	}

	cfg.Logging.Level = logLevel
	cfg.Logging.Format = logFormat
	cfg.Logging.Writer = cmd.ErrOrStderr()

	cfg.Tracing.Exporter = traceExporter
	cfg.Tracing.Enabled = traceExporter != "none"
	cfg.Tracing.Endpoint = traceEndpoint
	cfg.Tracing.Writer = cmd.ErrOrStderr()

	cfg.Events.EnableAsync = async

	tel, err := telemetry.NewTelemetry(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	return tel, nil
}

// newPolicyEngine builds the lint policy engine with any policy files or
// directories loaded on top of the built-in set.
func newPolicyEngine(cmd *cobra.Command, tel *telemetry.Telemetry, paths []string) (*policy.Engine, error) {
	eng, err := policy.NewEngine(tel.Logger.Zerolog())
	if err != nil {
		return nil, err
	}
	if len(paths) > 0 {
		if err := eng.LoadPolicies(cmd.Context(), paths); err != nil {
			return nil, err
		}
	}
	return eng, nil
}

func shutdownTelemetry(tel *telemetry.Telemetry) {
	if err := tel.Shutdown(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry shutdown: %v\n", err)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
