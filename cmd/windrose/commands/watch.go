package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fishter/lovelace-windrose-card/pkg/policy"
	"github.com/fishter/lovelace-windrose-card/pkg/telemetry"
	"github.com/fishter/lovelace-windrose-card/pkg/validation"
)

func newWatchCommand() *cobra.Command {
	var (
		metricsAddr string
		debounce    time.Duration
		strict      bool
		lint        bool
		policies    []string
	)

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-validate a card configuration whenever it changes",
		Long: `Watch a card configuration file and validate it again after every change.

Each run is logged with its own run id. Validation counters, durations and
the entities referenced by the last valid config are exposed as Prometheus
metrics unless --metrics-addr is empty. Policy files passed with --policy
are reloaded when they change.`,
		Example: `  # Watch a config and expose metrics on :9090
  windrose watch card.yaml

  # Watch without a metrics endpoint
  windrose watch --metrics-addr "" card.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			tel, err := newTelemetry(cmd, true)
			if err != nil {
				return err
			}
			defer shutdownTelemetry(tel)

			opts := []validation.ServiceOption{validation.WithStrict(strict)}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			if lint || len(policies) > 0 {
				eng, err := newPolicyEngine(cmd, tel, policies)
				if err != nil {
					return err
				}
				opts = append(opts, validation.WithPolicies(eng))

				if len(policies) > 0 {
					loader := policy.NewLoader(tel.Logger.Zerolog())
					go func() {
						err := loader.Watch(ctx, policies, func(p []policy.Policy) error {
							return eng.ReplacePolicies(ctx, p)
						})
						if err != nil {
							log.Error().Err(err).Msg("Policy watcher stopped")
						}
					}()
				}
			}

			svc, err := validation.NewService(tel, opts...)
			if err != nil {
				return err
			}

			if metricsAddr != "" {
				if err := tel.Metrics.ServeMetrics(ctx, metricsAddr, tel.Logger); err != nil {
					return fmt.Errorf("failed to serve metrics: %w", err)
				}
			}

			log.Info().
				Str("path", path).
				Str("metrics_addr", metricsAddr).
				Dur("debounce", debounce).
				Msg("Watching card config")

			watcher := validation.NewWatcher(svc, path, validation.WithDebounce(debounce))
			return watcher.Run(ctx, func(result *validation.Result, err error) {
				report := fileReport{Source: path, Valid: err == nil, Result: result}
				if err != nil {
					report.Error = newErrorReport(err)
				}
				if jsonOutput {
					_ = writeJSON(cmd.OutOrStdout(), report)
					return
				}
				printReport(cmd.OutOrStdout(), report)
			})
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", telemetry.DefaultConfig().Metrics.ListenAddress, "metrics listen address (empty disables)")
	cmd.Flags().DurationVar(&debounce, "debounce", validation.DefaultDebounce, "quiet period before re-validating")
	cmd.Flags().BoolVar(&strict, "strict", false, "enable strict CUE schema validation")
	cmd.Flags().BoolVar(&lint, "lint", false, "evaluate the built-in lint policies")
	cmd.Flags().StringSliceVar(&policies, "policy", nil, "Rego policy file or directory, reloaded on change (implies --lint)")

	return cmd
}
