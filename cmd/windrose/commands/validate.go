package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fishter/lovelace-windrose-card/pkg/config"
	"github.com/fishter/lovelace-windrose-card/pkg/validation"
)

// fileReport is the JSON form of one validated file.
type fileReport struct {
	Source string             `json:"source"`
	Valid  bool               `json:"valid"`
	Error  *errorReport       `json:"error,omitempty"`
	Result *validation.Result `json:"result,omitempty"`
}

type errorReport struct {
	Kind    string `json:"kind,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func newValidateCommand() *cobra.Command {
	var (
		strict   bool
		schema   string
		lint     bool
		policies []string
	)

	cmd := &cobra.Command{
		Use:   "validate [files...]",
		Short: "Validate wind rose card configuration files",
		Long: `Validate wind rose card configurations written in YAML or JSON.

This command checks:
  - Mutually exclusive and required fields
  - Numeric ranges and enumerated values
  - Windspeed entity unit and speed range settings
  - Optionally, conformance to a CUE schema (--strict)
  - Optionally, lint policies written in Rego (--lint, --policy)

Each file is reported separately. The exit code is non-zero if any file
fails. Use "-" to read a config from stdin.`,
		Example: `  # Validate a card config
  windrose validate card.yaml

  # Validate from stdin and print the normalized model
  cat card.json | windrose validate --json -

  # Strict validation with a custom schema
  windrose validate --strict --schema ./card.cue card.yaml

  # Lint with the built-in and house policies
  windrose validate --policy ./policies card.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Debug().
				Strs("files", args).
				Bool("strict", strict).
				Str("schema", schema).
				Msg("Validating card configs")

			tel, err := newTelemetry(cmd, false)
			if err != nil {
				return err
			}
			defer shutdownTelemetry(tel)

			opts := []validation.ServiceOption{validation.WithStrict(strict)}
			if schema != "" {
				source, err := os.ReadFile(schema)
				if err != nil {
					return fmt.Errorf("failed to read schema: %w", err)
				}
				name := strings.TrimSuffix(filepath.Base(schema), filepath.Ext(schema))
				opts = append(opts, validation.WithSchema(name, string(source)))
			}

			if lint || len(policies) > 0 {
				eng, err := newPolicyEngine(cmd, tel, policies)
				if err != nil {
					return err
				}
				opts = append(opts, validation.WithPolicies(eng))
			}

			svc, err := validation.NewService(tel, opts...)
			if err != nil {
				return err
			}

			reports := make([]fileReport, 0, len(args))
			failed := 0
			for _, path := range args {
				result, err := validateOne(cmd, svc, path)
				report := fileReport{Source: path, Valid: err == nil, Result: result}
				if err != nil {
					failed++
					report.Error = newErrorReport(err)
				}
				reports = append(reports, report)

				if !jsonOutput {
					printReport(cmd.OutOrStdout(), report)
				}
			}

			if jsonOutput {
				if err := writeJSON(cmd.OutOrStdout(), reports); err != nil {
					return err
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d card configs failed validation", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "enable strict CUE schema validation")
	cmd.Flags().StringVar(&schema, "schema", "", "custom CUE schema file (implies --strict)")
	cmd.Flags().BoolVar(&lint, "lint", false, "evaluate the built-in lint policies")
	cmd.Flags().StringSliceVar(&policies, "policy", nil, "Rego policy file or directory (implies --lint)")

	return cmd
}

func validateOne(cmd *cobra.Command, svc *validation.Service, path string) (*validation.Result, error) {
	if path != "-" {
		return svc.ValidateFile(cmd.Context(), path)
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return svc.Validate(cmd.Context(), "stdin", data)
}

func newErrorReport(err error) *errorReport {
	var verr *config.ValidationError
	if errors.As(err, &verr) {
		return &errorReport{Kind: string(verr.Kind), Field: verr.Field, Message: verr.Message}
	}
	var perr *validation.PolicyError
	if errors.As(err, &perr) && len(perr.Violations) > 0 {
		return &errorReport{Kind: validation.KindPolicyViolation, Field: perr.Violations[0].Field, Message: err.Error()}
	}
	return &errorReport{Message: err.Error()}
}

func printReport(w io.Writer, r fileReport) {
	if !r.Valid {
		fmt.Fprintf(w, "FAIL %s: %s\n", r.Source, r.Error.Message)
		if r.Error.Field != "" {
			fmt.Fprintf(w, "     field: %s (%s)\n", r.Error.Field, r.Error.Kind)
		}
		return
	}

	snap := r.Result.Snapshot
	fmt.Fprintf(w, "OK   %s\n", r.Source)
	fmt.Fprintf(w, "     entities: %s\n", snap.FilterEntitiesQueryParameter)
	fmt.Fprintf(w, "     directions: %d, matching: %s\n", snap.WindDirectionCount, snap.MatchingStrategy)
	for _, d := range snap.Deprecations {
		fmt.Fprintf(w, "     deprecated: %s: %s\n", d.Field, d.Message)
	}
	for _, v := range r.Result.Violations {
		fmt.Fprintf(w, "     %s: %s: %s\n", v.Severity, v.Policy, v.Message)
	}
}
