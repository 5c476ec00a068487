package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fishter/lovelace-windrose-card/pkg/config"
)

func newExampleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Print an example card configuration",
		Long: `Print a card configuration with every optional section filled in with its
default value. The entity ids are left blank and must be filled in before the
config validates.`,
		Example: `  # Print the example as YAML
  windrose example > card.yaml

  # Print the example as JSON
  windrose example --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			example := config.ExampleConfig(config.DefaultDefaults())

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), example)
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(example); err != nil {
				return fmt.Errorf("failed to encode example: %w", err)
			}
			return enc.Close()
		},
	}

	return cmd
}
