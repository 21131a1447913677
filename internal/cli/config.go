package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(flags *GlobalFlags, deps *commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(newConfigShowCmd(flags, deps))
	return cmd
}

func newConfigShowCmd(flags *GlobalFlags, deps *commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging, in order of precedence:
  1. AGENDA_* environment variables
  2. .agenda/config.yaml in the working directory
  3. ~/.agenda/config.yaml
  4. built-in defaults

The API key itself is never part of the configuration; only the name of
the environment variable holding it is shown.

Examples:
  agenda config show
  agenda config show -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := deps.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			if flags.Output == OutputJSON {
				// Round-trip through YAML so JSON keys match the file keys.
				var doc map[string]any
				if err := yaml.Unmarshal(data, &doc); err != nil {
					return fmt.Errorf("failed to convert config: %w", err)
				}
				return newOutput(cmd, flags).JSON(doc)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
