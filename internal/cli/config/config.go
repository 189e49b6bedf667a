package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ariel-frischer/examplecheck/internal/cli/shared"
	"github.com/ariel-frischer/examplecheck/internal/config"
	clierrors "github.com/ariel-frischer/examplecheck/internal/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect examplecheck configuration",
	Long: `Inspect examplecheck configuration.

Configuration is merged from, in increasing priority:
  - built-in defaults
  - the JSON config file (--config, default .examplecheck.json)
  - EXAMPLECHECK_* environment variables
  - the --root and --debug flags`,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Example: `  # Show the merged configuration
  examplecheck config show

  # See the effect of an environment override
  EXAMPLECHECK_EXCLUSIONS_VERSION=restriction,marker examplecheck config show`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cliErr := shared.LoadConfig(cmd)
		if cliErr != nil {
			return shared.Fail(cmd, cliErr)
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return shared.Fail(cmd, clierrors.Wrap(err, clierrors.Runtime))
		}
		return enc.Close()
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the config file for syntax and schema errors",
	Example: `  # Validate the default config file
  examplecheck config validate

  # Validate another file
  examplecheck config validate --config ci/examplecheck.json`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString(shared.ConfigFlagName)
		if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(cmd.OutOrStdout(), "no config file at %s, defaults apply\n", configPath)
			return nil
		}
		if err := config.ValidateJSONSyntax(configPath); err != nil {
			return shared.Fail(cmd, clierrors.ConfigParseError(configPath, err))
		}
		if _, cliErr := shared.LoadConfig(cmd); cliErr != nil {
			return shared.Fail(cmd, cliErr)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s is valid\n", color.GreenString("✓"), configPath)
		return nil
	},
}

func init() {
	configCmd.GroupID = shared.GroupConfiguration
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}
