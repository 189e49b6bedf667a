// Package cli provides the Cobra-based command line for examplecheck. It defines the checks
// (check, scan), inspection (list) and configuration (config, version) commands.
package cli

import (
	"github.com/ariel-frischer/examplecheck/internal/cli/config"
	"github.com/ariel-frischer/examplecheck/internal/cli/inspect"
	"github.com/ariel-frischer/examplecheck/internal/cli/shared"
	"github.com/ariel-frischer/examplecheck/internal/cli/util"
	internalconfig "github.com/ariel-frischer/examplecheck/internal/config"
	clierrors "github.com/ariel-frischer/examplecheck/internal/errors"
	"github.com/spf13/cobra"
)

// Command group IDs for organizing help output (re-exported from shared)
const (
	GroupChecks        = shared.GroupChecks
	GroupInspection    = shared.GroupInspection
	GroupConfiguration = shared.GroupConfiguration
)

var rootCmd = &cobra.Command{
	Use:   "examplecheck",
	Short: "Cross-project consistency checks for an examples tree",
	Long: `examplecheck keeps a directory of independently buildable example projects uniform.

It verifies that every project declares the same package version, uses an equivalent
build configuration, pins the same toolchain channel, avoids a forbidden toolchain
component, and that no forbidden files exist in the tree. Optionally it builds and
tests every project.`,
	Example: `  # Run every check except build
  examplecheck check

  # Include the build check
  examplecheck check --build

  # Only the forbidden path scan
  examplecheck scan

  # Show which projects the checks see
  examplecheck list --mode recursive`,
	SilenceErrors: true,
}

// Execute runs the root command. Errors from commands are printed where they occur; any
// other error comes from argument parsing and is printed here.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil || shared.IsExitError(err) {
		return err
	}
	cliErr := clierrors.AsCLIError(err)
	if cliErr == nil {
		cliErr = clierrors.Wrap(err, clierrors.Argument, "Run 'examplecheck help' for usage")
	}
	return shared.Fail(rootCmd, cliErr)
}

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: GroupChecks, Title: "Checks:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupInspection, Title: "Inspection:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"})

	rootCmd.SetHelpCommandGroupID(GroupConfiguration)
	rootCmd.SetCompletionCommandGroupID(GroupConfiguration)

	// Global flags
	rootCmd.PersistentFlags().StringP(shared.ConfigFlagName, "c", internalconfig.DefaultConfigPath, "Path to config file")
	rootCmd.PersistentFlags().StringP(shared.RootFlagName, "r", "", "Examples root directory (overrides examples_root)")
	rootCmd.PersistentFlags().BoolP(shared.DebugFlagName, "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool(shared.PlainFlagName, false, "Plain output without colors or symbols")

	// Register commands from subpackages
	inspect.Register(rootCmd)
	config.Register(rootCmd)
	util.Register(rootCmd)
}
