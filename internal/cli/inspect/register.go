// Package inspect provides the CLI commands that examine an examples tree.
// Includes: check, scan, list
package inspect

import (
	"github.com/spf13/cobra"
)

// Register adds the inspection commands to the root command.
// This function is called from the root CLI package during initialization.
func Register(rootCmd *cobra.Command) {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(listCmd)
}
