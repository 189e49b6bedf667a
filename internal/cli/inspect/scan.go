package inspect

import (
	"fmt"

	"github.com/ariel-frischer/examplecheck/internal/cli/shared"
	clierrors "github.com/ariel-frischer/examplecheck/internal/errors"
	"github.com/ariel-frischer/examplecheck/internal/pathscan"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List forbidden files anywhere in the examples tree",
	Long: `Walk every entry under the examples root and report forbidden files.

Two rules apply:
  - forbidden_files_general names are reported anywhere, allowed directories included
  - forbidden_files_specific path suffixes are reported outside allowed_dirs

Every violation is printed, one per line. The exit code is 1 when any is found.`,
	Example: `  # Scan the configured examples root
  examplecheck scan

  # Scan another tree
  examplecheck scan --root ../other/examples`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cliErr := shared.Setup(cmd)
		if cliErr != nil {
			return shared.Fail(cmd, cliErr)
		}
		cfg := env.Config
		out := cmd.OutOrStdout()

		violations, err := pathscan.Scan(cfg.ExamplesRoot, pathscan.Rules{
			General:     cfg.ForbiddenFilesGeneral,
			Specific:    cfg.ForbiddenFilesSpecific,
			AllowedDirs: cfg.AllowedDirs,
		})
		for _, v := range violations {
			fmt.Fprintln(out, v.String())
		}
		if err != nil {
			return shared.Fail(cmd, clierrors.WrapWithMessage(err, clierrors.Runtime, "scan aborted"))
		}

		if len(violations) > 0 {
			if !env.Plain {
				fmt.Fprintln(out, color.RedString("\n%d forbidden path(s) found", len(violations)))
			}
			return shared.NewExitError(shared.ExitCheckFailed)
		}
		if !env.Plain {
			fmt.Fprintln(out, color.GreenString("✓ no forbidden paths"))
		}
		return nil
	},
}

func init() {
	scanCmd.GroupID = shared.GroupChecks
}
