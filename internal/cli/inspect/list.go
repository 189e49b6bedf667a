package inspect

import (
	"fmt"

	"github.com/ariel-frischer/examplecheck/internal/cli/shared"
	clierrors "github.com/ariel-frischer/examplecheck/internal/errors"
	"github.com/ariel-frischer/examplecheck/internal/project"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List example projects (ls)",
	Long: `List the example projects the checks operate on, one relative path per line.

Modes:
  curated    Direct children of the curated top-level directories (version and build checks)
  recursive  Every directory below the root that contains a manifest (config, channel and
             components checks)`,
	Example: `  # Curated projects
  examplecheck list

  # Every project, including nested ones
  examplecheck list --mode recursive`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		modeName, _ := cmd.Flags().GetString("mode")
		mode, err := project.ParseMode(modeName)
		if err != nil {
			return shared.Fail(cmd, clierrors.InvalidMode(modeName))
		}

		env, cliErr := shared.Setup(cmd)
		if cliErr != nil {
			return shared.Fail(cmd, cliErr)
		}
		cfg := env.Config

		enum := &project.Enumerator{
			Root:         cfg.ExamplesRoot,
			ManifestFile: cfg.ManifestFile,
			Curated:      cfg.CuratedDirs,
			SkipDirs:     cfg.SkipDirs,
		}
		out := cmd.OutOrStdout()
		count := 0
		for p, err := range enum.Enumerate(mode) {
			if err != nil {
				return shared.Fail(cmd, clierrors.WrapWithMessage(err, clierrors.Runtime, "listing projects"))
			}
			fmt.Fprintln(out, p.Rel)
			count++
		}
		if count == 0 {
			return shared.Fail(cmd, clierrors.NoProjectsFound(cfg.ExamplesRoot, cfg.ManifestFile))
		}
		return nil
	},
}

func init() {
	listCmd.GroupID = shared.GroupInspection
	listCmd.Flags().StringP("mode", "m", project.ModeCurated.String(), "Enumeration mode: curated, recursive")
}
