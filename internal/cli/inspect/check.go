package inspect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"slices"
	"sync"
	"time"

	"github.com/ariel-frischer/examplecheck/internal/builder"
	"github.com/ariel-frischer/examplecheck/internal/checks"
	"github.com/ariel-frischer/examplecheck/internal/cli/shared"
	"github.com/ariel-frischer/examplecheck/internal/config"
	clierrors "github.com/ariel-frischer/examplecheck/internal/errors"
	"github.com/ariel-frischer/examplecheck/internal/progress"
	"github.com/ariel-frischer/examplecheck/internal/report"
	"github.com/ariel-frischer/examplecheck/internal/watch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkCmd = &cobra.Command{
	Use:     "check [check...]",
	Aliases: []string{"c"},
	Short:   "Run consistency checks over the examples tree (c)",
	Long: `Run consistency checks over every example project.

Available checks:
  build       Build and test every curated project (opt-in, see --build)
  version     Every curated project declares the same package version
  config      Every project has the same build configuration once target-dir is made absolute
  channel     Every project pins the same toolchain channel
  components  No project requests the forbidden toolchain component
  paths       No forbidden file exists anywhere in the tree

With no arguments every check except build runs. Checks run concurrently and
a failing check never stops the others. The exit code is 1 when any check fails.`,
	Example: `  # Run the default checks
  examplecheck check

  # Include the build check
  examplecheck check --build

  # Run selected checks with table output
  examplecheck check version channel --format table

  # Re-run on every change
  examplecheck check --watch`,
	SilenceUsage: true,
	RunE:         runCheck,
}

func init() {
	checkCmd.GroupID = shared.GroupChecks
	checkCmd.Flags().BoolP("build", "b", false, "Also build and test every curated project")
	checkCmd.Flags().StringP("format", "f", string(report.FormatText), "Output format: text, table, yaml")
	checkCmd.Flags().BoolP("watch", "w", false, "Re-run the checks when files change")
	checkCmd.Flags().Duration("debounce", watch.DefaultDebounce, "Quiet period before re-running in watch mode")
}

// selectChecks resolves the command arguments and --build into the checks to run.
func selectChecks(args []string, build bool) ([]string, *clierrors.CLIError) {
	if err := checks.ValidateNames(args); err != nil {
		var uerr *checks.UnknownCheckError
		if errors.As(err, &uerr) {
			return nil, clierrors.UnknownCheck(uerr.Name, checks.All)
		}
		return nil, clierrors.Wrap(err, clierrors.Argument)
	}
	names := slices.Clone(args)
	if len(names) == 0 {
		names = slices.Clone(checks.Default)
	}
	if build && !slices.Contains(names, config.CheckBuild) {
		names = append(names, config.CheckBuild)
	}
	return names, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	build, _ := cmd.Flags().GetBool("build")
	formatName, _ := cmd.Flags().GetString("format")
	watching, _ := cmd.Flags().GetBool("watch")
	debounce, _ := cmd.Flags().GetDuration("debounce")

	format, err := report.ParseFormat(formatName)
	if err != nil {
		return shared.Fail(cmd, clierrors.InvalidOutputFormat(formatName))
	}
	if watching && format == report.FormatYAML {
		return shared.Fail(cmd, clierrors.InvalidFlagCombination("--watch --format yaml", "watch mode needs a human-readable format"))
	}

	names, cliErr := selectChecks(args, build)
	if cliErr != nil {
		return shared.Fail(cmd, cliErr)
	}

	env, cliErr := shared.Setup(cmd)
	if cliErr != nil {
		return shared.Fail(cmd, cliErr)
	}
	defer func() { _ = env.Logger.Sync() }()
	cfg := env.Config

	var runner *timeoutRecorder
	if slices.Contains(names, config.CheckBuild) {
		if _, err := exec.LookPath(cfg.BuildCommand[0]); err != nil {
			return shared.Fail(cmd, clierrors.BuildToolNotFound(cfg.BuildCommand[0]))
		}
		runner = &timeoutRecorder{Runner: &builder.CommandRunner{
			Command: cfg.BuildCommand,
			Timeout: cfg.BuildTimeoutDuration(),
		}}
	}

	opts := checks.OptionsFromConfig(cfg, nil, env.Logger)
	if runner != nil {
		opts.Runner = runner
		caps := progress.TerminalCapabilities{}
		if f, ok := cmd.ErrOrStderr().(*os.File); ok && !env.Plain {
			caps = progress.DetectTerminalCapabilities(f)
		}
		display := progress.NewDisplay(caps, cmd.ErrOrStderr())
		defer display.Stop()
		opts.Progress = display
	}
	suite := checks.NewSuite(opts)
	out := cmd.OutOrStdout()

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt)
	defer stop()

	run := func() bool {
		r := suite.Run(ctx, names...)
		if err := report.Render(out, r, format, env.Plain); err != nil {
			env.Logger.Error("failed to render report", zap.Error(err))
		}
		if timeout := runner.take(); timeout != nil {
			clierrors.FprintError(cmd.ErrOrStderr(),
				clierrors.TimeoutError(timeout.Timeout.String(), timeout.Command))
		}
		return r.Passed
	}

	passed := run()
	if !watching {
		if !passed {
			return shared.NewExitError(shared.ExitCheckFailed)
		}
		return nil
	}

	fmt.Fprintf(out, "\nWatching %s for changes (Ctrl+C to stop)\n", cfg.ExamplesRoot)
	w := &watch.Watcher{
		Root:     cfg.ExamplesRoot,
		SkipDirs: cfg.SkipDirs,
		Debounce: debounce,
		Logger:   env.Logger,
	}
	if err := w.Run(ctx, func() { rerun(out, run) }); err != nil {
		return shared.Fail(cmd, clierrors.Wrap(err, clierrors.Runtime))
	}
	return nil
}

// timeoutRecorder remembers the last build that hit the timeout so the command can
// suggest raising it.
type timeoutRecorder struct {
	builder.Runner

	mu   sync.Mutex
	last *builder.TimeoutError
}

func (r *timeoutRecorder) Run(ctx context.Context, dir string) error {
	err := r.Runner.Run(ctx, dir)
	var timeout *builder.TimeoutError
	if errors.As(err, &timeout) {
		r.mu.Lock()
		r.last = timeout
		r.mu.Unlock()
	}
	return err
}

// take returns and clears the recorded timeout. Safe on a nil receiver.
func (r *timeoutRecorder) take() *builder.TimeoutError {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	last := r.last
	r.last = nil
	return last
}

func rerun(out io.Writer, run func() bool) {
	fmt.Fprintf(out, "\n--- %s ---\n", time.Now().Format(time.TimeOnly))
	run()
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
