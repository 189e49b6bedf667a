// Package checks instantiates the cross-project consistency checks over an examples tree and
// runs them as a suite.
package checks

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/ariel-frischer/examplecheck/internal/buildconfig"
	"github.com/ariel-frischer/examplecheck/internal/builder"
	"github.com/ariel-frischer/examplecheck/internal/config"
	"github.com/ariel-frischer/examplecheck/internal/consistency"
	"github.com/ariel-frischer/examplecheck/internal/logging"
	"github.com/ariel-frischer/examplecheck/internal/manifest"
	"github.com/ariel-frischer/examplecheck/internal/pathscan"
	"github.com/ariel-frischer/examplecheck/internal/progress"
	"github.com/ariel-frischer/examplecheck/internal/project"
	"github.com/ariel-frischer/examplecheck/internal/toolchain"
	"go.uber.org/zap"
)

// All lists every check in report order.
var All = []string{
	config.CheckBuild,
	config.CheckVersion,
	config.CheckConfig,
	config.CheckChannel,
	config.CheckComponents,
	config.CheckPaths,
}

// Default lists the checks run when none are named. The build check is opt-in because it
// compiles every project.
var Default = []string{
	config.CheckVersion,
	config.CheckConfig,
	config.CheckChannel,
	config.CheckComponents,
	config.CheckPaths,
}

// ExpectedVersionBaseline names the configured version when it seeds the version check.
const ExpectedVersionBaseline = "expected_version"

// Options configures a Suite.
type Options struct {
	Enumerator         *project.Enumerator
	Exclusions         map[string][]string // Check name -> project directory names
	ManifestFile       string
	ExpectedVersion    string // Seeds the version baseline when set
	BuildConfigFile    string
	Normalizer         buildconfig.Normalizer
	Toolchain          toolchain.Reader
	ForbiddenComponent string
	PathRules          pathscan.Rules
	Runner             builder.Runner // Required by the build check only
	Progress           Progress       // Optional build progress display
	Logger             *zap.Logger
}

// Suite runs checks against one examples root.
type Suite struct {
	opts   Options
	logger *zap.Logger
}

// NewSuite creates a Suite.
func NewSuite(opts Options) *Suite {
	return &Suite{opts: opts, logger: logging.OrNop(opts.Logger)}
}

// OptionsFromConfig returns the Options described by loaded configuration.
func OptionsFromConfig(cfg *config.Configuration, runner builder.Runner, logger *zap.Logger) Options {
	return Options{
		Enumerator: &project.Enumerator{
			Root:         cfg.ExamplesRoot,
			ManifestFile: cfg.ManifestFile,
			Curated:      cfg.CuratedDirs,
			SkipDirs:     cfg.SkipDirs,
		},
		Exclusions:         cfg.Exclusions,
		ManifestFile:       cfg.ManifestFile,
		ExpectedVersion:    cfg.ExpectedVersion,
		BuildConfigFile:    cfg.BuildConfigFile,
		Normalizer:         buildconfig.Normalizer{Key: cfg.TargetDirKey},
		Toolchain:          toolchain.Reader{File: cfg.ToolchainFile},
		ForbiddenComponent: cfg.ForbiddenComponent,
		PathRules: pathscan.Rules{
			General:     cfg.ForbiddenFilesGeneral,
			Specific:    cfg.ForbiddenFilesSpecific,
			AllowedDirs: cfg.AllowedDirs,
		},
		Runner: runner,
		Logger: logger,
	}
}

// Summary describes what a passing check examined.
type Summary struct {
	Checked  int    // Projects (or paths) examined
	Excluded int    // Projects skipped by the exclusion list
	Value    string // The agreed value for consistency checks, if short enough to show
}

// ForbiddenComponentError reports a project that requests a forbidden toolchain component.
type ForbiddenComponentError struct {
	Project   string
	Component string
}

func (e *ForbiddenComponentError) Error() string {
	return fmt.Sprintf("%s requires forbidden component %q", e.Project, e.Component)
}

// ComponentViolations collects every project that requests the forbidden component.
type ComponentViolations []*ForbiddenComponentError

func (v ComponentViolations) Error() string {
	return fmt.Sprintf("%d project(s) require forbidden component %q", len(v), v[0].Component)
}

// PathViolations collects every forbidden path found by the scanner.
type PathViolations []pathscan.Violation

func (v PathViolations) Error() string {
	return fmt.Sprintf("%d forbidden path(s) found", len(v))
}

// BuildFailure is one project whose build/test command failed.
type BuildFailure struct {
	Project string
	Err     error
}

// BuildFailures collects every failing project of the build check.
type BuildFailures []BuildFailure

func (f BuildFailures) Error() string {
	names := make([]string, 0, len(f))
	for _, b := range f {
		names = append(names, b.Project)
	}
	return fmt.Sprintf("build failed for %s", strings.Join(names, ", "))
}

func (s *Suite) excluded(check string) consistency.Set {
	set := consistency.NewSet(s.opts.Exclusions[check]...)
	if len(set) > 0 {
		s.logger.Debug("excluding projects", zap.String("check", check), zap.Strings("projects", set.Names()))
	}
	return set
}

// counted wraps seq and counts the projects skipped by excluded.
func counted(seq iter.Seq2[project.Project, error], excluded consistency.Set, sum *Summary) iter.Seq2[project.Project, error] {
	return func(yield func(project.Project, error) bool) {
		for p, err := range seq {
			if err == nil && excluded.Has(p.Name) {
				sum.Excluded++
			}
			if !yield(p, err) {
				return
			}
		}
	}
}

// checkEqual runs CheckAllEqual over recursively or curated enumerated projects and fills
// in a Summary.
func (s *Suite) checkEqual(
	check string,
	mode project.Mode,
	extract func(project.Project) (string, error),
	showValue bool,
	opts ...consistency.Option,
) (Summary, error) {
	var sum Summary
	excluded := s.excluded(check)
	observe := consistency.WithObserver(func(p project.Project, v any) {
		sum.Checked++
		if sum.Checked == 1 && showValue {
			sum.Value = v.(string)
		}
		s.logger.Debug("observed value",
			zap.String("check", check),
			zap.String("project", p.Rel),
			zap.Any("value", truncate(v)))
	})
	opts = append(opts, observe)

	err := consistency.CheckAllEqual(counted(s.opts.Enumerator.Enumerate(mode), excluded, &sum), excluded, extract, opts...)
	return sum, err
}

// CheckVersion requires every curated project to declare the same package version.
func (s *Suite) CheckVersion() (Summary, error) {
	var opts []consistency.Option
	if s.opts.ExpectedVersion != "" {
		opts = append(opts, consistency.WithBaseline(ExpectedVersionBaseline, s.opts.ExpectedVersion))
	}
	sum, err := s.checkEqual(config.CheckVersion, project.ModeCurated, func(p project.Project) (string, error) {
		return manifest.ReadVersion(p.Root, s.opts.ManifestFile)
	}, true, opts...)
	if err == nil && sum.Value == "" {
		sum.Value = s.opts.ExpectedVersion
	}
	return sum, err
}

// CheckConfig requires every project to have an equivalent build configuration once the
// output directory has been made absolute.
func (s *Suite) CheckConfig() (Summary, error) {
	return s.checkEqual(config.CheckConfig, project.ModeRecursive, func(p project.Project) (string, error) {
		return s.opts.Normalizer.Load(p.Root, s.opts.BuildConfigFile)
	}, false)
}

// CheckChannel requires every project to pin the same toolchain channel.
func (s *Suite) CheckChannel() (Summary, error) {
	return s.checkEqual(config.CheckChannel, project.ModeRecursive, func(p project.Project) (string, error) {
		return s.opts.Toolchain.ReadChannel(p.Root)
	}, true)
}

// CheckComponents requires that no project requests the forbidden toolchain component. Every
// offending project is reported; a descriptor that cannot be read aborts the check.
func (s *Suite) CheckComponents() (Summary, error) {
	var (
		sum        Summary
		violations ComponentViolations
	)
	for p, err := range s.opts.Enumerator.Enumerate(project.ModeRecursive) {
		if err != nil {
			return sum, err
		}
		components, err := s.opts.Toolchain.ReadComponents(p.Root)
		if err != nil {
			return sum, &consistency.ExtractionError{Project: p, Err: err}
		}
		sum.Checked++
		if slices.Contains(components, s.opts.ForbiddenComponent) {
			violations = append(violations, &ForbiddenComponentError{Project: p.Rel, Component: s.opts.ForbiddenComponent})
		}
	}
	if len(violations) > 0 {
		return sum, violations
	}
	return sum, nil
}

// CheckPaths scans the whole examples root for forbidden files.
func (s *Suite) CheckPaths() (Summary, error) {
	violations, err := pathscan.Scan(s.opts.Enumerator.Root, s.opts.PathRules)
	if err != nil {
		return Summary{}, err
	}
	if len(violations) > 0 {
		return Summary{}, PathViolations(violations)
	}
	return Summary{}, nil
}

// Progress receives per-project updates from the build check.
type Progress interface {
	Start(step progress.Step) error
	Finish(step progress.Step, err error)
}

// CheckBuild runs the build/test command in every curated project and reports all failures.
// Projects are discovered before the first build so progress can show a total.
func (s *Suite) CheckBuild(ctx context.Context) (Summary, error) {
	var sum Summary
	if s.opts.Runner == nil {
		return sum, errors.New("no build runner configured")
	}
	excluded := s.excluded(config.CheckBuild)

	all, err := project.Collect(s.opts.Enumerator.Enumerate(project.ModeCurated))
	if err != nil {
		return sum, err
	}
	projects := make([]project.Project, 0, len(all))
	for _, p := range all {
		if excluded.Has(p.Name) {
			sum.Excluded++
			continue
		}
		projects = append(projects, p)
	}

	var failures BuildFailures
	for i, p := range projects {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		step := progress.Step{Name: p.Rel, Action: "Building", Number: i + 1, Total: len(projects), Status: progress.StepRunning}
		if s.opts.Progress != nil {
			if err := s.opts.Progress.Start(step); err != nil {
				s.logger.Debug("progress display rejected step", zap.Error(err))
			}
		}
		s.logger.Info("building example", zap.String("project", p.Rel))
		sum.Checked++

		err := s.opts.Runner.Run(ctx, p.Root)
		if err != nil {
			s.logger.Warn("build failed", zap.String("project", p.Rel), zap.Error(err))
			failures = append(failures, BuildFailure{Project: p.Rel, Err: err})
			step.Status = progress.StepFailed
		} else {
			step.Status = progress.StepPassed
		}
		if s.opts.Progress != nil {
			s.opts.Progress.Finish(step, err)
		}
	}
	if len(failures) > 0 {
		return sum, failures
	}
	return sum, nil
}

func truncate(v any) any {
	s, ok := v.(string)
	if !ok || len(s) <= 80 {
		return v
	}
	return s[:77] + "..."
}
