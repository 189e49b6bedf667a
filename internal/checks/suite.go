package checks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/ariel-frischer/examplecheck/internal/buildconfig"
	"github.com/ariel-frischer/examplecheck/internal/config"
	"github.com/ariel-frischer/examplecheck/internal/consistency"
	"github.com/ariel-frischer/examplecheck/internal/progress"
	"github.com/ariel-frischer/examplecheck/internal/report"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// UnknownCheckError reports a check name that is not in All.
type UnknownCheckError struct {
	Name string
}

func (e *UnknownCheckError) Error() string {
	return fmt.Sprintf("unknown check %q", e.Name)
}

// ValidateNames returns an error for the first name not in All.
func ValidateNames(names []string) error {
	for _, n := range names {
		if !slices.Contains(All, n) {
			return &UnknownCheckError{Name: n}
		}
	}
	return nil
}

// Run executes the named checks concurrently and returns their results in report order
// (the order of All). No names means Default. A failing check never stops the others.
func (s *Suite) Run(ctx context.Context, names ...string) *report.Report {
	if len(names) == 0 {
		names = Default
	}
	ordered := make([]string, 0, len(names))
	for _, n := range All {
		if slices.Contains(names, n) {
			ordered = append(ordered, n)
		}
	}
	for _, n := range names {
		if !slices.Contains(All, n) && !slices.Contains(ordered, n) {
			ordered = append(ordered, n)
		}
	}

	results := make([]report.CheckResult, len(ordered))
	var g errgroup.Group
	for i, name := range ordered {
		g.Go(func() error {
			results[i] = s.runOne(ctx, name)
			return nil // Don't propagate: every check reports into its own result
		})
	}
	_ = g.Wait()

	r := report.New()
	for _, res := range results {
		r.Add(res)
	}
	return r
}

func (s *Suite) runOne(ctx context.Context, name string) report.CheckResult {
	start := time.Now()
	s.logger.Debug("running check", zap.String("check", name))

	var (
		sum Summary
		err error
	)
	switch name {
	case config.CheckBuild:
		sum, err = s.CheckBuild(ctx)
	case config.CheckVersion:
		sum, err = s.CheckVersion()
	case config.CheckConfig:
		sum, err = s.CheckConfig()
	case config.CheckChannel:
		sum, err = s.CheckChannel()
	case config.CheckComponents:
		sum, err = s.CheckComponents()
	case config.CheckPaths:
		sum, err = s.CheckPaths()
	default:
		err = &UnknownCheckError{Name: name}
	}

	res := describe(name, sum, err)
	res.Duration = time.Since(start)
	s.logger.Debug("check finished",
		zap.String("check", name),
		zap.Bool("passed", res.Passed),
		zap.Duration("duration", res.Duration))
	return res
}

// describe turns a check outcome into a report entry.
func describe(name string, sum Summary, err error) report.CheckResult {
	res := report.CheckResult{Name: name}
	if err == nil {
		res.Passed = true
		res.Message = passMessage(name, sum)
		return res
	}

	var (
		mismatch   *consistency.MismatchError[string]
		components ComponentViolations
		paths      PathViolations
		builds     BuildFailures
	)
	switch {
	case errors.As(err, &mismatch):
		if name == config.CheckConfig {
			res.Message = fmt.Sprintf("%s differs from %s", mismatch.Project, mismatch.Baseline)
			res.Details = []string{buildconfig.Diff(mismatch.BaselineValue, mismatch.Value)}
		} else {
			res.Message = err.Error()
		}
	case errors.As(err, &components):
		res.Message = err.Error()
		for _, c := range components {
			res.Details = append(res.Details, c.Project)
		}
	case errors.As(err, &paths):
		res.Message = err.Error()
		for _, v := range paths {
			res.Details = append(res.Details, v.String())
		}
	case errors.As(err, &builds):
		res.Message = fmt.Sprintf("%d of %d project(s) failed", len(builds), sum.Checked)
		for _, b := range builds {
			res.Details = append(res.Details, fmt.Sprintf("%s: %v", b.Project, progress.FirstLine(b.Err)))
		}
	default:
		res.Message = err.Error()
	}
	return res
}

func passMessage(name string, sum Summary) string {
	if name == config.CheckPaths {
		return "no forbidden paths"
	}
	msg := fmt.Sprintf("%d project(s) checked", sum.Checked)
	if sum.Excluded > 0 {
		msg += fmt.Sprintf(", %d excluded", sum.Excluded)
	}
	if sum.Value != "" {
		msg += fmt.Sprintf(", all %s", sum.Value)
	}
	return msg
}
