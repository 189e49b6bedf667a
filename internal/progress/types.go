// Package progress shows per-project progress for long-running checks: a spinner on
// interactive terminals and one line per step otherwise.
package progress

import apperrors "github.com/ariel-frischer/examplecheck/internal/errors"

// Status represents the execution state of a step
type Status int

const (
	// StepPending indicates the step has not started yet
	StepPending Status = iota
	// StepRunning indicates the step is currently running
	StepRunning
	// StepPassed indicates the step finished successfully
	StepPassed
	// StepFailed indicates the step failed with an error
	StepFailed
)

func (s Status) String() string {
	switch s {
	case StepPending:
		return "pending"
	case StepRunning:
		return "running"
	case StepPassed:
		return "passed"
	case StepFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Step is one unit of work, such as building one project.
type Step struct {
	// Name identifies the work, e.g. a project path relative to the examples root
	Name string
	// Action is the verb shown while the step runs, e.g. "Building"
	Action string
	// Number is the 1-based index of the step
	Number int
	// Total is the number of steps
	Total  int
	Status Status
}

// Validate checks that all Step fields meet validation requirements
func (s Step) Validate() error {
	if s.Name == "" {
		return apperrors.NewArgumentError("step name cannot be empty")
	}
	if s.Number <= 0 {
		return apperrors.NewArgumentError("step number must be > 0")
	}
	if s.Total <= 0 {
		return apperrors.NewArgumentError("total steps must be > 0")
	}
	if s.Number > s.Total {
		return apperrors.NewArgumentError("step number cannot exceed total steps")
	}
	return nil
}

// TerminalCapabilities encapsulates detected terminal features
type TerminalCapabilities struct {
	// IsTTY indicates whether the output is a terminal (vs pipe/redirect)
	IsTTY bool
	// SupportsColor indicates whether terminal supports ANSI color codes
	SupportsColor bool
	// SupportsUnicode indicates whether terminal supports Unicode characters
	SupportsUnicode bool
}

// Symbols defines the character set for visual indicators
type Symbols struct {
	// Checkmark is the success indicator ("✓" or "[OK]")
	Checkmark string
	// Failure is the failure indicator ("✗" or "[FAIL]")
	Failure string
	// SpinnerSet is the index into spinner.CharSets
	SpinnerSet int
}
