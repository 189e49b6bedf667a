// Package shared provides constants and helpers used across CLI subpackages.
// This package has no dependencies on other CLI packages to avoid circular imports.
package shared

import (
	"errors"
	"fmt"

	clierrors "github.com/ariel-frischer/examplecheck/internal/errors"
)

// Command group IDs for organizing help output
const (
	GroupChecks        = "checks"
	GroupInspection    = "inspection"
	GroupConfiguration = "configuration"
)

// Exit codes for CLI commands
const (
	ExitSuccess          = 0
	ExitCheckFailed      = 1
	ExitInvalidArguments = 3
)

// exitError is a custom error type that carries an exit code.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// NewExitError creates a new exit error with the given code.
func NewExitError(code int) error {
	return &exitError{code: code}
}

// IsExitError reports whether err carries an exit code.
func IsExitError(err error) bool {
	var e *exitError
	return errors.As(err, &e)
}

// ExitCode returns the exit code from an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		return ExitCodeFor(cliErr.Category)
	}
	return ExitCheckFailed
}

// ExitCodeFor maps an error category to an exit code. Anything the user must fix before
// the checks can run is an invalid-arguments exit.
func ExitCodeFor(category clierrors.ErrorCategory) int {
	switch category {
	case clierrors.Argument, clierrors.Configuration, clierrors.Prerequisite:
		return ExitInvalidArguments
	default:
		return ExitCheckFailed
	}
}
