package cli

import (
	"github.com/ariel-frischer/examplecheck/internal/cli/shared"
)

// Exit codes for the examplecheck CLI (re-exported from shared)
const (
	// ExitSuccess indicates every check passed
	ExitSuccess = shared.ExitSuccess

	// ExitCheckFailed indicates at least one check failed
	ExitCheckFailed = shared.ExitCheckFailed

	// ExitInvalidArguments indicates invalid arguments, configuration or examples root
	ExitInvalidArguments = shared.ExitInvalidArguments
)

// NewExitError creates a new exit error with the given code (re-exported from shared).
func NewExitError(code int) error {
	return shared.NewExitError(code)
}

// ExitCode returns the exit code from an error (re-exported from shared).
func ExitCode(err error) int {
	return shared.ExitCode(err)
}
