package shared

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	clierrors "github.com/ariel-frischer/examplecheck/internal/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want int
	}{
		"nil":                 {err: nil, want: ExitSuccess},
		"exit error":          {err: NewExitError(ExitInvalidArguments), want: ExitInvalidArguments},
		"wrapped exit error":  {err: fmt.Errorf("run: %w", NewExitError(ExitCheckFailed)), want: ExitCheckFailed},
		"argument error":      {err: clierrors.NewArgumentError("bad"), want: ExitInvalidArguments},
		"configuration error": {err: clierrors.NewConfigError("bad"), want: ExitInvalidArguments},
		"prerequisite error":  {err: clierrors.NewPrerequisiteError("missing"), want: ExitInvalidArguments},
		"runtime error":       {err: clierrors.NewRuntimeError("boom"), want: ExitCheckFailed},
		"plain error":         {err: errors.New("boom"), want: ExitCheckFailed},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ExitCode(tc.err))
		})
	}
}

func TestIsExitError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsExitError(NewExitError(1)))
	assert.False(t, IsExitError(errors.New("exit code 1")))
	assert.Equal(t, "exit code 3", NewExitError(3).Error())
}

func TestFail(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	cmd := &cobra.Command{Use: "test"}
	cmd.SetErr(&stderr)

	err := Fail(cmd, clierrors.ExamplesRootNotFound("/nowhere"))
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
	assert.Contains(t, stderr.String(), "examples root not found: /nowhere")
}

func TestPlainOutput(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Bool(PlainFlagName, false, "")
	cmd.SetOut(&bytes.Buffer{})
	assert.True(t, PlainOutput(cmd), "a buffer is never a terminal")
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
