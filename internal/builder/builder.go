// Package builder runs an external build/test command inside a project directory.
package builder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultCommand builds and tests a project's library and test targets only, which avoids
// output filename collisions when examples are built one after another.
var DefaultCommand = []string{"cargo", "test", "--lib", "--tests"}

// DefaultSanitizePrefixes are environment variable prefixes removed before running the
// command, so the outer toolchain does not leak into a project pinned to another one.
var DefaultSanitizePrefixes = []string{"CARGO", "RUSTC", "RUSTFLAGS", "RUSTUP_TOOLCHAIN", "RUSTDOC"}

const waitDelay = 5 * time.Second

// Runner runs the build for the project at dir.
type Runner interface {
	Run(ctx context.Context, dir string) error
}

// TimeoutError reports a command that exceeded its timeout.
type TimeoutError struct {
	Timeout time.Duration
	Command string
	Dir     string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s in %s timed out after %v", e.Command, e.Dir, e.Timeout)
}

// CommandError reports a command that exited unsuccessfully.
type CommandError struct {
	Command string
	Dir     string
	Output  string // Tail of combined stdout/stderr
	Err     error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s in %s failed: %v", e.Command, e.Dir, e.Err)
	if e.Output != "" {
		msg += "\n" + e.Output
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// CommandRunner runs Command with a sanitized environment.
type CommandRunner struct {
	Command          []string      // Program and arguments, defaults to DefaultCommand
	Timeout          time.Duration // 0 means no timeout
	SanitizePrefixes []string      // Environment prefixes to drop, nil means DefaultSanitizePrefixes
	OutputLines      int           // Lines of output kept in errors, 0 means 20
	Env              []string      // Base environment, nil means os.Environ()
}

// FormatCommand returns the command line for display.
func (r *CommandRunner) FormatCommand() string {
	return strings.Join(r.command(), " ")
}

func (r *CommandRunner) command() []string {
	if len(r.Command) == 0 {
		return DefaultCommand
	}
	return r.Command
}

// Run executes the command in dir.
func (r *CommandRunner) Run(ctx context.Context, dir string) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	argv := r.command()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	// Children that outlive a killed command would otherwise keep the output pipe open.
	cmd.WaitDelay = waitDelay

	base := r.Env
	if base == nil {
		base = os.Environ()
	}
	prefixes := r.SanitizePrefixes
	if prefixes == nil {
		prefixes = DefaultSanitizePrefixes
	}
	cmd.Env = SanitizeEnv(base, prefixes)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Timeout: r.Timeout, Command: r.FormatCommand(), Dir: dir}
	}
	if err != nil {
		lines := r.OutputLines
		if lines == 0 {
			lines = 20
		}
		return &CommandError{Command: r.FormatCommand(), Dir: dir, Output: tail(out.String(), lines), Err: err}
	}
	return nil
}

// SanitizeEnv returns env without the variables whose names start with any prefix.
func SanitizeEnv(env []string, prefixes []string) []string {
	out := make([]string, 0, len(env))
	for _, kv := range env {
		name, _, _ := strings.Cut(kv, "=")
		drop := false
		for _, p := range prefixes {
			if strings.HasPrefix(name, p) {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, kv)
		}
	}
	return out
}

func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
