package errors

import (
	"fmt"
	"strings"
)

// ExamplesRootNotFound reports a missing examples directory.
func ExamplesRootNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("examples root not found: %s", path),
		"Run the command from the repository that contains the examples",
		"Or pass --root with the path to the examples directory",
		"Or set examples_root in .examplecheck.json",
	)
}

// NoProjectsFound reports an examples root without any project.
func NoProjectsFound(root, manifest string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("no projects found under %s", root),
		fmt.Sprintf("Each project directory must contain a %s file", manifest),
		"Check curated_dirs in your configuration",
	)
}

// UnknownCheck reports a check name that does not exist.
func UnknownCheck(name string, valid []string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("unknown check %q", name),
		"examplecheck check [build|version|config|channel|components|paths]...",
		fmt.Sprintf("Valid checks: %s", strings.Join(valid, ", ")),
	)
}

// InvalidOutputFormat reports an unsupported --format value.
func InvalidOutputFormat(format string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid output format %q", format),
		"examplecheck check --format text|table|yaml",
	)
}

// InvalidMode reports an unsupported enumeration mode.
func InvalidMode(mode string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid enumeration mode %q", mode),
		"examplecheck list --mode curated|recursive",
	)
}

// BuildToolNotFound reports a build command whose program is not on PATH.
func BuildToolNotFound(program string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("%s not found in PATH", program),
		fmt.Sprintf("Install %s or add it to your PATH", program),
		"Or change build_command in .examplecheck.json",
		"Run without --build to skip the build check",
	)
}

// ConfigFileNotFound reports an explicitly requested config file that does not exist.
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file not found: %s", path),
		"Check the path passed to --config",
		"Or run without --config to use the defaults",
	)
}

// ConfigParseError reports a config file that could not be loaded.
func ConfigParseError(path string, err error) *CLIError {
	e := NewConfigError(
		fmt.Sprintf("failed to load config %s: %v", path, err),
		"Check the file for JSON syntax errors",
		"Run 'examplecheck config validate' for details",
	)
	e.Err = err
	return e
}

// InvalidFlagCombination reports flags that cannot be used together.
func InvalidFlagCombination(flags, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination %s: %s", flags, reason),
		"Run 'examplecheck help' for flag usage",
	)
}

// TimeoutError reports a build command that exceeded build_timeout.
func TimeoutError(duration, command string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("%s timed out after %s", command, duration),
		"Increase build_timeout in .examplecheck.json",
		"Or set EXAMPLECHECK_BUILD_TIMEOUT=0 to disable the timeout",
	)
}
