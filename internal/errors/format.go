package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// FormatError renders err with colors for terminal output.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", red(err.Category.String()), err.Message)
	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s %s\n", yellow("Usage:"), err.Usage)
	}
	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", cyan("To fix this:"))
		for i, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %d. %s\n", i+1, step)
		}
	}
	return sb.String()
}

// FormatErrorPlain renders err without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", err.Category.String(), err.Message)
	if err.Usage != "" {
		fmt.Fprintf(&sb, "\nUsage: %s\n", err.Usage)
	}
	if len(err.Remediation) > 0 {
		sb.WriteString("\nTo fix this:\n")
		for i, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %d. %s\n", i+1, step)
		}
	}
	return sb.String()
}

// PrintError writes err to stderr.
func PrintError(err *CLIError) {
	FprintError(os.Stderr, err)
}

// FprintError writes err to w. Colors follow fatih/color's terminal detection.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	if color.NoColor {
		fmt.Fprint(w, FormatErrorPlain(err))
		return
	}
	fmt.Fprint(w, FormatError(err))
}

// FormatSimpleError renders any error, using category when err is not a CLIError.
func FormatSimpleError(err error, category ErrorCategory) string {
	if err == nil {
		return ""
	}
	cliErr := AsCLIError(err)
	if cliErr == nil {
		cliErr = Wrap(err, category)
	}
	return FormatError(cliErr)
}
