package progress

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// formatCounter returns the [N/Total] step counter string
func formatCounter(number, total int) string {
	return fmt.Sprintf("[%d/%d]", number, total)
}

// buildStepMessage constructs the message shown while a step runs
func buildStepMessage(step Step) string {
	action := step.Action
	if action == "" {
		action = "Running"
	}
	return fmt.Sprintf("%s %s %s", formatCounter(step.Number, step.Total), action, step.Name)
}

// FirstLine returns the first line of err's message. Command errors carry their output
// after the first line.
func FirstLine(err error) string {
	line, _, _ := strings.Cut(err.Error(), "\n")
	return line
}

// checkmark returns the appropriate checkmark symbol
func checkmark(symbols Symbols, supportsColor bool) string {
	mark := symbols.Checkmark
	if supportsColor && symbols.Checkmark == "✓" {
		mark = color.GreenString(mark)
	}
	return mark
}

// failureMark returns the appropriate failure symbol
func failureMark(symbols Symbols, supportsColor bool) string {
	mark := symbols.Failure
	if supportsColor && symbols.Failure == "✗" {
		mark = color.RedString(mark)
	}
	return mark
}
