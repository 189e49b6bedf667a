package shared

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// PlainFlagName is the persistent flag that disables colors and symbols.
const PlainFlagName = "plain"

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// PlainOutput decides whether the command should print without colors: when --plain is set,
// when NO_COLOR is set, or when stdout is not a terminal. It also updates color.NoColor so
// error formatting follows the same decision.
func PlainOutput(cmd *cobra.Command) bool {
	plain, _ := cmd.Flags().GetBool(PlainFlagName)
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		plain = true
	}
	if !IsTerminal(cmd.OutOrStdout()) {
		plain = true
	}
	if plain {
		color.NoColor = true
	}
	return plain
}
