package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// Display shows the progress of a sequence of steps on out.
type Display struct {
	capabilities TerminalCapabilities
	out          io.Writer
	symbols      Symbols

	mu      sync.Mutex
	spinner *spinner.Spinner
}

// NewDisplay creates a display writing to out, usually os.Stderr so that it does not mix with
// report output.
func NewDisplay(caps TerminalCapabilities, out io.Writer) *Display {
	return &Display{
		capabilities: caps,
		out:          out,
		symbols:      SelectSymbols(caps),
	}
}

// Start begins displaying progress for step
func (d *Display) Start(step Step) error {
	if err := step.Validate(); err != nil {
		return err
	}
	msg := buildStepMessage(step)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()

	if d.capabilities.IsTTY {
		d.spinner = spinner.New(spinner.CharSets[d.symbols.SpinnerSet], 100*time.Millisecond)
		d.spinner.Writer = d.out
		d.spinner.Suffix = " " + msg
		d.spinner.Start()
		return nil
	}
	fmt.Fprintln(d.out, msg)
	return nil
}

// Finish stops the spinner and prints the outcome of step. The step failed when its Status
// is StepFailed or err is non-nil; err, when present, is shown after the name.
func (d *Display) Finish(step Step, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()

	counter := formatCounter(step.Number, step.Total)
	switch {
	case err != nil:
		fmt.Fprintf(d.out, "%s %s %s: %s\n", failureMark(d.symbols, d.capabilities.SupportsColor), counter, step.Name, FirstLine(err))
	case step.Status == StepFailed:
		fmt.Fprintf(d.out, "%s %s %s\n", failureMark(d.symbols, d.capabilities.SupportsColor), counter, step.Name)
	default:
		fmt.Fprintf(d.out, "%s %s %s\n", checkmark(d.symbols, d.capabilities.SupportsColor), counter, step.Name)
	}
}

// Stop stops the spinner without printing an outcome
func (d *Display) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

func (d *Display) stopLocked() {
	if d.spinner != nil {
		d.spinner.Stop()
		d.spinner = nil
	}
}
