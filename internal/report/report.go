// Package report aggregates check results and renders them for the console.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// CheckResult represents the result of a single check
type CheckResult struct {
	Name     string
	Passed   bool
	Message  string
	Details  []string // One line per offending project or path
	Duration time.Duration
}

// Report contains all check results
type Report struct {
	Checks []CheckResult
	Passed bool
}

// New returns an empty, passing report.
func New() *Report {
	return &Report{Checks: make([]CheckResult, 0), Passed: true}
}

// Add appends a result and updates the overall status.
func (r *Report) Add(result CheckResult) {
	r.Checks = append(r.Checks, result)
	if !result.Passed {
		r.Passed = false
	}
}

// Failed returns the failing results.
func (r *Report) Failed() []CheckResult {
	var out []CheckResult
	for _, c := range r.Checks {
		if !c.Passed {
			out = append(out, c)
		}
	}
	return out
}

// Format selects a renderer.
type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatTable, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: text, table, yaml)", s)
	}
}

// Render writes the report to w in the given format. plain disables colors and symbols.
func Render(w io.Writer, r *Report, format Format, plain bool) error {
	switch format {
	case FormatText, "":
		_, err := io.WriteString(w, FormatReport(r, plain))
		return err
	case FormatTable:
		return renderTable(w, r)
	case FormatYAML:
		return renderYAML(w, r)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// FormatReport formats the report for console output
func FormatReport(r *Report, plain bool) string {
	var sb strings.Builder

	if plain {
		for _, check := range r.Checks {
			status := "pass"
			if !check.Passed {
				status = "fail"
			}
			fmt.Fprintf(&sb, "%s: %s: %s\n", status, check.Name, check.Message)
			for _, d := range check.Details {
				fmt.Fprintf(&sb, "  %s\n", d)
			}
		}
		fmt.Fprintf(&sb, "passed: %t\n", r.Passed)
		return sb.String()
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	for _, check := range r.Checks {
		if check.Passed {
			fmt.Fprintf(&sb, "%s %s %s\n", green("✓"), check.Name, dim(check.Message))
			continue
		}
		fmt.Fprintf(&sb, "%s %s: %s\n", red("✗"), check.Name, check.Message)
		for _, d := range check.Details {
			fmt.Fprintf(&sb, "    %s\n", d)
		}
	}

	failed := len(r.Failed())
	if failed == 0 {
		fmt.Fprintf(&sb, "\n%s\n", green(fmt.Sprintf("All %d checks passed", len(r.Checks))))
	} else {
		fmt.Fprintf(&sb, "\n%s\n", red(fmt.Sprintf("%d of %d checks failed", failed, len(r.Checks))))
	}
	return sb.String()
}

func renderTable(w io.Writer, r *Report) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Check", "Status", "Message", "Duration"})
	for _, c := range r.Checks {
		status := "PASS"
		if !c.Passed {
			status = "FAIL"
		}
		msg := c.Message
		if len(c.Details) > 0 {
			msg += "\n" + strings.Join(c.Details, "\n")
		}
		t.AppendRow(table.Row{c.Name, status, msg, c.Duration.Round(time.Millisecond).String()})
	}
	t.Render()
	return nil
}

type yamlCheck struct {
	Name       string   `yaml:"name"`
	Passed     bool     `yaml:"passed"`
	Message    string   `yaml:"message"`
	Details    []string `yaml:"details,omitempty"`
	DurationMS int64    `yaml:"duration_ms"`
}

type yamlReport struct {
	Passed bool        `yaml:"passed"`
	Checks []yamlCheck `yaml:"checks"`
}

func renderYAML(w io.Writer, r *Report) error {
	out := yamlReport{Passed: r.Passed, Checks: make([]yamlCheck, 0, len(r.Checks))}
	for _, c := range r.Checks {
		out.Checks = append(out.Checks, yamlCheck{
			Name:       c.Name,
			Passed:     c.Passed,
			Message:    c.Message,
			Details:    c.Details,
			DurationMS: c.Duration.Milliseconds(),
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return enc.Close()
}
