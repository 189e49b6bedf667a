// Package pathscan reports forbidden files anywhere in an examples tree.
package pathscan

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// Rule identifies which policy a violation broke.
type Rule string

const (
	// RuleGeneral forbids a file name everywhere, including allow-listed directories.
	RuleGeneral Rule = "general"
	// RuleSpecific forbids a relative path suffix outside allow-listed directories.
	RuleSpecific Rule = "specific"
)

// Rules configures a scan.
type Rules struct {
	General     []string // File names forbidden anywhere
	Specific    []string // Slash-separated suffixes forbidden outside AllowedDirs
	AllowedDirs []string // Top-level directory names exempt from Specific
}

// Violation is one forbidden path.
type Violation struct {
	Path    string // Slash-separated path relative to the scan root
	Rule    Rule
	Pattern string // The General name or Specific suffix that matched
}

func (v Violation) String() string {
	if v.Rule == RuleGeneral {
		return fmt.Sprintf("forbidden file %q found: %s", v.Pattern, v.Path)
	}
	return fmt.Sprintf("forbidden file %q found in non-allowed directory: %s", v.Pattern, v.Path)
}

// ScanError reports an entry that could not be read. It aborts the scan.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scanning %s: %v", e.Path, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Scan walks every entry below root and returns all violations in walk order.
func Scan(root string, rules Rules) ([]Violation, error) {
	var violations []Violation

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &ScanError{Path: path, Err: err}
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return &ScanError{Path: path, Err: err}
		}
		violations = append(violations, rules.Check(filepath.ToSlash(rel))...)
		return nil
	})
	if err != nil {
		return violations, err
	}
	return violations, nil
}

// Check applies the rules to one slash-separated path relative to the scan root.
func (r Rules) Check(rel string) []Violation {
	var out []Violation
	parts := strings.Split(rel, "/")
	name := parts[len(parts)-1]

	for _, forbidden := range r.General {
		if name == forbidden {
			out = append(out, Violation{Path: rel, Rule: RuleGeneral, Pattern: forbidden})
		}
	}

	if slices.Contains(r.AllowedDirs, parts[0]) {
		return out
	}
	for _, forbidden := range r.Specific {
		if hasSuffix(parts, strings.Split(forbidden, "/")) {
			out = append(out, Violation{Path: rel, Rule: RuleSpecific, Pattern: forbidden})
		}
	}
	return out
}

// hasSuffix reports whether path ends with suffix, comparing whole components.
func hasSuffix(path, suffix []string) bool {
	if len(suffix) == 0 || len(suffix) > len(path) {
		return false
	}
	return slices.Equal(path[len(path)-len(suffix):], suffix)
}
