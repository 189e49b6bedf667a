// Package consistency implements the "every project agrees with the first one" check used for
// versions, build configurations and toolchain channels.
package consistency

import (
	"fmt"
	"iter"
	"sort"

	"github.com/ariel-frischer/examplecheck/internal/project"
)

// Set is a set of project directory names.
type Set map[string]struct{}

// NewSet builds a Set from names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set. A nil Set is empty.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the sorted members of the set.
func (s Set) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// ExtractionError wraps a failure to read a value from a project.
type ExtractionError struct {
	Project project.Project
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("project %s: %v", e.Project.Rel, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// MismatchError reports a project whose value differs from the baseline.
type MismatchError[V comparable] struct {
	Baseline      string // Identity of the project (or seed) that set the baseline
	BaselineValue V
	Project       string // Identity of the mismatching project
	Value         V
}

func (e *MismatchError[V]) Error() string {
	return fmt.Sprintf("%s has %v, but %s has %v", e.Project, e.Value, e.Baseline, e.BaselineValue)
}

type options struct {
	baselineName  string
	baselineValue any
	seeded        bool
	observe       func(project.Project, any)
}

// Option configures CheckAllEqual.
type Option func(*options)

// WithBaseline seeds the baseline so that the first project is compared against value
// instead of defining the baseline. name identifies the seed in mismatch errors.
func WithBaseline[V comparable](name string, value V) Option {
	return func(o *options) {
		o.baselineName = name
		o.baselineValue = value
		o.seeded = true
	}
}

// WithObserver calls fn for every value successfully extracted, before it is compared.
func WithObserver(fn func(p project.Project, value any)) Option {
	return func(o *options) {
		o.observe = fn
	}
}

// CheckAllEqual extracts a value from every project not in excluded, in sequence order, and
// requires all values to equal the first one. Discovery and extraction errors abort the check.
// An empty sequence passes.
func CheckAllEqual[V comparable](
	projects iter.Seq2[project.Project, error],
	excluded Set,
	extract func(project.Project) (V, error),
	opts ...Option,
) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var (
		baseline     V
		baselineName string
		haveBaseline bool
	)
	if o.seeded {
		v, ok := o.baselineValue.(V)
		if !ok {
			return fmt.Errorf("baseline %s has type %T, want %T", o.baselineName, o.baselineValue, baseline)
		}
		baseline, baselineName, haveBaseline = v, o.baselineName, true
	}

	for p, err := range projects {
		if err != nil {
			return err
		}
		if excluded.Has(p.Name) {
			continue
		}

		value, err := extract(p)
		if err != nil {
			return &ExtractionError{Project: p, Err: err}
		}
		if o.observe != nil {
			o.observe(p, value)
		}

		if !haveBaseline {
			baseline, baselineName, haveBaseline = value, p.Rel, true
			continue
		}
		if value != baseline {
			return &MismatchError[V]{
				Baseline:      baselineName,
				BaselineValue: baseline,
				Project:       p.Rel,
				Value:         value,
			}
		}
	}
	return nil
}
