package consistency

import (
	"errors"
	"iter"
	"slices"
	"testing"

	"github.com/ariel-frischer/examplecheck/internal/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// projects returns a sequence yielding one project per name.
func projects(names ...string) iter.Seq2[project.Project, error] {
	return func(yield func(project.Project, error) bool) {
		for _, n := range names {
			if !yield(project.Project{Name: n, Root: "/examples/" + n, Rel: n}, nil) {
				return
			}
		}
	}
}

func lookup(values map[string]string) func(project.Project) (string, error) {
	return func(p project.Project) (string, error) {
		v, ok := values[p.Name]
		if !ok {
			return "", errors.New("no value")
		}
		return v, nil
	}
}

func TestCheckAllEqual(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		names        []string
		values       map[string]string
		excluded     Set
		wantMismatch *MismatchError[string]
	}{
		"identical values pass": {
			names:  []string{"a", "b", "c"},
			values: map[string]string{"a": "1.0.0", "b": "1.0.0", "c": "1.0.0"},
		},
		"last project deviates": {
			names:  []string{"a", "b", "c"},
			values: map[string]string{"a": "1.0.0", "b": "1.0.0", "c": "1.0.1"},
			wantMismatch: &MismatchError[string]{
				Baseline: "a", BaselineValue: "1.0.0", Project: "c", Value: "1.0.1",
			},
		},
		"first project deviates": {
			names:  []string{"c", "a", "b"},
			values: map[string]string{"a": "1.0.0", "b": "1.0.0", "c": "1.0.1"},
			wantMismatch: &MismatchError[string]{
				Baseline: "c", BaselineValue: "1.0.1", Project: "a", Value: "1.0.0",
			},
		},
		"excluded deviation is ignored": {
			names:    []string{"a", "b", "c"},
			values:   map[string]string{"a": "1.0.0", "b": "1.0.0", "c": "1.0.1"},
			excluded: NewSet("c"),
		},
		"empty set passes": {},
		"fully excluded set passes": {
			names:    []string{"a", "b"},
			values:   map[string]string{"a": "x", "b": "y"},
			excluded: NewSet("a", "b"),
		},
		"single project passes": {
			names:  []string{"a"},
			values: map[string]string{"a": "x"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := CheckAllEqual(projects(tc.names...), tc.excluded, lookup(tc.values))
			if tc.wantMismatch == nil {
				assert.NoError(t, err)
				return
			}
			var merr *MismatchError[string]
			require.ErrorAs(t, err, &merr)
			assert.Equal(t, tc.wantMismatch, merr)
			assert.Contains(t, err.Error(), tc.wantMismatch.Value)
			assert.Contains(t, err.Error(), tc.wantMismatch.BaselineValue)
		})
	}
}

func TestCheckAllEqual_OrderIndependentOutcome(t *testing.T) {
	t.Parallel()

	values := map[string]string{"a": "stable", "b": "stable", "c": "nightly", "d": "stable"}
	names := []string{"a", "b", "c", "d"}

	// Every rotation of the input must fail, whatever the baseline turns out to be.
	for i := range names {
		rotated := append(slices.Clone(names[i:]), names[:i]...)
		err := CheckAllEqual(projects(rotated...), nil, lookup(values))
		var merr *MismatchError[string]
		require.ErrorAs(t, err, &merr, "rotation %v", rotated)
		assert.True(t, merr.Project == "c" || merr.Baseline == "c")
	}

	delete(values, "c")
	names = []string{"a", "b", "d"}
	for i := range names {
		rotated := append(slices.Clone(names[i:]), names[:i]...)
		assert.NoError(t, CheckAllEqual(projects(rotated...), nil, lookup(values)))
	}
}

func TestCheckAllEqual_ExtractionErrorIsFatal(t *testing.T) {
	t.Parallel()

	calls := 0
	extract := func(p project.Project) (string, error) {
		calls++
		if p.Name == "b" {
			return "", errors.New("unreadable")
		}
		return "v", nil
	}

	err := CheckAllEqual(projects("a", "b", "c"), nil, extract)
	var eerr *ExtractionError
	require.ErrorAs(t, err, &eerr)
	assert.Equal(t, "b", eerr.Project.Name)
	assert.Equal(t, 2, calls, "extraction stops at the first error")
}

func TestCheckAllEqual_DiscoveryErrorIsFatal(t *testing.T) {
	t.Parallel()

	discovery := &project.DiscoveryError{Path: "/examples/x", Err: errors.New("permission denied")}
	seq := func(yield func(project.Project, error) bool) {
		if !yield(project.Project{Name: "a", Rel: "a"}, nil) {
			return
		}
		yield(project.Project{}, discovery)
	}

	err := CheckAllEqual(seq, nil, func(project.Project) (int, error) { return 1, nil })
	assert.ErrorIs(t, err, discovery)
}

func TestCheckAllEqual_WithBaseline(t *testing.T) {
	t.Parallel()

	err := CheckAllEqual(projects("a"), nil, lookup(map[string]string{"a": "1.0.1"}),
		WithBaseline("workspace", "1.0.0"))
	var merr *MismatchError[string]
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "workspace", merr.Baseline)
	assert.Equal(t, "a", merr.Project)

	err = CheckAllEqual(projects("a"), nil, lookup(map[string]string{"a": "1.0.0"}),
		WithBaseline("workspace", "1.0.0"))
	assert.NoError(t, err)

	err = CheckAllEqual(projects("a"), nil, lookup(map[string]string{"a": "1.0.0"}),
		WithBaseline("workspace", 1))
	assert.ErrorContains(t, err, "baseline workspace has type int")
}

func TestCheckAllEqual_WithObserver(t *testing.T) {
	t.Parallel()

	var seen []string
	err := CheckAllEqual(projects("a", "b", "c"), NewSet("b"), lookup(map[string]string{"a": "x", "c": "x"}),
		WithObserver(func(p project.Project, _ any) { seen = append(seen, p.Name) }))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, seen)
}

func TestSet(t *testing.T) {
	t.Parallel()

	var empty Set
	assert.False(t, empty.Has("a"))

	s := NewSet("b", "a")
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("c"))
	assert.Equal(t, []string{"a", "b"}, s.Names())
}
