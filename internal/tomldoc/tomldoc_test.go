package tomldoc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		wantErr bool
	}{
		"valid table": {
			input: "[build]\ntarget-dir = \"target\"\n",
		},
		"empty document": {
			input: "",
		},
		"unterminated string": {
			input:   "[build]\ntarget-dir = \"target\n",
			wantErr: true,
		},
		"duplicate key": {
			input:   "a = 1\na = 2\n",
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			doc, err := Parse([]byte(tc.input))
			if tc.wantErr {
				var perr *ParseError
				require.ErrorAs(t, err, &perr)
				assert.Contains(t, perr.Error(), "invalid TOML")
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, doc.Root())
		})
	}
}

func TestParseError_ReportsLine(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("a = 1\nb = \n"))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.GreaterOrEqual(t, perr.Line, 2)
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = [1\n"), 0o644))

	_, err := ParseFile(path)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, path, perr.Path)
	assert.Contains(t, err.Error(), path)

	_, err = ParseFile(filepath.Join(dir, "missing.toml"))
	assert.True(t, os.IsNotExist(err))
}

func TestDocument_Navigation(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(`
[toolchain]
channel = "nightly-2024-01-01"
components = ["llvm-tools-preview", "rustc-dev"]
bad = ["x", 1]
`))
	require.NoError(t, err)

	channel, ok := doc.GetString("toolchain", "channel")
	assert.True(t, ok)
	assert.Equal(t, "nightly-2024-01-01", channel)

	_, ok = doc.GetString("toolchain", "components")
	assert.False(t, ok, "array is not a string")

	_, ok = doc.GetString("toolchain", "missing")
	assert.False(t, ok)

	_, ok = doc.Table("toolchain", "channel")
	assert.False(t, ok, "string is not a table")

	components, err := doc.GetStrings("toolchain", "components")
	require.NoError(t, err)
	assert.Equal(t, []string{"llvm-tools-preview", "rustc-dev"}, components)

	_, err = doc.GetStrings("toolchain", "bad")
	assert.ErrorContains(t, err, "element 1")

	_, err = doc.GetStrings("toolchain", "channel")
	assert.ErrorContains(t, err, "not an array")
}

func TestDocument_SetAndEncode(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte("[build]\ntarget-dir = \"target\"\n"))
	require.NoError(t, err)

	require.NoError(t, doc.Set("/abs/target", SplitKey("build.target-dir")...))
	v, ok := doc.GetString("build", "target-dir")
	require.True(t, ok)
	assert.Equal(t, "/abs/target", v)

	assert.Error(t, doc.Set("x", "missing", "key"))
	assert.Error(t, doc.Set("x"))

	out, err := doc.Bytes()
	require.NoError(t, err)
	assert.Contains(t, string(out), `target-dir = "/abs/target"`)
}

func TestDocument_CanonicalOrdering(t *testing.T) {
	t.Parallel()

	a, err := Parse([]byte("# comment\nb = 2\na = 1\n[t]\ny = \"y\"\nx = \"x\"\n"))
	require.NoError(t, err)
	b, err := Parse([]byte("a = 1\nb = 2\n\n[t]\nx = \"x\"\ny = \"y\"\n"))
	require.NoError(t, err)

	assert.Equal(t, a.String(), b.String())
}

func TestSplitKey(t *testing.T) {
	t.Parallel()

	assert.Nil(t, SplitKey(""))
	assert.Equal(t, []string{"build"}, SplitKey("build"))
	assert.Equal(t, []string{"build", "target-dir"}, SplitKey("build.target-dir"))
}
