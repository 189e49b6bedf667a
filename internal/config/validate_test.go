package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJSONSyntax(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content  string
		wantErr  bool
		wantLine int
		contains string
	}{
		"valid object": {
			content: `{"examples_root": "examples"}`,
		},
		"empty file": {
			content: "  \n",
		},
		"trailing comma": {
			content:  "{\n  \"examples_root\": \"examples\",\n}\n",
			wantErr:  true,
			wantLine: 3,
		},
		"not an object": {
			content:  `["examples"]`,
			wantErr:  true,
			contains: "must be an object",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "config.json")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			err := ValidateJSONSyntax(path)
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, path, verr.FilePath)
			if tc.wantLine > 0 {
				assert.Equal(t, tc.wantLine, verr.Line)
				assert.Contains(t, err.Error(), path+":3:")
			}
			if tc.contains != "" {
				assert.Contains(t, err.Error(), tc.contains)
			}
		})
	}
}

func TestValidateJSONSyntax_MissingFile(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateJSONSyntax(filepath.Join(t.TempDir(), "missing.json")))
}

func TestValidateJSONSyntax_PermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o000))

	err := ValidateJSONSyntax(path)
	assert.ErrorContains(t, err, "permission denied")
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  ValidationError
		want string
	}{
		"with line": {
			err:  ValidationError{FilePath: "c.json", Line: 2, Column: 5, Message: "bad"},
			want: "c.json:2:5: bad",
		},
		"with field": {
			err:  ValidationError{FilePath: "c.json", Field: "examples_root", Message: "is required"},
			want: "c.json: field 'examples_root': is required",
		},
		"plain": {
			err:  ValidationError{FilePath: "c.json", Message: "bad"},
			want: "c.json: bad",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestLineColumn(t *testing.T) {
	t.Parallel()

	data := []byte("ab\ncd\n")
	line, col := lineColumn(data, 0)
	assert.Equal(t, [2]int{1, 1}, [2]int{line, col})
	line, col = lineColumn(data, 4)
	assert.Equal(t, [2]int{2, 2}, [2]int{line, col})
	line, col = lineColumn(data, 100)
	assert.Equal(t, [2]int{3, 1}, [2]int{line, col})
}
