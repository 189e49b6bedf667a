package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/ariel-frischer/examplecheck/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag of cmd and its subcommands to its default, since the
// commands are package-level and keep state between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	testutil.WriteFile(t, path, content)
}

func writeProject(t *testing.T, root, rel, version, channel string) {
	t.Helper()
	testutil.CreateProject(t, root, rel, testutil.WithVersion(version), testutil.WithChannel(channel))
}

// consistentTree builds projects only in allow-listed directories so the default path
// rules pass.
func consistentTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeProject(t, root, "experimental/a", "4.1.0", "nightly-2025-01-09")
	writeProject(t, root, "testing/b", "4.1.0", "nightly-2025-01-09")
	return root
}

func TestCheck_Passes(t *testing.T) {
	root := consistentTree(t)

	out, _, err := execute(t, "check", "--root", root, "--plain")
	require.NoError(t, err)
	assert.Equal(t, ExitSuccess, ExitCode(err))
	for _, name := range []string{"version", "config", "channel", "components", "paths"} {
		assert.Contains(t, out, "pass: "+name+":")
	}
	assert.Contains(t, out, "passed: true")
}

func TestCheck_VersionDrift(t *testing.T) {
	root := consistentTree(t)
	writeProject(t, root, "testing/c", "4.2.0", "nightly-2025-01-09")

	out, _, err := execute(t, "check", "version", "--root", root, "--plain")
	assert.Equal(t, ExitCheckFailed, ExitCode(err))
	assert.Contains(t, out, "fail: version: testing/c has 4.2.0, but experimental/a has 4.1.0")
	assert.NotContains(t, out, "channel")
}

func TestCheck_TableFormat(t *testing.T) {
	root := consistentTree(t)

	out, _, err := execute(t, "check", "channel", "--root", root, "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "CHECK")
	assert.Contains(t, out, "PASS")
}

func TestCheck_InvalidInput(t *testing.T) {
	root := consistentTree(t)

	tests := map[string]struct {
		args       []string
		wantStderr string
	}{
		"unknown check":  {args: []string{"check", "lint", "--root", root}, wantStderr: `unknown check "lint"`},
		"unknown format": {args: []string{"check", "--format", "xml", "--root", root}, wantStderr: `invalid output format "xml"`},
		"watch yaml":     {args: []string{"check", "--watch", "--format", "yaml", "--root", root}, wantStderr: "invalid flag combination"},
		"missing root":   {args: []string{"check", "--root", filepath.Join(root, "missing")}, wantStderr: "examples root not found"},
		"missing config": {args: []string{"check", "--root", root, "--config", filepath.Join(root, "nope.json")}, wantStderr: "config file not found"},
		"unknown flag":   {args: []string{"check", "--bogus"}, wantStderr: "unknown flag"},
		"bad mode":       {args: []string{"list", "--mode", "deep", "--root", root}, wantStderr: `invalid enumeration mode "deep"`},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, stderr, err := execute(t, tc.args...)
			assert.Equal(t, ExitInvalidArguments, ExitCode(err))
			assert.Contains(t, stderr, tc.wantStderr)
		})
	}
}

func TestScan(t *testing.T) {
	root := consistentTree(t)

	out, _, err := execute(t, "scan", "--root", root, "--plain")
	require.NoError(t, err)
	assert.Empty(t, out)

	writeFile(t, filepath.Join(root, "testing", "b", ".gitignore"), "target\n")
	writeFile(t, filepath.Join(root, "general", "x", "rust-toolchain"), "stable\n")

	out, _, err = execute(t, "scan", "--root", root, "--plain")
	assert.Equal(t, ExitCheckFailed, ExitCode(err))
	assert.Contains(t, out, `forbidden file "rust-toolchain" found in non-allowed directory: general/x/rust-toolchain`)
	assert.Contains(t, out, `forbidden file ".gitignore" found: testing/b/.gitignore`)
}

func TestList(t *testing.T) {
	root := consistentTree(t)
	writeProject(t, root, "testing/b/nested", "4.1.0", "nightly-2025-01-09")

	out, _, err := execute(t, "list", "--root", root)
	require.NoError(t, err)
	assert.Equal(t, "experimental/a\ntesting/b\n", out)

	out, _, err = execute(t, "list", "--root", root, "--mode", "recursive")
	require.NoError(t, err)
	assert.Equal(t, "experimental/a\ntesting/b\ntesting/b/nested\n", out)
}

func TestList_Empty(t *testing.T) {
	_, stderr, err := execute(t, "list", "--root", t.TempDir())
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
	assert.Contains(t, stderr, "no projects found")
}

func TestConfigShow(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "examplecheck.json")
	writeFile(t, path, `{"expected_version": "4.1.0"}`)

	out, _, err := execute(t, "config", "show", "--config", path, "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "expected_version: 4.1.0")
	assert.Contains(t, out, "examples_root: "+root)
	assert.Contains(t, out, "manifest_file: Cargo.toml")
}

func TestConfigValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	invalid := filepath.Join(dir, "invalid.json")
	writeFile(t, good, `{"build_timeout": 600}`)
	writeFile(t, bad, "{\n  \"build_timeout\": 600,\n}")
	writeFile(t, invalid, `{"exclusions": {"paths": ["a"]}}`)

	out, _, err := execute(t, "config", "validate", "--config", good)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	_, stderr, err := execute(t, "config", "validate", "--config", bad)
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
	assert.Contains(t, stderr, "Configuration Error")

	_, _, err = execute(t, "config", "validate", "--config", invalid)
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))

	out, _, err = execute(t, "config", "validate", "--config", filepath.Join(dir, "absent.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "defaults apply")
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "examplecheck dev")
	assert.Contains(t, out, "go: ")
}

func TestRootCommand_Groups(t *testing.T) {
	groups := map[string]string{}
	for _, c := range rootCmd.Commands() {
		groups[c.Name()] = c.GroupID
	}
	assert.Equal(t, GroupChecks, groups["check"])
	assert.Equal(t, GroupChecks, groups["scan"])
	assert.Equal(t, GroupInspection, groups["list"])
	assert.Equal(t, GroupConfiguration, groups["config"])
	assert.Equal(t, GroupConfiguration, groups["version"])
}
