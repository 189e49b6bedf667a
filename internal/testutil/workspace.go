// Package testutil provides fixture helpers for building example workspaces in tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Defaults written by CreateProject when no option overrides them.
const (
	DefaultVersion   = "4.1.0"
	DefaultTargetDir = "../../target"
	DefaultChannel   = "nightly-2025-01-09"
)

// DefaultComponents are the toolchain components written by CreateProject.
var DefaultComponents = []string{"llvm-tools-preview", "rustc-dev"}

// ProjectOption configures a fixture project.
type ProjectOption func(*projectConfig)

type projectConfig struct {
	version         string
	targetDir       string
	channel         string
	components      []string
	noBuildConfig   bool
	legacyToolchain bool
}

// WithVersion sets the package version in the manifest.
func WithVersion(v string) ProjectOption {
	return func(c *projectConfig) { c.version = v }
}

// WithTargetDir sets build.target-dir in the build configuration.
func WithTargetDir(dir string) ProjectOption {
	return func(c *projectConfig) { c.targetDir = dir }
}

// WithChannel sets the toolchain channel.
func WithChannel(channel string) ProjectOption {
	return func(c *projectConfig) { c.channel = channel }
}

// WithComponents replaces the toolchain components.
func WithComponents(components ...string) ProjectOption {
	return func(c *projectConfig) { c.components = components }
}

// WithoutBuildConfig skips writing .cargo/config.toml.
func WithoutBuildConfig() ProjectOption {
	return func(c *projectConfig) { c.noBuildConfig = true }
}

// WithLegacyToolchain writes the toolchain file as a bare channel line.
func WithLegacyToolchain() ProjectOption {
	return func(c *projectConfig) { c.legacyToolchain = true }
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// CreateProject writes an example project at root/rel with a manifest, a build
// configuration and a toolchain descriptor. Returns the project directory.
func CreateProject(t *testing.T, root, rel string, opts ...ProjectOption) string {
	t.Helper()

	cfg := &projectConfig{
		version:    DefaultVersion,
		targetDir:  DefaultTargetDir,
		channel:    DefaultChannel,
		components: DefaultComponents,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	dir := filepath.Join(root, filepath.FromSlash(rel))
	WriteFile(t, filepath.Join(dir, "Cargo.toml"), fmt.Sprintf(`[package]
name = %q
version = %q
edition = "2021"
`, filepath.Base(dir), cfg.version))

	if !cfg.noBuildConfig {
		WriteFile(t, filepath.Join(dir, ".cargo", "config.toml"), fmt.Sprintf(`[build]
target-dir = %q

[target.x86_64-unknown-linux-gnu]
linker = "dylint-link"
`, cfg.targetDir))
	}

	toolchain := cfg.channel + "\n"
	if !cfg.legacyToolchain {
		quoted := make([]string, 0, len(cfg.components))
		for _, c := range cfg.components {
			quoted = append(quoted, fmt.Sprintf("%q", c))
		}
		toolchain = fmt.Sprintf("[toolchain]\nchannel = %q\ncomponents = [%s]\n",
			cfg.channel, strings.Join(quoted, ", "))
	}
	WriteFile(t, filepath.Join(dir, "rust-toolchain"), toolchain)

	return dir
}
