// Package toolchain reads per-project toolchain descriptors (rust-toolchain files).
//
// A descriptor is a TOML document of the form
//
//	[toolchain]
//	channel = "nightly-2024-05-02"
//	components = ["llvm-tools-preview", "rustc-dev"]
//
// A legacy descriptor holding only a bare channel name is accepted by ReadChannel.
package toolchain

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ariel-frischer/examplecheck/internal/tomldoc"
)

// DefaultFile is the descriptor path relative to a project root.
const DefaultFile = "rust-toolchain"

// MissingFileError reports a project without a descriptor.
type MissingFileError struct {
	Project string
	Path    string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s: toolchain descriptor %s not found", e.Project, e.Path)
}

// ParseError reports a descriptor that is not valid TOML.
type ParseError struct {
	Project string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Project, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError reports a well-formed descriptor that lacks an expected field or holds it with
// the wrong shape.
type SchemaError struct {
	Project string
	Field   string
	Reason  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s %s", e.Project, e.Field, e.Reason)
}

// Descriptor is a parsed toolchain descriptor.
type Descriptor struct {
	Channel    string
	Components []string
	legacy     bool
}

// HasComponent reports whether the descriptor requests the named component.
func (d *Descriptor) HasComponent(name string) bool {
	return slices.Contains(d.Components, name)
}

// Reader reads descriptors relative to project roots.
type Reader struct {
	File string // Defaults to DefaultFile
}

func (r Reader) path(root string) string {
	file := r.File
	if file == "" {
		file = DefaultFile
	}
	return filepath.Join(root, filepath.FromSlash(file))
}

// Read loads the descriptor of the project at root.
func (r Reader) Read(root string) (*Descriptor, error) {
	path := r.path(root)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingFileError{Project: root, Path: path}
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if channel, ok := legacyChannel(data); ok {
		return &Descriptor{Channel: channel, legacy: true}, nil
	}

	doc, err := tomldoc.Parse(data)
	if err != nil {
		var perr *tomldoc.ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return nil, &ParseError{Project: root, Err: err}
	}

	if _, ok := doc.Table("toolchain"); !ok {
		return nil, &SchemaError{Project: root, Field: "toolchain", Reason: "table not found"}
	}

	desc := &Descriptor{}
	raw, ok := doc.Get("toolchain", "channel")
	if !ok {
		return nil, &SchemaError{Project: root, Field: "toolchain.channel", Reason: "not found"}
	}
	if desc.Channel, ok = raw.(string); !ok {
		return nil, &SchemaError{Project: root, Field: "toolchain.channel", Reason: fmt.Sprintf("is %T, not a string", raw)}
	}

	if _, ok := doc.Get("toolchain", "components"); ok {
		desc.Components, err = doc.GetStrings("toolchain", "components")
		if err != nil {
			return nil, &SchemaError{Project: root, Field: "toolchain.components", Reason: err.Error()}
		}
	}
	return desc, nil
}

// ReadChannel returns the channel the project at root is pinned to.
func (r Reader) ReadChannel(root string) (string, error) {
	desc, err := r.Read(root)
	if err != nil {
		return "", err
	}
	return desc.Channel, nil
}

// ReadComponents returns the components requested by the project at root. A descriptor
// without a components list is a schema error.
func (r Reader) ReadComponents(root string) ([]string, error) {
	desc, err := r.Read(root)
	if err != nil {
		return nil, err
	}
	if desc.legacy || desc.Components == nil {
		return nil, &SchemaError{Project: root, Field: "toolchain.components", Reason: "not found"}
	}
	return desc.Components, nil
}

// legacyChannel recognizes the one-line descriptor format: a single bare channel name.
func legacyChannel(data []byte) (string, bool) {
	s := strings.TrimSpace(string(data))
	if s == "" || strings.ContainsAny(s, "\n=[]\"'#") {
		return "", false
	}
	return s, true
}
