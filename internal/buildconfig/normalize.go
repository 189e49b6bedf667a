// Package buildconfig normalizes per-project build configuration documents so that
// configurations living under different project roots can be compared as text.
package buildconfig

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ariel-frischer/examplecheck/internal/tomldoc"
)

const (
	// DefaultConfigFile is the build configuration path relative to a project root.
	DefaultConfigFile = ".cargo/config.toml"
	// DefaultTargetDirKey is the dotted key of the build output directory.
	DefaultTargetDirKey = "build.target-dir"
)

// MissingFieldError reports that the output directory key is absent or is not a string.
type MissingFieldError struct {
	Key    string
	Reason string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("field %q %s", e.Key, e.Reason)
}

// Normalizer rewrites a path-valued key from project-relative to absolute form.
type Normalizer struct {
	Key string // Dotted key path, defaults to DefaultTargetDirKey
}

func (n Normalizer) key() string {
	if n.Key == "" {
		return DefaultTargetDirKey
	}
	return n.Key
}

// Normalize rewrites the output directory of doc relative to root and returns the canonical
// text of the document. The rewrite is lexical: the directory does not need to exist.
// doc is modified in place.
func (n Normalizer) Normalize(doc *tomldoc.Document, root string) (string, error) {
	key := n.key()
	path := tomldoc.SplitKey(key)

	raw, ok := doc.Get(path...)
	if !ok {
		return "", &MissingFieldError{Key: key, Reason: "not found"}
	}
	value, ok := raw.(string)
	if !ok {
		return "", &MissingFieldError{Key: key, Reason: fmt.Sprintf("is %T, not a string", raw)}
	}

	if err := doc.Set(AbsPath(root, value), path...); err != nil {
		return "", fmt.Errorf("rewriting %q: %w", key, err)
	}

	out, err := doc.Bytes()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// NormalizeBytes parses data and normalizes it.
func (n Normalizer) NormalizeBytes(data []byte, root string) (string, error) {
	doc, err := tomldoc.Parse(data)
	if err != nil {
		return "", err
	}
	return n.Normalize(doc, root)
}

// Load reads the configuration file at root/relPath and normalizes it.
func (n Normalizer) Load(root, relPath string) (string, error) {
	if relPath == "" {
		relPath = DefaultConfigFile
	}
	path := filepath.Join(root, filepath.FromSlash(relPath))
	doc, err := tomldoc.ParseFile(path)
	if err != nil {
		var perr *tomldoc.ParseError
		if errors.As(err, &perr) {
			return "", err
		}
		return "", fmt.Errorf("reading build config: %w", err)
	}
	text, err := n.Normalize(doc, root)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return text, nil
}

// AbsPath joins value to root unless it is already absolute and returns the absolute,
// cleaned result. A relative root is resolved against the working directory. Only "." and
// ".." segments and redundant separators are resolved: the path does not need to exist.
func AbsPath(root, value string) string {
	value = filepath.FromSlash(value)
	if !filepath.IsAbs(value) {
		value = filepath.Join(root, value)
	}
	abs, err := filepath.Abs(value)
	if err != nil {
		return filepath.Clean(value)
	}
	return abs
}

// Diff returns the first line that differs between two normalized documents, formatted
// for error messages. It returns "" when the texts are equal.
func Diff(a, b string) string {
	if a == b {
		return ""
	}
	al := strings.Split(a, "\n")
	bl := strings.Split(b, "\n")
	for i := 0; i < len(al) || i < len(bl); i++ {
		var x, y string
		if i < len(al) {
			x = al[i]
		}
		if i < len(bl) {
			y = bl[i]
		}
		if x != y {
			return fmt.Sprintf("line %d: %q != %q", i+1, x, y)
		}
	}
	return ""
}
