// Package tomldoc parses TOML documents into a mutable tree that can be navigated by
// key path and encoded back to canonical text.
//
// Canonical text is produced by the BurntSushi encoder, which emits keys in sorted order, so
// two documents with the same content always encode to the same bytes regardless of the key
// order or comments of their source files.
package tomldoc

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// ParseError reports input that is not a valid TOML document.
type ParseError struct {
	Path string // Source file, empty when parsing raw bytes
	Line int    // 1-based line of the syntax error, 0 if unknown
	Err  error
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	if e.Path != "" {
		sb.WriteString(e.Path)
		if e.Line > 0 {
			sb.WriteString(fmt.Sprintf(":%d", e.Line))
		}
		sb.WriteString(": ")
	}
	sb.WriteString("invalid TOML: ")
	sb.WriteString(e.Err.Error())
	return sb.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Document is a parsed TOML document.
type Document struct {
	root map[string]any
}

// Parse parses data into a Document.
func Parse(data []byte) (*Document, error) {
	root := make(map[string]any)
	if err := toml.Unmarshal(data, &root); err != nil {
		perr := &ParseError{Err: err}
		var tomlErr toml.ParseError
		if errors.As(err, &tomlErr) {
			perr.Line = tomlErr.Position.Line
			perr.Err = errors.New(tomlErr.Message)
		}
		return nil, perr
	}
	return &Document{root: root}, nil
}

// ParseFile reads and parses the file at path. Read errors are returned unwrapped so
// callers can test them with os.IsNotExist.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// SplitKey splits a dotted key such as "build.target-dir" into its segments.
// Quoted keys are not supported.
func SplitKey(key string) []string {
	if key == "" {
		return nil
	}
	return strings.Split(key, ".")
}

// Root returns the top-level table.
func (d *Document) Root() map[string]any {
	return d.root
}

// Get returns the value at the key path.
func (d *Document) Get(path ...string) (any, bool) {
	if len(path) == 0 {
		return d.root, true
	}
	table, ok := d.Table(path[:len(path)-1]...)
	if !ok {
		return nil, false
	}
	v, ok := table[path[len(path)-1]]
	return v, ok
}

// Table returns the table at the key path. The empty path is the root table.
func (d *Document) Table(path ...string) (map[string]any, bool) {
	current := d.root
	for _, key := range path {
		next, ok := current[key].(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// GetString returns the string value at the key path. The second result is false when the
// key is absent or holds a non-string value.
func (d *Document) GetString(path ...string) (string, bool) {
	v, ok := d.Get(path...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetStrings returns the array of strings at the key path.
func (d *Document) GetStrings(path ...string) ([]string, error) {
	v, ok := d.Get(path...)
	if !ok {
		return nil, fmt.Errorf("key %q not found", strings.Join(path, "."))
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("key %q is %T, not an array", strings.Join(path, "."), v)
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("key %q: element %d is %T, not a string", strings.Join(path, "."), i, item)
		}
		out = append(out, s)
	}
	return out, nil
}

// Set replaces the value at the key path. Every parent table must already exist.
func (d *Document) Set(value any, path ...string) error {
	if len(path) == 0 {
		return errors.New("empty key path")
	}
	table, ok := d.Table(path[:len(path)-1]...)
	if !ok {
		return fmt.Errorf("table %q not found", strings.Join(path[:len(path)-1], "."))
	}
	table[path[len(path)-1]] = value
	return nil
}

// Bytes encodes the document as canonical TOML.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(d.root); err != nil {
		return nil, fmt.Errorf("encoding TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// String encodes the document as canonical TOML, or returns the encoding error text.
func (d *Document) String() string {
	b, err := d.Bytes()
	if err != nil {
		return err.Error()
	}
	return string(b)
}
