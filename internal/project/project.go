// Package project discovers example projects below an examples root.
//
// A project is a directory that contains a manifest file (Cargo.toml by default). Projects
// are identified by their directory name, which is what per-check exclusion lists refer to.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultManifestFile marks a directory as a project.
const DefaultManifestFile = "Cargo.toml"

// Mode selects how far the enumerator descends into the examples root.
type Mode int

const (
	// ModeCurated yields the curated top-level directories that are projects themselves and
	// the projects located directly inside them.
	ModeCurated Mode = iota
	// ModeRecursive yields every project at any depth, including nested ones.
	ModeRecursive
)

func (m Mode) String() string {
	switch m {
	case ModeCurated:
		return "curated"
	case ModeRecursive:
		return "recursive"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "curated":
		return ModeCurated, nil
	case "recursive":
		return ModeRecursive, nil
	default:
		return 0, fmt.Errorf("unknown discovery mode %q (valid: curated, recursive)", s)
	}
}

// Project is one independently buildable example directory.
type Project struct {
	Name string // Directory name
	Root string // Project directory joined to the examples root
	Rel  string // Slash-separated path relative to the examples root
}

// DiscoveryError reports a directory entry that could not be read during enumeration.
type DiscoveryError struct {
	Path string
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discovering projects at %s: %v", e.Path, e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// Enumerator walks an examples root and yields projects.
type Enumerator struct {
	Root         string
	ManifestFile string   // Defaults to DefaultManifestFile
	Curated      []string // Top-level directories walked in ModeCurated
	SkipDirs     []string // Directory names never descended into
}

// Enumerate returns a sequence of projects in directory-walk order. Each call re-walks the
// tree. A read failure is yielded as a *DiscoveryError with a zero Project, after which the
// sequence ends.
func (e *Enumerator) Enumerate(mode Mode) iter.Seq2[Project, error] {
	return func(yield func(Project, error) bool) {
		stopped := false
		emit := func(p Project, err error) bool {
			if !yield(p, err) {
				stopped = true
				return false
			}
			return true
		}

		root, err := filepath.Abs(e.Root)
		if err != nil {
			yield(Project{}, &DiscoveryError{Path: e.Root, Err: err})
			return
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				emit(Project{}, &DiscoveryError{Path: path, Err: err})
				return filepath.SkipAll
			}
			if !d.IsDir() || path == root {
				return nil
			}
			if slices.Contains(e.SkipDirs, d.Name()) {
				return filepath.SkipDir
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				emit(Project{}, &DiscoveryError{Path: path, Err: err})
				return filepath.SkipAll
			}
			depth := strings.Count(filepath.ToSlash(rel), "/") + 1

			if mode == ModeCurated && depth == 1 && !slices.Contains(e.Curated, d.Name()) {
				return filepath.SkipDir
			}

			ok, err := e.isProject(path)
			if err != nil {
				emit(Project{}, &DiscoveryError{Path: path, Err: err})
				return filepath.SkipAll
			}
			if ok {
				p := Project{Name: d.Name(), Root: path, Rel: filepath.ToSlash(rel)}
				if !emit(p, nil) {
					return filepath.SkipAll
				}
			}
			if mode == ModeCurated && depth > 1 {
				// Curated projects are a curated directory itself or its direct children.
				return filepath.SkipDir
			}
			return nil
		})
		// WalkDir only returns errors produced by the callback, which never returns one other
		// than the Skip sentinels.
		if err != nil && !stopped {
			yield(Project{}, &DiscoveryError{Path: root, Err: err})
		}
	}
}

func (e *Enumerator) isProject(dir string) (bool, error) {
	manifest := e.ManifestFile
	if manifest == "" {
		manifest = DefaultManifestFile
	}
	info, err := os.Stat(filepath.Join(dir, manifest))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// Collect drains a sequence, returning the projects seen before the first error.
func Collect(seq iter.Seq2[Project, error]) ([]Project, error) {
	var projects []Project
	for p, err := range seq {
		if err != nil {
			return projects, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}
