// Package manifest reads package metadata from a project's Cargo.toml.
package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
)

// DefaultFile is the manifest file name relative to a project root.
const DefaultFile = "Cargo.toml"

// ErrNoPackage is returned for manifests without a [package] table, such as virtual
// workspace manifests.
var ErrNoPackage = errors.New("manifest has no [package] table")

// ErrNoVersion is returned when [package] has no version key.
var ErrNoVersion = errors.New("package has no version")

// Package is the subset of [package] the checks need.
type Package struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

type document struct {
	Package *Package `toml:"package"`
}

// Read decodes the [package] table of root/file.
func Read(root, file string) (*Package, error) {
	if file == "" {
		file = DefaultFile
	}
	path := filepath.Join(root, file)

	var doc document
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("manifest not found: %w", err)
		}
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if doc.Package == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNoPackage)
	}
	return doc.Package, nil
}

// ReadVersion returns the declared package version of the project at root. The version must
// be a valid semantic version; it is returned exactly as written.
func ReadVersion(root, file string) (string, error) {
	if file == "" {
		file = DefaultFile
	}
	pkg, err := Read(root, file)
	if err != nil {
		return "", err
	}
	if pkg.Version == "" {
		return "", fmt.Errorf("%s: %w", filepath.Join(root, file), ErrNoVersion)
	}
	if _, err := semver.StrictNewVersion(pkg.Version); err != nil {
		return "", fmt.Errorf("package %q version %q: %w", pkg.Name, pkg.Version, err)
	}
	return pkg.Version, nil
}
