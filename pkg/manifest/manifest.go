// Package manifest parses Cargo.toml into a typed structure. Dependency
// entries may be plain version strings or detailed tables, and the readme
// field may be a path string or the literal false, so both get custom TOML
// decoding.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest file looked for at the project root.
const FileName = "Cargo.toml"

// Manifest is the parsed Cargo.toml. The package section is optional: a
// workspace virtual manifest has none.
type Manifest struct {
	Package           *Package              `toml:"package"`
	Dependencies      map[string]Dependency `toml:"dependencies"`
	DevDependencies   map[string]Dependency `toml:"dev-dependencies"`
	BuildDependencies map[string]Dependency `toml:"build-dependencies"`
}

// Package is the [package] section.
type Package struct {
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Edition     string `toml:"edition"`
	Description string `toml:"description"`
	License     string `toml:"license"`
	Repository  string `toml:"repository"`
	Readme      Readme `toml:"readme"`
}

// Readme models the readme field, which Cargo accepts as a file path string
// or as false to suppress the default README lookup.
type Readme struct {
	// Set reports whether the field was present at all.
	Set bool
	// Path is the configured readme path when the value was a string.
	Path string
	// Disabled is true for readme = false.
	Disabled bool
	// Invalid is true when the value was neither a string nor false.
	Invalid bool
}

// UnmarshalTOML implements toml.Unmarshaler.
func (r *Readme) UnmarshalTOML(v interface{}) error {
	r.Set = true
	switch val := v.(type) {
	case string:
		r.Path = val
	case bool:
		if val {
			// readme = true has no defined meaning
			r.Invalid = true
		} else {
			r.Disabled = true
		}
	default:
		r.Invalid = true
	}
	return nil
}

// Dependency is one entry of a dependency table: either a bare version
// requirement string or a detailed table.
type Dependency struct {
	// Version is the version requirement, empty for path-only dependencies.
	Version string
	// Path is set for local path dependencies.
	Path string
	// Features lists enabled features from a detailed entry.
	Features []string
}

// UnmarshalTOML implements toml.Unmarshaler.
func (d *Dependency) UnmarshalTOML(v interface{}) error {
	switch val := v.(type) {
	case string:
		d.Version = val
	case map[string]interface{}:
		if s, ok := val["version"].(string); ok {
			d.Version = s
		}
		if s, ok := val["path"].(string); ok {
			d.Path = s
		}
		if features, ok := val["features"].([]interface{}); ok {
			for _, f := range features {
				if s, ok := f.(string); ok {
					d.Features = append(d.Features, s)
				}
			}
		}
	default:
		return fmt.Errorf("dependency entry must be a string or a table, got %T", v)
	}
	return nil
}

// IsWildcard reports whether the version requirement is the bare wildcard.
func (d Dependency) IsWildcard() bool {
	return d.Version == "*"
}

// Table associates a dependency table with its human name ("runtime", "dev",
// "build") for diagnostics.
type Table struct {
	Kind    string
	Entries map[string]Dependency
}

// Tables returns the dependency tables in a fixed order so checks iterating
// over them emit findings deterministically.
func (m *Manifest) Tables() []Table {
	return []Table{
		{Kind: "runtime", Entries: m.Dependencies},
		{Kind: "dev", Entries: m.DevDependencies},
		{Kind: "build", Entries: m.BuildDependencies},
	}
}

// Parse loads and decodes the manifest at the given path.
func Parse(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return &m, nil
}
