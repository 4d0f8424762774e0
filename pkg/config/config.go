// Package config loads the optional project-local configuration that enables
// or disables individual checks by code.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the project-local configuration file looked for at the project
// root.
const FileName = ".cratedoctor.toml"

// Config holds the resolved configuration. The zero value is the all-enabled
// default.
type Config struct {
	Checks ChecksConfig `toml:"checks"`
}

// ChecksConfig is the [checks] section.
type ChecksConfig struct {
	// Enabled maps a check code to an explicit enable/disable. Absent codes
	// default to enabled.
	Enabled map[string]bool `toml:"enabled"`
}

// Error reports a configuration file that exists but cannot be used. The
// caller decides whether to abort or fall back to defaults.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid configuration file %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Default returns the all-enabled default configuration.
func Default() *Config {
	return &Config{}
}

// Load reads the configuration from the project root. A missing file is the
// common case and returns the default configuration with no error. A present
// but malformed file (bad TOML or unknown keys) returns a *Error.
func Load(projectRoot string) (*Config, error) {
	return LoadFile(filepath.Join(projectRoot, FileName))
}

// LoadFile reads the configuration from an explicit path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, &Error{Path: path, Err: err}
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	// Reject unknown keys so a typo never silently re-enables a check.
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, &Error{Path: path, Err: fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))}
	}
	return &cfg, nil
}

// IsEnabled reports whether a check code should run. Codes without an
// explicit entry are enabled.
func (c *Config) IsEnabled(code string) bool {
	if c == nil {
		return true
	}
	if enabled, ok := c.Checks.Enabled[code]; ok {
		return enabled
	}
	return true
}
