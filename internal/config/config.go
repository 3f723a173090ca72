// Package config loads the bsharp.yaml project configuration: source
// globs, the strict-parse flag, and the minimum language version the
// project requires.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-yaml"
)

// DefaultFileName is the configuration file looked up in the project
// root.
const DefaultFileName = "bsharp.yaml"

// ToolVersion is the language version this toolchain implements,
// compared against the project's min_version gate.
var ToolVersion = semver.MustParse("1.0.0")

// ErrValidation is wrapped by every configuration validation error.
var ErrValidation = errors.New("configuration validation failed")

// Config is the parsed bsharp.yaml.
type Config struct {
	Sources  []string       `yaml:"sources"`
	Strict   bool           `yaml:"strict"`
	Language LanguageConfig `yaml:"language"`
}

// LanguageConfig is the language block of the configuration.
type LanguageConfig struct {
	MinVersion string `yaml:"min_version"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{Sources: []string{"*.bs"}}
}

// Load reads and validates the configuration at path. A missing file
// yields the default configuration; unknown fields are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(cfg.Sources) == 0 {
		cfg.Sources = Default().Sources
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	for _, g := range c.Sources {
		if _, err := filepath.Match(g, ""); err != nil {
			return fmt.Errorf("%w: bad source glob %q", ErrValidation, g)
		}
	}
	if c.Language.MinVersion != "" {
		if _, err := semver.NewVersion(c.Language.MinVersion); err != nil {
			return fmt.Errorf("%w: bad min_version %q: %v", ErrValidation, c.Language.MinVersion, err)
		}
	}
	return nil
}

// MinVersion returns the parsed minimum language version, or nil when
// the project does not set one.
func (c *Config) MinVersion() *semver.Version {
	if c.Language.MinVersion == "" {
		return nil
	}
	v, err := semver.NewVersion(c.Language.MinVersion)
	if err != nil {
		return nil // validated at load time
	}
	return v
}

// CheckVersion reports whether tool satisfies the project's minimum
// language version.
func (c *Config) CheckVersion(tool *semver.Version) error {
	min := c.MinVersion()
	if min == nil {
		return nil
	}
	if tool.LessThan(min) {
		return fmt.Errorf("project requires language version %s, toolchain implements %s", min, tool)
	}
	return nil
}

// ExpandSources resolves the source globs relative to dir into a
// sorted, deduplicated file list.
func (c *Config) ExpandSources(dir string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, g := range c.Sources {
		matches, err := filepath.Glob(filepath.Join(dir, g))
		if err != nil {
			return nil, fmt.Errorf("bad source glob %q: %w", g, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}
