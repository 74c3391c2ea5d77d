// Package config loads Flo's ambient interpreter configuration: a bare
// constants layer (source extension, default config file name) extended with an
// optional YAML file, since a complete CLI needs tunable config a bare
// constants file cannot provide and yaml.v3 is already in the
// dependency tree for the `yaml` built-in.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SourceFileExt is Flo's recognized source extension.
const SourceFileExt = ".flo"

// DefaultFileName is the config file looked up in the working directory
// when no explicit path is given.
const DefaultFileName = "flo.yaml"

// Config holds the settings read from a config file. Of these, only
// Prelude is applied by cmd/flo; RecursionLimit, Strict and Context are
// loaded and validated as YAML but nothing in the interpreter reads them.
type Config struct {
	// RecursionLimit is read from `recursionLimit` (0 by default); call
	// depth is not capped by it.
	RecursionLimit int `yaml:"recursionLimit"`
	// Strict is read from `strict`; evaluation does not consult it, and an
	// undefined identifier is an error either way.
	Strict bool `yaml:"strict"`
	// Context is read from `context`; its values are not copied into the
	// context registry.
	Context map[string]interface{} `yaml:"context"`
	// Prelude is a path to a .flo file evaluated into the global
	// environment before the user's program, for shared definitions.
	Prelude string `yaml:"prelude"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{RecursionLimit: 0, Strict: false}
}

// Load reads and parses a YAML config file at path. A missing file is
// not an error — Default() is returned instead, so `flo prog.flo`
// works with zero configuration present.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault looks for DefaultFileName in the current directory.
func LoadDefault() (*Config, error) {
	return Load(DefaultFileName)
}
