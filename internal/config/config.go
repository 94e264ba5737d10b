// Package config loads the optional .vidir.yaml file that supplies
// defaults for flags the user would otherwise have to repeat on every
// invocation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the config file vidir looks for while walking up from the
// working directory.
const FileName = ".vidir.yaml"

// ErrConfigNotFound means no config file exists at the requested path.
var ErrConfigNotFound = errors.New("config file not found")

// ErrConfigInvalid means a config file exists but could not be parsed.
var ErrConfigInvalid = errors.New("config file invalid")

// Config is the normalized representation of .vidir.yaml.
type Config struct {
	Editor  string   `yaml:"editor"`
	Clobber bool     `yaml:"clobber"`
	Ignore  []string `yaml:"ignore"`
}

// Default returns an empty, all-zero-value configuration: no flag
// defaults are overridden until a file says otherwise.
func Default() *Config {
	return &Config{Ignore: []string{}}
}

// Load reads and parses configuration from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses configuration from YAML bytes. An empty or
// whitespace-only document is valid and yields Default().
func LoadFromBytes(data []byte) (*Config, error) {
	if strings.TrimSpace(string(data)) == "" {
		return Default(), nil
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	if cfg.Ignore == nil {
		cfg.Ignore = []string{}
	}
	return cfg, nil
}

// Discover walks upward from startDir looking for FileName, stopping at
// the filesystem root. It returns ErrConfigNotFound if none is found
// anywhere in the chain, matching Load's sentinel so callers can treat
// "no config anywhere" the same as "no config at a given path".
func Discover(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		cfg, err := Load(candidate)
		switch {
		case err == nil:
			return cfg, nil
		case errors.Is(err, ErrConfigNotFound):
			// keep walking up
		default:
			return nil, err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, ErrConfigNotFound
		}
		dir = parent
	}
}
