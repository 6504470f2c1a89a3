// Package config loads the optional confdiff.toml settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/confdiff/confdiff/internal/fsutil"
)

// FileName is the settings file looked up in the config directory.
const FileName = "confdiff.toml"

type Config struct {
	SheetName    string   `toml:"sheet_name"`
	ContextLines int      `toml:"context_lines"`
	Ignore       []string `toml:"ignore"`
	InvalidUTF8  string   `toml:"invalid_utf8"`
}

func defaultConfig() *Config {
	return &Config{
		SheetName:    "Configuration Comparison",
		ContextLines: 3,
		Ignore:       []string{},
		InvalidUTF8:  string(fsutil.Replace),
	}
}

// ReadConfig loads confdiff.toml from dir. A missing file yields the
// defaults with no error; an unreadable or invalid file yields the defaults
// plus the error so callers can warn and continue.
func ReadConfig(dir string) (*Config, error) {
	config := defaultConfig()

	fileName := filepath.Join(dir, FileName)
	if _, err := os.Stat(fileName); errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	file, err := os.ReadFile(fileName)
	if err != nil {
		return defaultConfig(), err
	}
	if err = toml.Unmarshal(file, config); err != nil {
		return defaultConfig(), err
	}
	if err = config.validate(); err != nil {
		return defaultConfig(), err
	}
	return config, nil
}

func (c *Config) validate() error {
	switch fsutil.InvalidUTF8(c.InvalidUTF8) {
	case fsutil.Replace, fsutil.Drop:
	default:
		return fmt.Errorf("invalid_utf8 must be %q or %q, got %q", fsutil.Replace, fsutil.Drop, c.InvalidUTF8)
	}
	if c.ContextLines < 1 {
		return fmt.Errorf("context_lines must be at least 1, got %d", c.ContextLines)
	}
	return nil
}

// Policy returns the configured invalid-UTF-8 handling policy.
func (c *Config) Policy() fsutil.InvalidUTF8 {
	return fsutil.InvalidUTF8(c.InvalidUTF8)
}
