// Package config handles the TOML settings of the treelox command.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple" // Backend for the package logger.

	"treelox/diag"
)

// Color modes for diagnostics.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var log = commonlog.GetLogger("treelox.config")

// Config represents a config.toml file. Every key is optional.
type Config struct {
	Prompt      string `toml:"prompt"`
	HistoryFile string `toml:"history_file"`
	// One of auto, always or never.
	Color string `toml:"color"`
	// Diagnostics output format, text or yaml.
	Diagnostics  string `toml:"diagnostics"`
	LogVerbosity int    `toml:"log_verbosity"`
	LogFile      string `toml:"log_file"`
	MaxCallDepth int    `toml:"max_call_depth"`
}

func Default() *Config {
	history := ".treelox_history"
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, history)
	}

	return &Config{
		Prompt:       "> ",
		HistoryFile:  history,
		Color:        ColorAuto,
		Diagnostics:  string(diag.FormatText),
		MaxCallDepth: 2048,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/treelox/config.toml or the platform
// equivalent, empty if there is no configuration directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "treelox", "config.toml")
}

// Load parses the file over the defaults. Unknown keys are logged and
// ignored.
func Load(path string) (*Config, error) {
	c := Default()

	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, fmt.Errorf("cannot load %s: %w", path, err)
	}

	for _, key := range md.Undecoded() {
		log.Warningf("unknown key %q in %s", key.String(), path)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}

	log.Debugf("loaded %s", path)
	return c, nil
}

// LoadOptional is Load, except that a missing file gives the defaults.
func LoadOptional(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	c, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return c, err
}

func (c *Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", c.Color)
	}

	if _, err := diag.ParseFormat(c.Diagnostics); err != nil {
		return err
	}

	if c.MaxCallDepth < 0 {
		return fmt.Errorf("max_call_depth must not be negative, got %d", c.MaxCallDepth)
	}

	return nil
}

// Reports if diagnostics should be colored when writing to a stream which
// is a terminal or not.
func (c *Config) UseColor(terminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return terminal
	}
}
