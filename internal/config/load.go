package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// EnvConfig names a config file when -config is not given.
const EnvConfig = "CREAOVERSE_CONFIG"

// Load builds the effective config. Defaults are overlaid by the first
// config file found (-config, then $CREAOVERSE_CONFIG, then the search
// path), then by flags; normalize repairs what is left out of range.
func Load() (*Config, error) {
	cfg := Default()

	path, explicit := sourcePath()
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		err := loadFromFile(cfg, path)
		switch {
		case errors.Is(err, os.ErrNotExist) && !explicit:
		case err != nil:
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		default:
			cfg.Source = path
		}
	}

	applyFlags(cfg)
	cfg.normalize()
	return cfg, nil
}

// sourcePath returns the config file named by -config or the environment.
// A file named on the command line must exist.
func sourcePath() (string, bool) {
	if p := ConfigPath(); p != "" {
		return p, true
	}
	return os.Getenv(EnvConfig), false
}

// StorePath returns the poster store location, defaulting into ConfigDir.
func (c *Config) StorePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	return filepath.Join(ConfigDir(), "creaoverse.db")
}

// findConfigFile returns the first existing file among ./creaoverse.yaml,
// ./config.yaml and config.yaml in ConfigDir.
func findConfigFile() string {
	for _, path := range []string{
		"creaoverse.yaml",
		"config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	} {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user directory holding config.yaml and the
// poster store.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "CREAOverse")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "CREAOverse")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "creaoverse")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "creaoverse")
	}
}

// loadFromFile merges a YAML file into cfg. Unknown keys are errors so a
// misspelled section does not silently fall back to defaults; an empty file
// changes nothing.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
