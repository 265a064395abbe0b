// Package config loads client settings from a YAML file with environment
// variable overrides for the backend connection.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Backend struct {
		BaseURL string `yaml:"base_url"`
		Token   string `yaml:"token"`
	} `yaml:"backend"`
	Assessment struct {
		// Countdown budgets in seconds; zero means the built-in defaults
		// (3600 for a level, 300 for the transition screen).
		LevelTimerSeconds      int `yaml:"level_timer_seconds"`
		TransitionTimerSeconds int `yaml:"transition_timer_seconds"`
	} `yaml:"assessment"`
	Telemetry struct {
		JournalPath string `yaml:"journal_path"`
	} `yaml:"telemetry"`
	LogPath string `yaml:"log_path"`
}

// Load reads the config file at path, or the default location when path is
// empty. A missing default file yields a zero config without error;
// VITACHECK_API_URL and VITACHECK_API_TOKEN override the file values.
func Load(path string) (Config, error) {
	cfg := Config{}

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// Defaults plus env vars are enough to run.
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if v := os.Getenv("VITACHECK_API_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("VITACHECK_API_TOKEN"); v != "" {
		cfg.Backend.Token = v
	}

	return cfg, nil
}

// DefaultPath resolves the config file location under XDG_CONFIG_HOME,
// falling back to ~/.config/vitacheck/config.yaml.
func DefaultPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "vitacheck", "config.yaml"), nil
}
