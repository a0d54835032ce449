package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const appName = "clocktui"

// Environment overrides.
const (
	EnvFormat   = "CLOCKTUI_FORMAT"
	EnvTiming   = "CLOCKTUI_TIMING"
	EnvLogLevel = "CLOCKTUI_LOG_LEVEL"
)

// Load reads configuration from path, or from the first existing file on the
// standard search path when path is empty:
//  1. $XDG_CONFIG_HOME/clocktui/config.yaml
//  2. ~/.config/clocktui/config.yaml
//
// Environment overrides are applied on top of the file and the result is
// validated. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		for _, p := range searchPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path == "" {
		logrus.Debug("no config file found; using defaults")
		return finish(DefaultConfig())
	}
	cfg, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile decodes the file at path over the defaults without applying
// environment overrides or validation. Files ending in .toml are TOML, any
// other file is YAML. A missing file yields the defaults.
func LoadFromFile(path string) (*Config, error) {
	expanded, err := expandTilde(path)
	if err != nil {
		return nil, err
	}
	logrus.Debug("Loading config file from: ", expanded)
	data, err := os.ReadFile(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	cfg, err := Decode(data, isTOML(expanded))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", expanded, err)
	}
	return cfg, nil
}

// Decode parses data over the defaults.
func Decode(data []byte, asTOML bool) (*Config, error) {
	cfg := DefaultConfig()
	if asTOML {
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvFormat); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv(EnvTiming); v != "" {
		if err := cfg.TransitionTiming.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%s: %w", EnvTiming, err)
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	return nil
}

// DefaultPath returns the path config init writes to when none is given.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(xdgConfigHome(home), appName, "config.yaml")
}

// searchPaths returns the ordered list of config file paths to try.
func searchPaths() []string {
	home, _ := os.UserHomeDir()
	paths := []string{DefaultPath()}

	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	fallback := filepath.Join(home, ".config", appName, "config.yaml")
	if paths[0] != fallback {
		paths = append(paths, fallback)
	}
	return paths
}

func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
