package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ErrExists is returned by Save when the target exists and overwriting was
// not requested.
var ErrExists = errors.New("config file already exists")

// Encode serializes cfg as TOML or YAML.
func Encode(cfg *Config, asTOML bool) ([]byte, error) {
	var buf bytes.Buffer
	if asTOML {
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes cfg to path, choosing the encoding from the extension. Parent
// directories are created as needed. An existing file is only replaced when
// force is set. It returns the expanded path written.
func Save(cfg *Config, path string, force bool) (string, error) {
	expanded, err := expandTilde(path)
	if err != nil {
		return "", err
	}
	if !force {
		if _, err := os.Stat(expanded); err == nil {
			return "", fmt.Errorf("%w: %s", ErrExists, expanded)
		}
	}
	logrus.Debug("Saving config file to: ", expanded)
	if err := os.MkdirAll(filepath.Dir(expanded), 0o700); err != nil {
		return "", err
	}
	data, err := Encode(cfg, isTOML(expanded))
	if err != nil {
		return "", err
	}
	return expanded, os.WriteFile(expanded, data, 0o600)
}

// expandTilde expands the tilde in a path to the user's home directory.
func expandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}
