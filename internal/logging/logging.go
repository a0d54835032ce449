// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SetLevel applies level ("debug", "info", "warn", "error") to the standard
// logger. verbose forces debug output.
func SetLevel(level string, verbose bool) error {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
		return nil
	}
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logrus.SetLevel(lvl)
	return nil
}

// NewSession returns an entry tagged with a fresh session id. Entries
// derived from it share the id, which ties one run's lines together in a
// shared log file.
func NewSession() *logrus.Entry {
	return logrus.WithField("session", uuid.NewString())
}

// Redirect points the standard logger at the file at path, appending, or
// discards all output when path is empty. The returned func restores the
// previous output and closes the file.
func Redirect(path string) (func(), error) {
	prevOut := logrus.StandardLogger().Out
	if path == "" {
		logrus.SetOutput(io.Discard)
		return func() { logrus.SetOutput(prevOut) }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)
	return func() {
		logrus.SetOutput(prevOut)
		_ = f.Close()
	}, nil
}
