// =============================================================================
// Dossier Generator - Logging
// =============================================================================
//
// A single logrus logger is shared by every command. It is initialised once
// from the main configuration (level and optional log file) and components
// receive it as a logrus.FieldLogger so tests can substitute their own.
//
// =============================================================================

package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Log is the global logger instance.
var Log = newLogger(os.Stderr)

// Init configures the global logger.
//
// PARAMETERS:
//   - levelStr: "debug", "info", "warn" or "error". Unknown values fall back to info.
//   - filePath: optional log file; entries go to stderr and the file.
//   - verbose: forces debug level regardless of levelStr.
func Init(levelStr, filePath string, verbose bool) error {
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	Log.SetLevel(level)

	writers := []io.Writer{os.Stderr}
	if filePath != "" {
		if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, file)
	}
	Log.SetOutput(io.MultiWriter(writers...))

	return nil
}

// Discard returns a logger that drops everything. Useful for tests.
func Discard() *logrus.Logger {
	return newLogger(io.Discard)
}

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return l
}
