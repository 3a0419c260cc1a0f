// Package logging builds the zerolog loggers used by the console and the CLI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config selects level and destination.
type Config struct {
	Level string
	// File receives JSON lines. Empty means Console is used.
	File string
	// Console is the human-readable destination, usually os.Stderr.
	Console io.Writer
}

// ParseLevel converts debug/info/warn/error into a zerolog level. Unknown
// values fall back to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New returns a logger and a close function for its destination. The
// terminal UI owns stdout, so the console logs to File; CLI commands log to
// Console through a ConsoleWriter.
func New(cfg Config) (zerolog.Logger, func() error, error) {
	level := ParseLevel(cfg.Level)
	noop := func() error { return nil }

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return zerolog.Nop(), noop, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), noop, fmt.Errorf("open log file: %w", err)
		}
		logger := zerolog.New(f).Level(level).With().Timestamp().Logger()
		return logger, f.Close, nil
	}

	out := cfg.Console
	if out == nil {
		out = os.Stderr
	}
	writer := zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	logger := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	return logger, noop, nil
}
