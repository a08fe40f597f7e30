// Package logging builds the structured logger used across taskflow. The
// terminal belongs to the TUI, so records go to a rotating JSON file.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum level (debug, info, warn, error)
	Level string

	// FilePath is the log file; empty discards all output
	FilePath string

	// MaxSize is the size in megabytes before rotation
	MaxSize int

	// MaxBackups is the number of rotated files kept
	MaxBackups int

	// MaxAge is the number of days rotated files are kept
	MaxAge int

	// Compress gzips rotated files
	Compress bool
}

func DefaultConfig() Config {
	return Config{
		Level:      "info",
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     7,
		Compress:   true,
	}
}

func ParseLevel(level string) (Level, error) {
	return zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
}

// New returns a logger writing to cfg.FilePath. The returned closer
// releases the file and must be called on shutdown.
func New(cfg Config) (zerolog.Logger, io.Closer, error) {
	level := InfoLevel
	if cfg.Level != "" {
		parsed, err := ParseLevel(cfg.Level)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, err
		}
		level = parsed
	}

	if cfg.FilePath == "" {
		return zerolog.Nop(), nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	defaults := DefaultConfig()
	fileWriter := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    positiveOr(cfg.MaxSize, defaults.MaxSize),
		MaxBackups: positiveOr(cfg.MaxBackups, defaults.MaxBackups),
		MaxAge:     positiveOr(cfg.MaxAge, defaults.MaxAge),
		Compress:   cfg.Compress,
	}
	return NewWithWriter(fileWriter, level), fileWriter, nil
}

// NewWithWriter returns a timestamped JSON logger over w.
func NewWithWriter(w io.Writer, level Level) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()
}

// Component returns a child logger tagged with the component name.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

func positiveOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
