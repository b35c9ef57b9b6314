// Package logging attaches a zerolog logger to a context.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/wizzomafizzo/beakersync/internal/storage"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxLogSizeMB  = 10
	maxLogBackups = 3
	maxLogAgeDays = 30
)

// Log levels - aliases for zerolog levels
const (
	ErrorLevel = zerolog.ErrorLevel
	WarnLevel  = zerolog.WarnLevel
	InfoLevel  = zerolog.InfoLevel
	DebugLevel = zerolog.DebugLevel
	TraceLevel = zerolog.TraceLevel
)

// Config defines the configuration for logger creation
type Config struct {
	Writer    io.Writer
	Path      string
	Component string
	Level     zerolog.Level
}

// New creates a new context with a logger attached.
// Tests pass a Writer; otherwise logs go to a rotated file at Path, or in the XDG data dir
// when Path is empty.
func New(ctx context.Context, fs afero.Fs, config Config) (context.Context, error) {
	writer := config.Writer

	if writer == nil {
		if fs == nil {
			return nil, errors.New("filesystem required when no writer provided")
		}

		logFile := config.Path
		if logFile == "" {
			var err error
			logFile, err = storage.New(fs).GetLogPath()
			if err != nil {
				return nil, fmt.Errorf("failed to get log path: %w", err)
			}
		}

		writer = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxLogBackups,
			MaxAge:     maxLogAgeDays,
		}
	}

	logger := zerolog.New(writer).With().
		Timestamp().
		Str("component", config.Component).
		Logger().
		Level(config.Level)

	return logger.WithContext(ctx), nil
}

// Get retrieves the logger from the provided context
// Returns the logger associated with the context, or a disabled logger if none exists
func Get(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// ParseLevel parses a level name, falling back to info for empty input.
func ParseLevel(name string) (zerolog.Level, error) {
	if strings.TrimSpace(name) == "" {
		return InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return InfoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}
