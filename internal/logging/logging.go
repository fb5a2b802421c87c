// Package logging configures the application-wide zerolog logger and the
// helpers that thread it through command contexts.
package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config selects the logger's level and output format.
type Config struct {
	// Level is a zerolog level name ("debug", "info", ...). Unparseable
	// values fall back to info.
	Level string

	// Format is "console" for human-readable output or "json" for
	// structured lines. Defaults to console.
	Format string

	// Out overrides the output writer. Defaults to stderr.
	Out io.Writer
}

// New builds a logger from cfg.
func New(cfg Config) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format != FormatJSON {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// ComponentLogger tags a logger with a component name so every entry carries
// its origin.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// FromContext returns the logger stored in ctx, or a disabled logger when
// none was attached.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
