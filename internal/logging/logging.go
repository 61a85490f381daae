// Package logging builds the zerolog loggers used across tilseg.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New returns a logger writing to w at the named level ("debug", "info",
// "warn", ...) in console or JSON format.
func New(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	switch strings.ToLower(format) {
	case FormatConsole, "":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	case FormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q (valid: %s, %s)", format, FormatConsole, FormatJSON)
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}

// Component derives a sub-logger tagged with the component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
