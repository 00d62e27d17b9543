// Package logging builds the zerolog logger handed to every component.
// Services receive the logger explicitly; there is no package-level
// global to configure.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/forkfeed/backend/config"
)

// New returns the process logger. Development gets human-readable
// console output, everything else structured JSON.
func New() zerolog.Logger {
	var out io.Writer = os.Stderr
	if config.IsDevelopment() {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Nop returns a disabled logger for tests.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
