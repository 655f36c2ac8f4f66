package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns the process logger writing to stdout. Debug mode writes
// human-readable console output, everything else emits JSON lines.
func New(service string, debug bool) zerolog.Logger {
	return NewTo(os.Stdout, service, debug)
}

// NewTo is New with an explicit destination.
func NewTo(w io.Writer, service string, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
