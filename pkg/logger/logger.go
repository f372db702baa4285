// Package logger provides a structured zerolog logger for detect.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Init creates and returns a zerolog.Logger on stderr configured with the given level.
// Supported levels: debug, info, warn, error. Defaults to warn so a plain run stays quiet.
func Init(level string) zerolog.Logger {
	return New(os.Stderr, level, !term.IsTerminal(int(os.Stderr.Fd())))
}

// New creates a console logger writing to out.
func New(out io.Writer, level string, noColor bool) zerolog.Logger {
	return zerolog.New(
		zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    noColor,
		},
	).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog.Level.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}
