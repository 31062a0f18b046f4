package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

func New(level string) zerolog.Logger {
	return newLogger(os.Stdout, level)
}

// NewConsole returns a human-readable logger for the CLI entrypoints.
func NewConsole(level string) zerolog.Logger {
	return newLogger(zerolog.ConsoleWriter{Out: os.Stderr}, level)
}

func newLogger(out io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Caller().
		Logger()
}
