package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Setup builds a zerolog logger writing to w.
//   - level: trace, debug, info, warn, error, fatal, panic (default info)
//   - format: "pretty" for console output, "json" for machine output, "auto"
//     to pick pretty when w is a terminal
func Setup(level, format string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}

	if format == "auto" {
		format = "json"
		if isTerminal(w) {
			format = "pretty"
		}
	}

	writer := w
	if format == "pretty" {
		writer = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    !isTerminal(w),
		}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(writer).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// OpenFile opens (or creates) a log file for appending, creating its
// directory first. The TUI logs here so output does not corrupt the screen.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// Component returns a child logger tagged with a component name.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
