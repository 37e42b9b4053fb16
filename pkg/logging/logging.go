// Package logging configures colored structured logging with tint.
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: warn)
//
// The CLI prints its results to stdout; log lines go to stderr so they never
// mix with table or JSON output.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// DefaultLevel keeps interactive commands quiet unless something is wrong
const DefaultLevel = slog.LevelWarn

// Setup configures logging at the level from LOG_LEVEL. verbose forces debug.
func Setup(verbose bool) {
	level := ParseLevel(os.Getenv("LOG_LEVEL"))
	if verbose {
		level = slog.LevelDebug
	}
	SetupWithLevel(os.Stderr, level)
}

// SetupWithLevel configures colored logging to w at the given level.
func SetupWithLevel(w io.Writer, level slog.Level) {
	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			NoColor:    !isTerminal(w),
		}),
	))
}

// ParseLevel maps a LOG_LEVEL value to a slog level
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return DefaultLevel
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
