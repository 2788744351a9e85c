package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger provides structured logging plus human-facing progress lines.
// Structured records go through slog; Progress lines are plain text.
type Logger struct {
	*slog.Logger
	verbose bool
	out     io.Writer
}

// NewLogger creates a logger writing to w (stderr when nil).
// format is "text" or "json"; level is one of debug, info, warn, error.
func NewLogger(level, format string, verbose bool, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{
		Logger:  slog.New(handler),
		verbose: verbose,
		out:     w,
	}
}

// With returns a logger carrying the given attributes on every record
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:  l.Logger.With(args...),
		verbose: l.verbose,
		out:     l.out,
	}
}

// Verbose reports whether progress lines are printed
func (l *Logger) Verbose() bool {
	return l.verbose
}

// SetVerbose toggles progress lines for this logger
func (l *Logger) SetVerbose(v bool) {
	l.verbose = v
}

// ProgressAlways prints a milestone line regardless of verbose mode
func (l *Logger) ProgressAlways(emoji, format string, args ...any) {
	fmt.Fprintf(l.out, "%s %s\n", emoji, fmt.Sprintf(format, args...))
}

// Progress prints a step-by-step line (only in verbose mode)
func (l *Logger) Progress(emoji, format string, args ...any) {
	if l.verbose {
		fmt.Fprintf(l.out, "%s %s\n", emoji, fmt.Sprintf(format, args...))
	}
}

// ParseLevel converts a level name to slog.Level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DefaultLogger returns a text logger at info level on stderr
func DefaultLogger() *Logger {
	return NewLogger("info", "text", false, nil)
}

// Discard returns a logger that drops everything; handy in tests
func Discard() *Logger {
	return NewLogger("error", "text", false, io.Discard)
}
