package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type settings struct {
	w    io.Writer
	json bool
}

// Option configures the logger built by New.
type Option func(*settings)

// WithWriter sends logs to w instead of stderr.
func WithWriter(w io.Writer) Option {
	return func(s *settings) {
		s.w = w
	}
}

// WithJSON switches to the JSON handler.
func WithJSON(enabled bool) Option {
	return func(s *settings) {
		s.json = enabled
	}
}

// New creates a configured application logger.
// It writes to Stderr (to separate from the Stdout chat UI and MCP stdio).
// It standardizes common keys (e.g., "error" -> "err") and never prints
// a session credential.
func New(level slog.Level, opts ...Option) *slog.Logger {
	s := settings{w: os.Stderr}
	for _, opt := range opts {
		opt(&s)
	}

	handlerOpts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case "error":
				a.Key = "err"
			case "credential", "api_key":
				a.Value = slog.StringValue("[REDACTED]")
			}
			return a
		},
	}

	if s.json {
		return slog.New(slog.NewJSONHandler(s.w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(s.w, handlerOpts))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a config string to a level. Unknown values mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
