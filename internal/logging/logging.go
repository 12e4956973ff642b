// Package logging builds the service logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/lepinkainen/humanlog"
)

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}

// New returns a logger writing to w. Format "json" selects slog's JSON
// handler; anything else gets the human-readable one.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	default:
		handler = humanlog.NewHandler(w, &humanlog.Options{Level: lvl})
	}
	return slog.New(handler), nil
}
