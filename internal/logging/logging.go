// Package logging builds the zerolog loggers used by the server and the CLI.
//
// Output always goes to the supplied writer (stderr in practice), because
// stdout carries the MCP protocol when serving.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to w at the named level. When console is true
// the output is human-readable; otherwise it is one JSON object per line.
func New(w io.Writer, level string, console bool) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// ParseLevel maps a level name to a zerolog level. The empty string is info.
func ParseLevel(level string) (zerolog.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// Elapsed adds the time since start to an event in milliseconds.
func Elapsed(e *zerolog.Event, start time.Time) *zerolog.Event {
	return e.Dur("elapsed", time.Since(start))
}
