// Package logging builds the process logger: a tinted console handler
// on stderr whose level follows the -v count.
package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// New returns a logger for the given verbosity: 0 logs errors only,
// 1 and 2 add progress (the GET/HIT request log), 3 and up adds debug
// detail such as the git commands being run.
func New(verbosity int) *slog.Logger {
	level := slog.LevelError
	switch {
	case verbosity >= 3:
		level = slog.LevelDebug
	case verbosity >= 1:
		level = slog.LevelInfo
	}
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !useColor(),
	})
	return slog.New(handler)
}

func useColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if term := os.Getenv("TERM"); term == "dumb" || term == "" {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
