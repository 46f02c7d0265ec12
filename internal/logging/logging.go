// Package logging builds the hclog loggers used across flakescan.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Options controls logger construction.
type Options struct {
	// Level is one of trace, debug, info, warn, error (case-insensitive).
	Level string

	// Verbose forces the DEBUG level regardless of Level.
	Verbose bool

	// Color enables ANSI coloring when Output is a terminal.
	Color bool

	// Output defaults to os.Stderr so logs never mix with report output.
	Output io.Writer
}

// New creates a named logger. An unrecognized level falls back to INFO with
// a warning on the same output.
func New(name string, opts Options) hclog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := hclog.Debug
	if !opts.Verbose {
		var ok bool
		level, ok = parseLevel(opts.Level)
		if !ok {
			defer hclog.New(&hclog.LoggerOptions{
				Name:        name,
				Level:       hclog.Warn,
				DisableTime: true,
				Output:      out,
			}).Warn("unrecognized log level, defaulting to INFO", "provided", opts.Level)
		}
	}

	color := hclog.ColorOff
	if opts.Color {
		color = hclog.AutoColor
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:        name,
		Level:       level,
		Output:      out,
		DisableTime: true,
		Color:       color,
	})
}

// parseLevel converts a level name to hclog.Level. An empty name is INFO.
func parseLevel(s string) (hclog.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return hclog.Trace, true
	case "DEBUG":
		return hclog.Debug, true
	case "", "INFO":
		return hclog.Info, true
	case "WARN", "WARNING":
		return hclog.Warn, true
	case "ERROR":
		return hclog.Error, true
	}
	return hclog.Info, false
}
