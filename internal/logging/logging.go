// SPDX-License-Identifier: MPL-2.0

// Package logging builds the structured logger shared by the CLI and the
// packaging pipeline.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	// Prefix is printed in front of every log line.
	Prefix = "cargo-wasmer"
	// EnvLevel overrides the configured level, e.g. CARGO_WASMER_LOG=debug.
	EnvLevel = "CARGO_WASMER_LOG"
	// DefaultLevel is used when nothing else is configured.
	DefaultLevel = log.InfoLevel
)

// Options controls how New configures the logger.
type Options struct {
	// Level is one of debug, info, warn or error. Empty means DefaultLevel.
	Level string
	// Verbose forces debug level and adds timestamps.
	Verbose bool
}

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(s string) (log.Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultLevel, nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(s))
	if err != nil {
		return DefaultLevel, fmt.Errorf("invalid log level %q (expected debug, info, warn or error)", s)
	}
	return lvl, nil
}

// New returns a logger writing to w. The CARGO_WASMER_LOG environment
// variable takes precedence over opts.Level; --verbose wins over both.
func New(w io.Writer, opts Options) (*log.Logger, error) {
	level := opts.Level
	if env := os.Getenv(EnvLevel); env != "" {
		level = env
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		lvl = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		Prefix:          Prefix,
		Level:           lvl,
		ReportTimestamp: opts.Verbose,
	}), nil
}
