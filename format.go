package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// statusf prints a status message to stderr unless quiet mode is set.
func statusf(quiet bool, format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// Statusf is the method form of statusf, bound to the resolved --quiet
// flag so call sites don't thread the bool through every signature.
func (cc *CLIContext) Statusf(format string, args ...any) {
	statusf(flagQuiet, format, args...)
}

// formatSize returns a human-readable size string (e.g. "1.2 MB").
func formatSize(bytes int64) string {
	return humanize.Bytes(uint64(bytes))
}

// formatTime returns a relative, human-readable timestamp ("3 minutes
// ago"), or "never" for the zero value.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	return humanize.Time(t)
}

// unixTime converts a stored epoch-seconds timestamp into a time.Time, or
// the zero value for an unset (zero) timestamp.
func unixTime(seconds int64) time.Time {
	if seconds == 0 {
		return time.Time{}
	}

	return time.Unix(seconds, 0)
}

// colorEnabled reports whether ANSI colors should be written to stdout:
// only when stdout is a real terminal, never when piped or redirected.
func colorEnabled() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// ANSI color codes used for status text.
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
)

// colorize wraps s in the given color code if color output is enabled,
// otherwise returns s unchanged.
func colorize(code, s string) string {
	if !colorEnabled() {
		return s
	}

	return code + s + colorReset
}
