// ABOUTME: Process logger construction on charmbracelet/log
// ABOUTME: Diagnostics go to stderr; user-facing output stays on stdout
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New builds a logger at the named level. Unknown levels fall back to info.
func New(level string, w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          "yongu",
		ReportTimestamp: lvl == log.DebugLevel,
		Level:           lvl,
	})
}

// Setup builds the logger and makes it the package default.
func Setup(level string) *log.Logger {
	logger := New(level, os.Stderr)
	log.SetDefault(logger)
	return logger
}

// Discard is a logger that writes nowhere, for tests.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
