package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

// newLogger creates a logger with timestamp formatting. Output that is not
// a terminal, such as a journal or a log file, gets JSON lines instead of
// styled text.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	formatter := log.TextFormatter
	if !isTerminal(w) {
		formatter = log.JSONFormatter
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Formatter:       formatter,
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// parseLevel maps a config log_level to a logger level.
func parseLevel(s string) (log.Level, error) {
	switch s {
	case "debug":
		return log.DebugLevel, nil
	case "", "info":
		return log.InfoLevel, nil
	case "warning", "warn":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	}
	return log.InfoLevel, fmt.Errorf("unknown log level %q", s)
}

// applyConfigLevel sets the level from the config unless the command line
// already chose one.
func (c *CLI) applyConfigLevel(s string) {
	if c.levelPinned {
		return
	}
	level, err := parseLevel(s)
	if err != nil {
		c.Logger.Warn("ignoring log level", "err", err)
		return
	}
	c.Logger.SetLevel(level)
}
