// Package logging builds the host's leveled logger. Standard output
// carries the protocol, so logs go to standard error or a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/gologme/log"
)

var levels = []string{"error", "warn", "info", "debug", "trace"}

// New returns a logger writing to w with every level up to and including
// level enabled. Unknown levels select "info".
func New(w io.Writer, level string, colored bool) *log.Logger {
	tag := color.New(color.FgCyan)
	if !colored {
		tag.DisableColor()
	}
	l := log.New(w, fmt.Sprintf("[ %s ] ", tag.SprintFunc()("ExtEditorR")), log.LstdFlags|log.Lmsgprefix)
	for _, lvl := range enabledLevels(level) {
		l.EnableLevel(lvl)
	}
	return l
}

// Open returns a logger for path, or for standard error when path is
// empty. The returned closer releases the log file.
func Open(path, level string) (*log.Logger, io.Closer, error) {
	if path == "" {
		return New(os.Stderr, level, !color.NoColor), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return New(f, level, false), f, nil
}

// Discard returns a logger with every level disabled
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func enabledLevels(level string) []string {
	level = strings.ToLower(strings.TrimSpace(level))
	for i, l := range levels {
		if l == level {
			return levels[:i+1]
		}
	}
	return levels[:3]
}
