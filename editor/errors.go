package editor

import (
	"fmt"
	"strings"
)

// IOError reports a temporary file operation that failed
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ProcessSpawnError reports an editor that could not be started
type ProcessSpawnError struct {
	Command []string
	Err     error
}

func (e *ProcessSpawnError) Error() string {
	if len(e.Command) == 0 {
		return fmt.Sprintf("failed to start editor: %v", e.Err)
	}
	return fmt.Sprintf("failed to start editor %q: %v", strings.Join(e.Command, " "), e.Err)
}

func (e *ProcessSpawnError) Unwrap() error { return e.Err }

// EditorExitError reports an editor that exited unsuccessfully
type EditorExitError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *EditorExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s\n%v", e.Stderr, e.Err)
	}
	return e.Err.Error()
}

func (e *EditorExitError) Unwrap() error { return e.Err }
