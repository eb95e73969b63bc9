package editor

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// DefaultStderrLimit bounds the editor output kept for error reports
const DefaultStderrLimit = 16 * 1024

// Runner runs an editor command to completion
type Runner interface {
	Run(ctx context.Context, argv []string) error
}

// ExecRunner runs commands as child processes. The child gets no stdin
// and no stdout, since the host's own streams carry the protocol.
type ExecRunner struct {
	StderrLimit int
	// WaitDelay bounds how long Wait blocks for descendants holding the
	// stderr pipe after the child has exited or been killed
	WaitDelay time.Duration
}

// Run starts argv and blocks until it exits or ctx is cancelled, which
// kills the child's process group
func (r ExecRunner) Run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return &ProcessSpawnError{Err: errors.New("empty command")}
	}
	limit := r.StderrLimit
	if limit <= 0 {
		limit = DefaultStderrLimit
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	stderr := &tailBuffer{limit: limit}
	cmd.Stderr = stderr
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = 5 * time.Second
	}
	configureProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return &ProcessSpawnError{Command: argv, Err: err}
	}

	err := cmd.Wait()
	if err == nil {
		return nil
	}
	exitErr := &EditorExitError{ExitCode: -1, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		exitErr.ExitCode = ee.ExitCode()
	}
	if ctx.Err() != nil {
		exitErr.Err = ctx.Err()
	}
	return exitErr
}

// tailBuffer keeps the last limit bytes written to it
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.limit; over > 0 {
		b.buf = append(b.buf[:0], b.buf[over:]...)
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}
