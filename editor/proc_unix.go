//go:build !windows

package editor

import (
	"os/exec"
	"syscall"
)

// configureProcessGroup puts the child in its own process group so
// cancellation also reaches the editor the shell started
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
