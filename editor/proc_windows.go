//go:build windows

package editor

import "os/exec"

func configureProcessGroup(cmd *exec.Cmd) {}
