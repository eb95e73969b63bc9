// Package editor materializes a compose document in a temporary file,
// runs the user's external editor on it and reads the result back.
package editor

import (
	"path/filepath"
	"runtime"
	"strings"
)

// Platform identifies the operating system the editor runs on
type Platform struct {
	OS   string
	Arch string
}

// Current returns the platform of the running binary
func Current() Platform {
	return Platform{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

func (p Platform) IsWindows() bool { return p.OS == "windows" }
func (p Platform) IsDarwin() bool  { return p.OS == "darwin" }

// DefaultShell returns the shell used when the request names none. getenv
// is consulted for $SHELL on Unix-like systems.
func (p Platform) DefaultShell(getenv func(string) string) string {
	if p.IsWindows() {
		return "cmd"
	}
	if sh := getenv("SHELL"); sh != "" {
		return sh
	}
	if p.IsDarwin() {
		return "/bin/zsh"
	}
	return "sh"
}

type shellKind int

const (
	shellPOSIX shellKind = iota
	shellCmd
	shellPowerShell
)

func (p Platform) shellKind(shell string) shellKind {
	if !p.IsWindows() {
		return shellPOSIX
	}
	base := strings.ToLower(filepath.Base(strings.ReplaceAll(shell, `\`, "/")))
	base = strings.TrimSuffix(base, ".exe")
	switch base {
	case "cmd":
		return shellCmd
	case "powershell", "pwsh":
		return shellPowerShell
	default:
		return shellPOSIX
	}
}

// ShellArgs returns the arguments that make shell run one command string.
// macOS uses an interactive login shell so the user's PATH is loaded.
func (p Platform) ShellArgs(shell string) []string {
	switch p.shellKind(shell) {
	case shellCmd:
		return []string{"/C"}
	case shellPowerShell:
		return []string{"-NoProfile", "-Command"}
	}
	if p.IsDarwin() {
		return []string{"-i", "-l", "-c"}
	}
	return []string{"-c"}
}

// QuotePath quotes path as a single word for shell
func (p Platform) QuotePath(shell, path string) string {
	switch p.shellKind(shell) {
	case shellCmd:
		// Windows paths cannot contain double quotes. cmd expands %VAR%
		// inside quotes, so percent signs are doubled.
		return `"` + strings.ReplaceAll(path, "%", "%%") + `"`
	case shellPowerShell:
		return "'" + strings.ReplaceAll(path, "'", "''") + "'"
	default:
		return "'" + strings.ReplaceAll(path, "'", `'\''`) + "'"
	}
}
