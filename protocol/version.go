// Package protocol classifies inbound documents and enforces the version
// agreement between the mail extension and this host.
package protocol

import (
	"fmt"
	"strings"

	"github.com/blang/semver"

	"github.com/machinefabric/exteditor-go/compose"
)

// HostVersion is the host's own version, overridden at link time
var HostVersion = "1.2.0"

// Compatible reports whether extension version ext can talk to host
// version host. Both must be semantic versions with equal major and minor
// components; patch and pre-release are ignored.
func Compatible(host, ext string) bool {
	h, err := semver.Parse(strings.TrimSpace(host))
	if err != nil {
		return false
	}
	e, err := semver.Parse(strings.TrimSpace(ext))
	if err != nil {
		return false
	}
	return h.Major == e.Major && h.Minor == e.Minor
}

// VersionMismatchError rejects a request from an incompatible extension
type VersionMismatchError struct {
	Host      string
	Extension string
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("extension version %q is incompatible with host version %q", e.Extension, e.Host)
}

// Notification renders the error for the user
func (e *VersionMismatchError) Notification() compose.Notification {
	return compose.Notification{
		Title: "ExtEditorR version mismatch!",
		Message: fmt.Sprintf(
			"Thunderbird extension is %s while native messaging host is %s. The request has been discarded.",
			e.Extension, e.Host,
		),
		Reset: true,
	}
}

// Negotiate checks a request's extension version against HostVersion. A
// mismatch is an error unless the request bypasses the check, in which
// case a note describing the mismatch is returned instead.
func Negotiate(cfg compose.Configuration) (note string, err error) {
	if Compatible(HostVersion, cfg.Version) {
		return "", nil
	}
	mismatch := &VersionMismatchError{Host: HostVersion, Extension: cfg.Version}
	if cfg.BypassVersionCheck {
		return "version check bypassed: " + mismatch.Error(), nil
	}
	return "", mismatch
}

// HandlePing answers a liveness check. The ping value is echoed unchanged;
// compatibility is reported only when the ping carries a version.
func HandlePing(p compose.Ping) compose.Pong {
	compatible := true
	if p.Version != "" {
		compatible = Compatible(HostVersion, p.Version)
	}
	return compose.Pong{
		Ping:        p.Ping,
		Pong:        p.Ping,
		HostVersion: HostVersion,
		Compatible:  compatible,
	}
}
