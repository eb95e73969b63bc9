// Package manifest describes the native messaging host to the mail client
package manifest

import (
	"encoding/json"
	"fmt"
	"io"
)

const (
	// AppName is the native messaging host name the extension connects to
	AppName = "external_editor_revived"

	// ExtensionID is the only extension allowed to launch the host
	ExtensionID = "external-editor-revived@tsundere.moe"

	// ConnectionType is the native messaging transport
	ConnectionType = "stdio"

	// Description is the human-readable host description
	Description = "Native messaging host for the External Editor Revived extension"

	// DocsURL documents where manifests live on each platform
	DocsURL = "https://wiki.mozilla.org/WebExtensions/Native_Messaging"
)

// AppManifest is the JSON document the mail client reads to find the host
type AppManifest struct {
	// Host name, matched against the extension's connectNative call
	Name string `json:"name"`

	Description string `json:"description"`

	// Absolute path to the host executable
	Path string `json:"path"`

	// Always "stdio"
	Type string `json:"type"`

	AllowedExtensions []string `json:"allowed_extensions"`
}

// New creates the manifest for the executable at path
func New(path string) *AppManifest {
	return &AppManifest{
		Name:              AppName,
		Description:       Description,
		Path:              path,
		Type:              ConnectionType,
		AllowedExtensions: []string{ExtensionID},
	}
}

// FileName returns the name the manifest file must have
func (m *AppManifest) FileName() string {
	return m.Name + ".json"
}

// JSON returns the indented manifest document
func (m *AppManifest) JSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// PrintHelp writes installation guidance for goos to diag and the
// manifest itself to out, so out can be redirected into the file.
func (m *AppManifest) PrintHelp(diag, out io.Writer, goos string) error {
	fmt.Fprintf(diag, "Please create '%s' manifest file with the JSON below.\n", m.FileName())
	if goos == "darwin" {
		fmt.Fprintf(diag, "Under macOS this is usually ~/Library/Mozilla/NativeMessagingHosts/%s,\n", m.FileName())
		fmt.Fprintf(diag, "or /Library/Application Support/Mozilla/NativeMessagingHosts/%s for global visibility.\n", m.FileName())
	} else {
		fmt.Fprintf(diag, "Consult %s for its location.\n", DocsURL)
	}
	fmt.Fprintln(diag)

	data, err := m.JSON()
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	_, err = fmt.Fprintf(out, "%s\n", data)
	return err
}
