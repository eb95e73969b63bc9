package compose

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// ErrNoSessionID is returned when a request carries neither a session id
// nor a tab to derive one from
var ErrNoSessionID = errors.New("request has no sessionId")

// Configuration is the per-request editor configuration
type Configuration struct {
	Version             string `json:"version"`
	Sequence            int    `json:"sequence,omitempty"`
	Total               int    `json:"total,omitempty"`
	Shell               string `json:"shell,omitempty"`
	Template            string `json:"template,omitempty"`
	TemporaryDirectory  string `json:"temporaryDirectory,omitempty"`
	SendOnExit          bool   `json:"sendOnExit"`
	SuppressHelpHeaders bool   `json:"suppressHelpHeaders"`
	AllowCustomHeaders  bool   `json:"allowCustomHeaders"`
	BypassVersionCheck  bool   `json:"bypassVersionCheck,omitempty"`
	MetaHeaders         bool   `json:"metaHeaders,omitempty"`
	Editor              string `json:"editor,omitempty"`
	Terminal            string `json:"terminal,omitempty"`
}

// Tab identifies the compose tab on older clients
type Tab struct {
	ID       int64  `json:"id"`
	Index    int    `json:"index,omitempty"`
	WindowID int64  `json:"windowId,omitempty"`
	Status   string `json:"status,omitempty"`
	Type     string `json:"type,omitempty"`
	MailTab  bool   `json:"mailTab,omitempty"`
}

// Request asks the host to open a compose document in the editor
type Request struct {
	Configuration  Configuration   `json:"configuration"`
	SessionID      json.RawMessage `json:"sessionId,omitempty"`
	Tab            *Tab            `json:"tab,omitempty"`
	ComposeDetails ComposeDetails  `json:"composeDetails"`
}

// SessionKey derives a comparable key from the opaque session id, falling
// back to the tab id
func (r *Request) SessionKey() (string, error) {
	return SessionKeyOf(r.SessionID, r.Tab)
}

// SessionKeyOf derives a session key from a raw session id and an optional
// tab. Equal ids always produce equal keys.
func SessionKeyOf(id json.RawMessage, tab *Tab) (string, error) {
	id = bytes.TrimSpace(id)
	if len(id) > 0 && !bytes.Equal(id, []byte("null")) {
		var buf bytes.Buffer
		if err := json.Compact(&buf, id); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	if tab != nil {
		return "tab:" + strconv.FormatInt(tab.ID, 10), nil
	}
	return "", ErrNoSessionID
}

// ResponseConfiguration is the configuration echoed on each response chunk
type ResponseConfiguration struct {
	Version    string `json:"version"`
	Sequence   int    `json:"sequence"`
	Total      int    `json:"total"`
	SendOnExit bool   `json:"sendOnExit"`
}

// Response is one chunk of an edit result. ComposeDetails holds the full
// document on the first chunk and only the body slice on later chunks.
type Response struct {
	Configuration  ResponseConfiguration `json:"configuration"`
	SessionID      json.RawMessage       `json:"sessionId,omitempty"`
	Tab            *Tab                  `json:"tab,omitempty"`
	ComposeDetails json.RawMessage       `json:"composeDetails"`
	Warnings       []Warning             `json:"warnings,omitempty"`
}

// BodySlice is the compose payload of every chunk after the first
type BodySlice struct {
	IsPlainText   bool    `json:"isPlainText"`
	Body          *string `json:"body,omitempty"`
	PlainTextBody *string `json:"plainTextBody,omitempty"`
}

// Warning is a non-fatal problem reported alongside a result
type Warning struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Notification reports a failure to the user. Reset tells the client to
// re-enable the editor action.
type Notification struct {
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Reset     bool            `json:"reset"`
	SessionID json.RawMessage `json:"sessionId,omitempty"`
	Tab       *Tab            `json:"tab,omitempty"`
}

// Ping is a liveness check
type Ping struct {
	Ping    json.RawMessage `json:"ping"`
	Version string          `json:"version,omitempty"`
}

// Pong answers a Ping, echoing its value unchanged
type Pong struct {
	Ping        json.RawMessage `json:"ping"`
	Pong        json.RawMessage `json:"pong"`
	HostVersion string          `json:"hostVersion"`
	Compatible  bool            `json:"compatible"`
}
