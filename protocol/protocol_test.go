package protocol

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/machinefabric/exteditor-go/compose"
)

func withHostVersion(t *testing.T, v string) {
	t.Helper()
	old := HostVersion
	HostVersion = v
	t.Cleanup(func() { HostVersion = old })
}

func TestCompatible(t *testing.T) {
	tests := []struct {
		host, ext string
		want      bool
	}{
		{"1.0.0", "1.0.0", true},
		{"1.0.0", "1.0.1-beta", true},
		{"1.0.3", "1.0.0", true},
		{"1.0.0", "1.1.0", false},
		{"1.0.0", "2.0.0", false},
		{"1.0.0", "1.0.0.0", false},
		{"1.0.0", "1.0", false},
		{"1.0.0", "", false},
		{"1.0.0", "garbage", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Compatible(tt.host, tt.ext), "%s vs %s", tt.host, tt.ext)
	}
}

func TestNegotiate(t *testing.T) {
	withHostVersion(t, "1.2.0")

	note, err := Negotiate(compose.Configuration{Version: "1.2.5"})
	require.NoError(t, err)
	assert.Empty(t, note)

	_, err = Negotiate(compose.Configuration{Version: "0.9.0"})
	var mismatch *VersionMismatchError
	require.True(t, errors.As(err, &mismatch))
	n := mismatch.Notification()
	assert.True(t, n.Reset)
	assert.Equal(t, "ExtEditorR version mismatch!", n.Title)
	assert.Equal(t, "Thunderbird extension is 0.9.0 while native messaging host is 1.2.0. The request has been discarded.", n.Message)

	note, err = Negotiate(compose.Configuration{Version: "0.9.0", BypassVersionCheck: true})
	require.NoError(t, err)
	assert.Contains(t, note, "bypassed")
}

func TestHandlePingEchoesValue(t *testing.T) {
	withHostVersion(t, "1.2.0")

	pong := HandlePing(compose.Ping{Ping: json.RawMessage(`1700000000123`)})
	out, err := json.Marshal(pong)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ping":1700000000123,"pong":1700000000123,"hostVersion":"1.2.0","compatible":true}`, string(out))

	pong = HandlePing(compose.Ping{Ping: json.RawMessage(`1`), Version: "2.0.0"})
	assert.False(t, pong.Compatible)
}

func TestDecodeClassifies(t *testing.T) {
	dec, err := NewDecoder()
	require.NoError(t, err)

	msg, err := dec.Decode([]byte(`{"ping": 1700000000123}`))
	require.NoError(t, err)
	assert.Equal(t, KindPing, msg.Kind)
	assert.Equal(t, "1700000000123", string(msg.Ping.Ping))

	msg, err = dec.Decode([]byte(`{
		"configuration": {"version": "1.2.0", "sendOnExit": true, "template": "vim \"/path/to/temp.eml\""},
		"sessionId": 12,
		"composeDetails": {
			"from": {"id": "id1", "type": "contact"},
			"to": ["a@example.com", {"id": "c1", "type": "contact"}],
			"cc": "b@example.com",
			"subject": "s",
			"isPlainText": true,
			"plainTextBody": "hello",
			"priority": "high",
			"customHeaders": [{"name": "X-A", "value": "1"}]
		}
	}`))
	require.NoError(t, err)
	require.Equal(t, KindCompose, msg.Kind)
	req := msg.Request
	assert.True(t, req.Configuration.SendOnExit)
	assert.Len(t, req.ComposeDetails.To, 2)
	require.NotNil(t, req.ComposeDetails.From)
	require.NotNil(t, req.ComposeDetails.From.Node)
	assert.Equal(t, "id1", req.ComposeDetails.From.Node.ID)
	assert.Equal(t, compose.PriorityHigh, *req.ComposeDetails.Priority)
	key, err := req.SessionKey()
	require.NoError(t, err)
	assert.Equal(t, "12", key)
}

func TestDecodeRejectsInvalidRequests(t *testing.T) {
	dec, err := NewDecoder()
	require.NoError(t, err)

	tests := map[string]string{
		"missing configuration": `{"sessionId": 1, "composeDetails": {}}`,
		"missing session":       `{"configuration": {"version": "1.2.0"}, "composeDetails": {}}`,
		"bad priority":          `{"configuration": {"version": "1.2.0"}, "sessionId": 1, "composeDetails": {"priority": "urgent"}}`,
		"non X- custom header":  `{"configuration": {"version": "1.2.0"}, "sessionId": 1, "composeDetails": {"customHeaders": [{"name": "Foo", "value": "1"}]}}`,
		"bad recipient node":    `{"configuration": {"version": "1.2.0"}, "sessionId": 1, "composeDetails": {"to": [{"id": "x", "type": "group"}]}}`,
		"bad sender node":       `{"configuration": {"version": "1.2.0"}, "sessionId": 1, "composeDetails": {"from": {"id": "x", "type": "group"}}}`,
		"not an object":         `[1, 2]`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := dec.Decode([]byte(doc))
			var sve *SchemaValidationError
			assert.True(t, errors.As(err, &sve), "expected SchemaValidationError, got %v", err)
		})
	}
}

func TestSessionIDOf(t *testing.T) {
	id, tab := SessionIDOf([]byte(`{"sessionId": "abc", "tab": {"id": 4}}`))
	assert.Equal(t, `"abc"`, string(id))
	require.NotNil(t, tab)
	assert.Equal(t, int64(4), tab.ID)
}
