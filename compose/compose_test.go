package compose

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipientListAcceptsSingleAndArray(t *testing.T) {
	var d ComposeDetails
	err := json.Unmarshal([]byte(`{
		"from": {"id": "me", "type": "contact"},
		"to": "alice@example.com",
		"cc": ["bob@example.com", {"id": "abc", "type": "contact"}],
		"bcc": null,
		"subject": "hi",
		"isPlainText": true,
		"plainTextBody": "text"
	}`), &d)
	require.NoError(t, err)

	assert.Equal(t, RecipientList{EmailRecipient("alice@example.com")}, d.To)
	require.Len(t, d.Cc, 2)
	assert.Equal(t, "bob@example.com", d.Cc[0].Email)
	require.NotNil(t, d.Cc[1].Node)
	assert.Equal(t, NodeContact, d.Cc[1].Node.Type)
	assert.Nil(t, d.Bcc)
	require.NotNil(t, d.From)
	assert.Equal(t, &RecipientNode{ID: "me", Type: NodeContact}, d.From.Node)

	out, err := json.Marshal(&d)
	require.NoError(t, err)
	var generic map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &generic))
	assert.Equal(t, []interface{}{"alice@example.com"}, generic["to"])
	assert.Equal(t, []interface{}{}, generic["bcc"])
	assert.Equal(t, map[string]interface{}{"id": "me", "type": "contact"}, generic["from"])
}

func TestParseRecipient(t *testing.T) {
	r, err := ParseRecipient(" Alice <alice@example.com> ")
	require.NoError(t, err)
	assert.Equal(t, "Alice <alice@example.com>", r.Email)

	r, err = ParseRecipient(`{"id":"list-1","type":"mailingList"}`)
	require.NoError(t, err)
	require.NotNil(t, r.Node)
	assert.Equal(t, "list-1", r.Node.ID)
	assert.Equal(t, `{"id":"list-1","type":"mailingList"}`, r.String())

	_, err = ParseRecipient(`{"id":"x","type":"group"}`)
	assert.Error(t, err)
	_, err = ParseRecipient(`{"id":`)
	assert.Error(t, err)
}

func TestAuthoritativeBody(t *testing.T) {
	d := ComposeDetails{IsPlainText: false, Body: Ptr("<p>rich</p>"), PlainTextBody: Ptr("plain")}
	assert.Equal(t, "<p>rich</p>", d.AuthoritativeBody())

	d.IsPlainText = true
	assert.Equal(t, "plain", d.AuthoritativeBody())

	d.SetAuthoritativeBody("edited")
	assert.Equal(t, "edited", *d.PlainTextBody)
	assert.Nil(t, d.Body)
}

func TestSessionKey(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		want    string
		wantErr bool
	}{
		{"number", Request{SessionID: json.RawMessage(`42`)}, "42", false},
		{"string", Request{SessionID: json.RawMessage(`"abc"`)}, `"abc"`, false},
		{"object compacted", Request{SessionID: json.RawMessage(`{ "w": 1,  "t": 2 }`)}, `{"w":1,"t":2}`, false},
		{"tab fallback", Request{Tab: &Tab{ID: 7}}, "tab:7", false},
		{"null falls back", Request{SessionID: json.RawMessage(`null`), Tab: &Tab{ID: 3}}, "tab:3", false},
		{"missing", Request{}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.SessionKey()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoSessionID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := &ComposeDetails{
		From:          &Recipient{Node: &RecipientNode{ID: "me", Type: NodeContact}},
		To:            RecipientList{{Node: &RecipientNode{ID: "1", Type: NodeContact}}},
		Priority:      Ptr(PriorityHigh),
		CustomHeaders: []CustomHeader{{Name: "X-A", Value: "1"}},
	}
	c := orig.Clone()
	c.To[0].Node.ID = "2"
	c.From.Node.ID = "you"
	*c.Priority = PriorityLow
	c.CustomHeaders[0].Value = "2"

	assert.Equal(t, "1", orig.To[0].Node.ID)
	assert.Equal(t, "me", orig.From.Node.ID)
	assert.Equal(t, PriorityHigh, *orig.Priority)
	assert.Equal(t, "1", orig.CustomHeaders[0].Value)
}

func TestParseEnums(t *testing.T) {
	p, err := ParsePriority("HIGH")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)
	_, err = ParsePriority("urgent")
	assert.Error(t, err)

	f, err := ParseDeliveryFormat("PlainText")
	require.NoError(t, err)
	assert.Equal(t, DeliveryPlainText, f)
	_, err = ParseDeliveryFormat("rtf")
	assert.Error(t, err)
}
