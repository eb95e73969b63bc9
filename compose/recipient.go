package compose

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// RecipientNode references an address book contact or mailing list
type RecipientNode struct {
	ID   string            `json:"id"`
	Type RecipientNodeType `json:"type"`
}

// Recipient is either a plain address or an address book node
type Recipient struct {
	Email string
	Node  *RecipientNode
}

// EmailRecipient creates a plain address recipient
func EmailRecipient(addr string) Recipient {
	return Recipient{Email: addr}
}

// String renders the recipient for a header line. Nodes are written as
// their JSON object so they survive a round trip through the editor.
func (r Recipient) String() string {
	if r.Node == nil {
		return r.Email
	}
	b, _ := json.Marshal(r.Node)
	return string(b)
}

// IsEmpty reports whether r names nobody
func (r Recipient) IsEmpty() bool {
	return r.Node == nil && r.Email == ""
}

// ParseRecipient parses a header value produced by String
func ParseRecipient(s string) (Recipient, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return EmailRecipient(s), nil
	}
	var node RecipientNode
	dec := json.NewDecoder(strings.NewReader(s))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&node); err != nil {
		return Recipient{}, fmt.Errorf("invalid recipient node %q: %w", s, err)
	}
	if node.ID == "" {
		return Recipient{}, fmt.Errorf("recipient node %q has no id", s)
	}
	switch node.Type {
	case NodeContact, NodeMailingList:
	default:
		return Recipient{}, fmt.Errorf("recipient node %q has unknown type %q", s, node.Type)
	}
	return Recipient{Node: &node}, nil
}

func (r Recipient) MarshalJSON() ([]byte, error) {
	if r.Node != nil {
		return json.Marshal(r.Node)
	}
	return json.Marshal(r.Email)
}

func (r *Recipient) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var node RecipientNode
		if err := json.Unmarshal(data, &node); err != nil {
			return err
		}
		*r = Recipient{Node: &node}
		return nil
	}
	var email string
	if err := json.Unmarshal(data, &email); err != nil {
		return err
	}
	*r = Recipient{Email: email}
	return nil
}

// RecipientList accepts a single recipient or an array on input and is
// always emitted as an array
type RecipientList []Recipient

func (l RecipientList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Recipient(l))
}

func (l *RecipientList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*l = nil
		return nil
	case len(data) > 0 && data[0] == '[':
		var items []Recipient
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		var single Recipient
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*l = RecipientList{single}
		return nil
	}
}
