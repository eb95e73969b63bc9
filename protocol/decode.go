package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/machinefabric/exteditor-go/compose"
)

// Kind identifies an inbound document
type Kind int

const (
	KindPing Kind = iota
	KindCompose
)

// Message is a classified inbound document
type Message struct {
	Kind    Kind
	Ping    *compose.Ping
	Request *compose.Request
}

// Decoder classifies and validates inbound documents
type Decoder struct {
	validator *SchemaValidator
}

// NewDecoder creates a Decoder
func NewDecoder() (*Decoder, error) {
	v, err := NewSchemaValidator()
	if err != nil {
		return nil, err
	}
	return &Decoder{validator: v}, nil
}

// Decode classifies a JSON document. Any document with a "ping" member is
// a liveness check; everything else must be a valid compose request.
func (d *Decoder) Decode(doc []byte) (*Message, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return nil, &SchemaValidationError{Type: "NotAnObject", Details: err.Error()}
	}

	if _, ok := fields["ping"]; ok {
		var p compose.Ping
		if err := json.Unmarshal(doc, &p); err != nil {
			return nil, fmt.Errorf("invalid ping: %w", err)
		}
		return &Message{Kind: KindPing, Ping: &p}, nil
	}

	if err := d.validator.ValidateRequest(doc); err != nil {
		return nil, err
	}
	var req compose.Request
	if err := json.Unmarshal(doc, &req); err != nil {
		return nil, fmt.Errorf("invalid compose request: %w", err)
	}
	return &Message{Kind: KindCompose, Request: &req}, nil
}

// SessionIDOf extracts the session identity of a document that failed to
// decode, so an error notification can still be routed
func SessionIDOf(doc []byte) (json.RawMessage, *compose.Tab) {
	var partial struct {
		SessionID json.RawMessage `json:"sessionId"`
		Tab       *compose.Tab    `json:"tab"`
	}
	if err := json.Unmarshal(doc, &partial); err != nil {
		return nil, nil
	}
	return partial.SessionID, partial.Tab
}
