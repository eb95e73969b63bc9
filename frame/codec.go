package frame

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	cbor2 "github.com/fxamacker/cbor/v2"
)

// Codec converts between frame payloads and JSON documents. Every codec
// exposes inbound payloads as JSON so the host works on one document model.
type Codec interface {
	Name() string
	// Encode marshals v (using its JSON encoding) into a frame payload
	Encode(v interface{}) ([]byte, error)
	// DecodeJSON converts a frame payload into a JSON document
	DecodeJSON(payload []byte) ([]byte, error)
}

// CodecByName resolves a codec from its configured name. An empty name
// selects JSON.
func CodecByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return JSONCodec{}, nil
	case "cbor":
		return NewCBORCodec()
	default:
		return nil, fmt.Errorf("unknown frame codec %q", name)
	}
}

// JSONCodec is the native messaging payload format
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) DecodeJSON(payload []byte) ([]byte, error) {
	if !utf8.Valid(payload) {
		return nil, &FrameError{Kind: InvalidEncoding, Length: len(payload)}
	}
	if !json.Valid(payload) {
		return nil, &FrameError{Kind: InvalidPayload, Length: len(payload), Err: errors.New("payload is not valid JSON")}
	}
	return payload, nil
}

// CBORCodec carries the same documents as CBOR. Values are transcoded
// through their JSON form so custom JSON marshalers keep working.
type CBORCodec struct {
	enc cbor2.EncMode
	dec cbor2.DecMode
}

// NewCBORCodec creates a CBORCodec
func NewCBORCodec() (*CBORCodec, error) {
	enc, err := cbor2.EncOptions{ShortestFloat: cbor2.ShortestFloat16}.EncMode()
	if err != nil {
		return nil, fmt.Errorf("cbor encoder: %w", err)
	}
	dec, err := cbor2.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]interface{}(nil)),
	}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("cbor decoder: %w", err)
	}
	return &CBORCodec{enc: enc, dec: dec}, nil
}

func (c *CBORCodec) Name() string { return "cbor" }

func (c *CBORCodec) Encode(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return c.enc.Marshal(generic)
}

func (c *CBORCodec) DecodeJSON(payload []byte) ([]byte, error) {
	var generic interface{}
	if err := c.dec.Unmarshal(payload, &generic); err != nil {
		return nil, &FrameError{Kind: InvalidPayload, Length: len(payload), Err: err}
	}
	doc, err := json.Marshal(generic)
	if err != nil {
		return nil, &FrameError{Kind: InvalidPayload, Length: len(payload), Err: err}
	}
	return doc, nil
}
