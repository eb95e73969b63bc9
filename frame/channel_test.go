package frame

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelDropsMalformedFramesAndContinues(t *testing.T) {
	var in bytes.Buffer
	in.Write(rawFrame([]byte{'"', 0xff, '"'}))
	in.Write(rawFrame([]byte(`{"ping":`)))
	in.Write(rawFrame([]byte(`{"ping":7}`)))

	ch := NewChannel(&in, io.Discard, nil, DefaultLimits())

	_, err := ch.Receive()
	var fe *FrameError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, InvalidEncoding, fe.Kind)

	_, err = ch.Receive()
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, InvalidPayload, fe.Kind)

	doc, err := ch.Receive()
	require.NoError(t, err)
	assert.JSONEq(t, `{"ping":7}`, string(doc))

	_, err = ch.Receive()
	assert.Equal(t, io.EOF, err)

	stats := ch.Stats()
	assert.Equal(t, uint64(1), stats.Received)
	assert.Equal(t, uint64(2), stats.Dropped)
}

func TestChannelConcurrentSendsKeepFramesWhole(t *testing.T) {
	var out bytes.Buffer
	ch := NewChannel(bytes.NewReader(nil), &out, JSONCodec{}, DefaultLimits())

	const senders = 16
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := bytes.Repeat([]byte{byte('a' + i)}, 4096)
			assert.NoError(t, ch.Send(map[string]string{"id": fmt.Sprint(i), "body": string(body)}))
		}(i)
	}
	wg.Wait()

	r := NewReader(&out)
	seen := map[string]bool{}
	for {
		payload, err := r.ReadFrame()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		var doc map[string]string
		require.NoError(t, json.Unmarshal(payload, &doc))
		assert.Len(t, doc["body"], 4096)
		seen[doc["id"]] = true
	}
	assert.Len(t, seen, senders)
	assert.Equal(t, uint64(senders), ch.Stats().Sent)
}

func TestCBORCodecCarriesJSONDocuments(t *testing.T) {
	codec, err := CodecByName("cbor")
	require.NoError(t, err)
	assert.Equal(t, "cbor", codec.Name())

	var pipe bytes.Buffer
	sender := NewChannel(bytes.NewReader(nil), &pipe, codec, DefaultLimits())
	require.NoError(t, sender.Send(map[string]interface{}{
		"ping":    uint64(1700000000123),
		"nested":  map[string]interface{}{"to": []string{"a@example.com"}},
		"flag":    true,
		"subject": "Grüße",
	}))

	receiver := NewChannel(&pipe, io.Discard, codec, DefaultLimits())
	doc, err := receiver.Receive()
	require.NoError(t, err)
	assert.JSONEq(t, `{"ping":1700000000123,"nested":{"to":["a@example.com"]},"flag":true,"subject":"Grüße"}`, string(doc))
}

func TestCodecByNameRejectsUnknown(t *testing.T) {
	_, err := CodecByName("msgpack")
	assert.Error(t, err)

	c, err := CodecByName("")
	require.NoError(t, err)
	assert.Equal(t, "json", c.Name())
}
