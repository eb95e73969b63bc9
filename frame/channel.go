package frame

import (
	"io"
	"sync"

	"go.uber.org/atomic"
)

// Channel is a bidirectional frame channel over a pair of streams. Receive
// must be called from a single goroutine; Send is safe for concurrent use
// and writes each frame whole.
type Channel struct {
	reader *Reader
	codec  Codec

	mu     sync.Mutex
	writer *Writer

	received atomic.Uint64
	dropped  atomic.Uint64
	sent     atomic.Uint64
}

// NewChannel creates a Channel reading from r and writing to w
func NewChannel(r io.Reader, w io.Writer, codec Codec, limits Limits) *Channel {
	if codec == nil {
		codec = JSONCodec{}
	}
	reader := NewReader(r)
	reader.SetLimits(limits)
	writer := NewWriter(w)
	writer.SetLimits(limits)
	return &Channel{reader: reader, writer: writer, codec: codec}
}

// Codec returns the payload codec in use
func (c *Channel) Codec() Codec {
	return c.codec
}

// MaxPayload returns the largest outbound payload the channel accepts
func (c *Channel) MaxPayload() int {
	return c.writer.MaxPayload()
}

// Receive returns the next inbound document as JSON. A *FrameError means
// the frame was dropped and the caller may keep receiving; io.EOF means the
// peer closed the stream.
func (c *Channel) Receive() ([]byte, error) {
	payload, err := c.reader.ReadFrame()
	if err != nil {
		if err != io.EOF {
			c.dropped.Inc()
		}
		return nil, err
	}
	doc, err := c.codec.DecodeJSON(payload)
	if err != nil {
		c.dropped.Inc()
		return nil, err
	}
	c.received.Inc()
	return doc, nil
}

// Send encodes v and writes it as one frame
func (c *Channel) Send(v interface{}) error {
	payload, err := c.codec.Encode(v)
	if err != nil {
		return err
	}
	return c.SendPayload(payload)
}

// SendPayload writes an already encoded payload as one frame
func (c *Channel) SendPayload(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.writer.WriteFrame(payload); err != nil {
		return err
	}
	c.sent.Inc()
	return nil
}

// Stats is a snapshot of channel counters
type Stats struct {
	Received uint64
	Dropped  uint64
	Sent     uint64
}

// Stats returns the channel counters
func (c *Channel) Stats() Stats {
	return Stats{
		Received: c.received.Load(),
		Dropped:  c.dropped.Load(),
		Sent:     c.sent.Load(),
	}
}
