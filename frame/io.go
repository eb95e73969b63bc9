package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const prefixSize = 4

// Reader reads length-prefixed frames from a stream. The prefix is a
// uint32 in native byte order, as native messaging requires.
type Reader struct {
	reader io.Reader
	limits Limits
}

// NewReader creates a new Reader
func NewReader(r io.Reader) *Reader {
	return &Reader{
		reader: r,
		limits: DefaultLimits(),
	}
}

// SetLimits updates the reader's limits
func (fr *Reader) SetLimits(limits Limits) {
	fr.limits = limits.Normalize()
}

// ReadFrame reads a single frame payload from the stream. io.EOF is returned
// only when the stream ends cleanly on a frame boundary.
func (fr *Reader) ReadFrame() ([]byte, error) {
	var lengthBuf [prefixSize]byte
	n, err := io.ReadFull(fr.reader, lengthBuf[:])
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, &FrameError{Kind: TruncatedPrefix, Length: n, Err: err}
	}

	length := int(binary.NativeEndian.Uint32(lengthBuf[:]))

	if length > fr.limits.MaxInbound {
		// Drain so the next read starts on a frame boundary
		drained, err := io.CopyN(io.Discard, fr.reader, int64(length))
		if err != nil {
			return nil, &FrameError{Kind: TruncatedPayload, Length: int(drained), Err: err}
		}
		return nil, &FrameError{
			Kind:   TooLarge,
			Length: length,
			Err:    fmt.Errorf("frame size %d exceeds max_inbound limit %d", length, fr.limits.MaxInbound),
		}
	}

	payload := make([]byte, length)
	if n, err := io.ReadFull(fr.reader, payload); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, &FrameError{Kind: TruncatedPayload, Length: n, Err: err}
	}

	return payload, nil
}

// Writer writes length-prefixed frames to a stream. It is not safe for
// concurrent use; see Channel.
type Writer struct {
	writer io.Writer
	limits Limits
}

// NewWriter creates a new Writer
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		writer: w,
		limits: DefaultLimits(),
	}
}

// SetLimits updates the writer's limits
func (fw *Writer) SetLimits(limits Limits) {
	fw.limits = limits.Normalize()
}

// MaxPayload returns the largest payload WriteFrame accepts
func (fw *Writer) MaxPayload() int {
	return fw.limits.MaxOutbound
}

// WriteFrame writes prefix and payload with a single Write call
func (fw *Writer) WriteFrame(payload []byte) error {
	if len(payload) > fw.limits.MaxOutbound {
		return fmt.Errorf("encoded frame size %d exceeds max_outbound limit %d", len(payload), fw.limits.MaxOutbound)
	}

	buf := make([]byte, prefixSize+len(payload))
	binary.NativeEndian.PutUint32(buf[:prefixSize], uint32(len(payload)))
	copy(buf[prefixSize:], payload)

	_, err := fw.writer.Write(buf)
	return err
}
