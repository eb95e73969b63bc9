package frame

import "fmt"

// ErrorKind classifies why a frame was dropped
type ErrorKind int

const (
	TruncatedPrefix ErrorKind = iota
	TruncatedPayload
	TooLarge
	InvalidEncoding
	InvalidPayload
)

func (k ErrorKind) String() string {
	switch k {
	case TruncatedPrefix:
		return "truncated length prefix"
	case TruncatedPayload:
		return "truncated payload"
	case TooLarge:
		return "frame too large"
	case InvalidEncoding:
		return "invalid UTF-8"
	case InvalidPayload:
		return "invalid payload"
	default:
		return "unknown"
	}
}

// FrameError reports a malformed inbound frame. The frame is dropped; the
// channel itself stays usable unless the underlying stream has ended.
type FrameError struct {
	Kind   ErrorKind
	Length int
	Err    error
}

func (e *FrameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("frame dropped (%s, %d bytes): %v", e.Kind, e.Length, e.Err)
	}
	return fmt.Sprintf("frame dropped (%s, %d bytes)", e.Kind, e.Length)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}
