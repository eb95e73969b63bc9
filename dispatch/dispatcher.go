// Package dispatch frames edit results into ordered response chunks that
// each fit in one outbound message, and reassembles them.
package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/machinefabric/exteditor-go/compose"
)

// DefaultChunkBudget is the default body bytes per chunk (768 KiB)
const DefaultChunkBudget = 768 * 1024

// frameHeadroom is reserved below the outbound frame limit for encoding
// differences between codecs
const frameHeadroom = 4 * 1024

// ErrResponseTooLarge is returned when the non-body fields alone do not
// fit in one outbound frame
var ErrResponseTooLarge = errors.New("response metadata exceeds the outbound frame limit")

// Sender writes one message as one frame
type Sender interface {
	Send(v interface{}) error
	MaxPayload() int
}

// Result is a finished edit ready to be returned
type Result struct {
	SessionID  json.RawMessage
	Tab        *compose.Tab
	Version    string
	SendOnExit bool
	Details    *compose.ComposeDetails
	Warnings   []compose.Warning
}

// Dispatcher splits results into chunks and sends them in order
type Dispatcher struct {
	sender      Sender
	chunkBudget int
}

// NewDispatcher creates a Dispatcher. A non-positive chunkBudget selects
// DefaultChunkBudget.
func NewDispatcher(sender Sender, chunkBudget int) *Dispatcher {
	if chunkBudget <= 0 {
		chunkBudget = DefaultChunkBudget
	}
	return &Dispatcher{sender: sender, chunkBudget: chunkBudget}
}

// Budget returns the body budget per chunk given the encoded size of the
// first chunk without its body
func (d *Dispatcher) Budget(skeletonLen int) int {
	return min(d.chunkBudget, d.sender.MaxPayload()-skeletonLen-frameHeadroom)
}

// Dispatch sends res as one or more chunks. progress, if non-nil, is
// called before each chunk is sent. It returns the number of chunks sent.
func (d *Dispatcher) Dispatch(res *Result, progress func(sequence, total int)) (int, error) {
	details := res.Details.Clone()
	details.Attachments = []compose.Attachment{}
	body := details.AuthoritativeBody()
	details.SetAuthoritativeBody("")

	first, err := d.chunkWith(res, 1, 1, details, res.Warnings)
	if err != nil {
		return 0, err
	}
	skeleton, err := json.Marshal(first)
	if err != nil {
		return 0, fmt.Errorf("failed to encode response: %w", err)
	}
	budget := d.Budget(len(skeleton))
	if budget <= 0 {
		return 0, ErrResponseTooLarge
	}

	segments := Split(body, budget)
	total := len(segments)
	for i, seg := range segments {
		sequence := i + 1
		var payload interface{}
		if sequence == 1 {
			details.SetAuthoritativeBody(seg)
			payload = details
		} else {
			slice := compose.BodySlice{IsPlainText: details.IsPlainText}
			segment := seg
			if details.IsPlainText {
				slice.PlainTextBody = &segment
			} else {
				slice.Body = &segment
			}
			payload = slice
		}

		var warnings []compose.Warning
		if sequence == total {
			warnings = res.Warnings
		}

		resp, err := d.chunkWith(res, sequence, total, payload, warnings)
		if err != nil {
			return i, err
		}
		if progress != nil {
			progress(sequence, total)
		}
		if err := d.sender.Send(resp); err != nil {
			return i, fmt.Errorf("failed to send chunk %d/%d: %w", sequence, total, err)
		}
	}
	return total, nil
}

func (d *Dispatcher) chunkWith(res *Result, sequence, total int, payload interface{}, warnings []compose.Warning) (*compose.Response, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode compose details: %w", err)
	}
	return &compose.Response{
		Configuration: compose.ResponseConfiguration{
			Version:    res.Version,
			Sequence:   sequence,
			Total:      total,
			SendOnExit: res.SendOnExit,
		},
		SessionID:      res.SessionID,
		Tab:            res.Tab,
		ComposeDetails: raw,
		Warnings:       warnings,
	}, nil
}
