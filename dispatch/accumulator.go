package dispatch

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/machinefabric/exteditor-go/compose"
)

// Assembled is a fully reassembled edit result
type Assembled struct {
	Configuration compose.ResponseConfiguration
	SessionID     json.RawMessage
	Tab           *compose.Tab
	Details       *compose.ComposeDetails
	Warnings      []compose.Warning
}

type assembly struct {
	total    int
	parts    []*string
	received int
	first    *compose.Response
	details  *compose.ComposeDetails
	warnings []compose.Warning
}

// Accumulator reassembles chunked responses per session. Chunks may
// arrive in any order; each session completes once every sequence number
// from 1 to total has been seen.
type Accumulator struct {
	mu      sync.Mutex
	pending map[string]*assembly
}

// NewAccumulator creates an Accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{pending: make(map[string]*assembly)}
}

// Pending returns the number of incomplete sessions
func (a *Accumulator) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}

// Add stores one chunk. It returns the assembled result when the chunk
// completes its session, and nil otherwise.
func (a *Accumulator) Add(resp *compose.Response) (*Assembled, error) {
	key, err := compose.SessionKeyOf(resp.SessionID, resp.Tab)
	if err != nil {
		return nil, err
	}
	seq, total := resp.Configuration.Sequence, resp.Configuration.Total
	if total < 1 || seq < 1 || seq > total {
		return nil, fmt.Errorf("session %s: chunk %d/%d out of range", key, seq, total)
	}

	var body string
	var details *compose.ComposeDetails
	if seq == 1 {
		details = &compose.ComposeDetails{}
		if err := json.Unmarshal(resp.ComposeDetails, details); err != nil {
			return nil, fmt.Errorf("session %s: chunk 1: %w", key, err)
		}
		body = details.AuthoritativeBody()
	} else {
		var slice compose.BodySlice
		if err := json.Unmarshal(resp.ComposeDetails, &slice); err != nil {
			return nil, fmt.Errorf("session %s: chunk %d: %w", key, seq, err)
		}
		p := slice.Body
		if slice.IsPlainText {
			p = slice.PlainTextBody
		}
		if p != nil {
			body = *p
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	asm, ok := a.pending[key]
	if !ok {
		asm = &assembly{total: total, parts: make([]*string, total)}
		a.pending[key] = asm
	}
	if asm.total != total {
		return nil, fmt.Errorf("session %s: chunk %d reports total %d, expected %d", key, seq, total, asm.total)
	}
	if asm.parts[seq-1] != nil {
		return nil, fmt.Errorf("session %s: duplicate chunk %d", key, seq)
	}

	asm.parts[seq-1] = &body
	asm.received++
	asm.warnings = append(asm.warnings, resp.Warnings...)
	if seq == 1 {
		asm.first = resp
		asm.details = details
	}

	if asm.received < asm.total {
		return nil, nil
	}
	delete(a.pending, key)

	var sb strings.Builder
	for _, part := range asm.parts {
		sb.WriteString(*part)
	}
	asm.details.SetAuthoritativeBody(sb.String())

	return &Assembled{
		Configuration: asm.first.Configuration,
		SessionID:     asm.first.SessionID,
		Tab:           asm.first.Tab,
		Details:       asm.details,
		Warnings:      asm.warnings,
	}, nil
}
