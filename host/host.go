// Package host runs the native messaging serve loop: it receives
// requests, runs one edit session per request and sends back results.
package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/gologme/log"

	"github.com/machinefabric/exteditor-go/compose"
	"github.com/machinefabric/exteditor-go/dispatch"
	"github.com/machinefabric/exteditor-go/editor"
	"github.com/machinefabric/exteditor-go/frame"
	"github.com/machinefabric/exteditor-go/protocol"
	"github.com/machinefabric/exteditor-go/session"
)

// Host serves requests arriving on a frame channel
type Host struct {
	channel    *frame.Channel
	decoder    *protocol.Decoder
	registry   *session.Registry
	editor     *editor.Controller
	dispatcher *dispatch.Dispatcher
	log        *log.Logger

	handlers sync.WaitGroup
}

// New creates a Host. registry may be nil, in which case sessions are
// tracked with a logging ActionObserver.
func New(ch *frame.Channel, ctrl *editor.Controller, registry *session.Registry, chunkBudget int, logger *log.Logger) (*Host, error) {
	decoder, err := protocol.NewDecoder()
	if err != nil {
		return nil, fmt.Errorf("failed to build request decoder: %w", err)
	}
	if registry == nil {
		registry = session.NewRegistry(&LogObserver{Log: logger})
	}
	if ctrl.Log == nil {
		ctrl.Log = logger
	}
	return &Host{
		channel:    ch,
		decoder:    decoder,
		registry:   registry,
		editor:     ctrl,
		dispatcher: dispatch.NewDispatcher(ch, chunkBudget),
		log:        logger,
	}, nil
}

// Registry returns the session registry
func (h *Host) Registry() *session.Registry {
	return h.registry
}

// Run receives frames until the input stream ends. Each request is handled
// on its own goroutine. When the stream ends, running editors are killed
// and Run waits for their sessions to finish before returning.
func (h *Host) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var runErr error
	for {
		doc, err := h.channel.Receive()
		if err != nil {
			if err == io.EOF {
				h.log.Infoln("input closed, shutting down")
				break
			}
			var fe *frame.FrameError
			if errors.As(err, &fe) && streamUsable(fe) {
				h.log.Warnf("dropping frame: %v", fe)
				continue
			}
			if !errors.Is(err, io.ErrUnexpectedEOF) {
				runErr = fmt.Errorf("failed to read frame: %w", err)
			}
			h.log.Warnf("input stream ended mid-frame: %v", err)
			break
		}

		h.handlers.Add(1)
		go func() {
			defer h.handlers.Done()
			h.handle(ctx, doc)
		}()
	}

	cancel()
	h.handlers.Wait()
	stats := h.channel.Stats()
	h.log.Debugf("received %d, dropped %d, sent %d frames", stats.Received, stats.Dropped, stats.Sent)
	return runErr
}

// streamUsable reports whether the reader is still on a frame boundary
// after fe
func streamUsable(fe *frame.FrameError) bool {
	switch fe.Kind {
	case frame.TooLarge, frame.InvalidEncoding, frame.InvalidPayload:
		return true
	default:
		return false
	}
}

func (h *Host) handle(ctx context.Context, doc []byte) {
	msg, err := h.decoder.Decode(doc)
	if err != nil {
		h.log.Warnf("rejecting request: %v", err)
		id, tab := protocol.SessionIDOf(doc)
		h.notify(NotificationFor(err), id, tab)
		return
	}

	switch msg.Kind {
	case protocol.KindPing:
		if err := h.channel.Send(protocol.HandlePing(*msg.Ping)); err != nil {
			h.log.Errorf("failed to send pong: %v", err)
		}
	case protocol.KindCompose:
		h.compose(ctx, msg.Request)
	}
}

// compose runs one edit session. The version gate runs before anything
// touches the file system.
func (h *Host) compose(ctx context.Context, req *compose.Request) {
	note, err := protocol.Negotiate(req.Configuration)
	if err != nil {
		h.log.Warnf("rejecting request: %v", err)
		h.notify(NotificationFor(err), req.SessionID, req.Tab)
		return
	}

	key, err := req.SessionKey()
	if err != nil {
		h.notify(NotificationFor(err), req.SessionID, req.Tab)
		return
	}
	s, err := h.registry.Begin(key)
	if err != nil {
		h.log.Warnf("session %s: %v", key, err)
		h.notify(NotificationFor(err), req.SessionID, req.Tab)
		return
	}
	defer s.Fail()

	if note != "" {
		h.log.Warnf("session %s: %s", key, note)
		s.AddNote(note)
	}

	res, err := h.editor.Edit(ctx, s, req)
	if err != nil {
		h.fail(s, err, req)
		return
	}
	s.AddWarnings(res.Warnings...)
	if err := s.Advance(session.Dispatching); err != nil {
		h.fail(s, err, req)
		return
	}

	// The session is released before the final chunk is written, so the
	// client may start a new edit as soon as it has the whole result.
	var completeErr error
	progress := func(sequence, total int) {
		s.SetProgress(sequence, total)
		if sequence == total {
			completeErr = s.Complete()
		}
	}
	total, err := h.dispatcher.Dispatch(&dispatch.Result{
		SessionID:  req.SessionID,
		Tab:        req.Tab,
		Version:    req.Configuration.Version,
		SendOnExit: res.SendOnExit,
		Details:    res.Details,
		Warnings:   s.Warnings(),
	}, progress)
	if completeErr != nil {
		h.log.Errorf("session %s: %v", key, completeErr)
	}
	if err != nil {
		h.fail(s, err, req)
		return
	}
	h.log.Debugf("session %s: sent %d chunk(s)", key, total)
}

// fail reports a session failure to the client. Sending is best effort
// since the failure may be the channel itself.
func (h *Host) fail(s *session.Session, err error, req *compose.Request) {
	h.log.Errorf("session %s: %v", s.Key, err)
	s.Fail()
	h.notify(NotificationFor(err), req.SessionID, req.Tab)
}

func (h *Host) notify(n compose.Notification, id []byte, tab *compose.Tab) {
	n.SessionID = id
	n.Tab = tab
	if err := h.channel.Send(n); err != nil {
		h.log.Errorf("failed to send notification %q: %v", n.Title, err)
	}
}

// LogObserver logs the client's action state transitions
type LogObserver struct {
	Log *log.Logger
}

func (o *LogObserver) ActionDisabled(key string) {
	o.Log.Debugf("session %s: editor action disabled", key)
}

func (o *LogObserver) ActionEnabled(key string, final session.State) {
	o.Log.Debugf("session %s: editor action enabled (%s)", key, final)
}
