package session

import (
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/machinefabric/exteditor-go/compose"
)

// ErrSessionActive is returned when a session id already has a live session
var ErrSessionActive = errors.New("an edit session is already active for this compose window")

// ActionObserver follows the client's editor action state. The action is
// disabled when a session begins and enabled again exactly once when it is
// released.
type ActionObserver interface {
	ActionDisabled(key string)
	ActionEnabled(key string, final State)
}

// Session is one in-flight edit
type Session struct {
	Key     string
	Started time.Time

	registry *Registry
	released atomic.Bool

	mu       sync.Mutex
	state    State
	tempPath string
	sequence int
	total    int
	notes    []string
	warnings []compose.Warning
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Advance moves the session to the next state
func (s *Session) Advance(to State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !canTransition(s.state, to) {
		return &TransitionError{Key: s.Key, From: s.state, To: to}
	}
	s.state = to
	return nil
}

// SetTempPath records the session's temporary file
func (s *Session) SetTempPath(path string) {
	s.mu.Lock()
	s.tempPath = path
	s.mu.Unlock()
}

// TempPath returns the session's temporary file, if any
func (s *Session) TempPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tempPath
}

// SetProgress records the outbound chunk position
func (s *Session) SetProgress(sequence, total int) {
	s.mu.Lock()
	s.sequence, s.total = sequence, total
	s.mu.Unlock()
}

// Progress returns the outbound chunk position
func (s *Session) Progress() (sequence, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sequence, s.total
}

// AddNote records an internal remark that is logged but not sent
func (s *Session) AddNote(note string) {
	s.mu.Lock()
	s.notes = append(s.notes, note)
	s.mu.Unlock()
}

// Notes returns the recorded remarks
func (s *Session) Notes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.notes...)
}

// AddWarnings accumulates warnings for the final response chunk
func (s *Session) AddWarnings(w ...compose.Warning) {
	s.mu.Lock()
	s.warnings = append(s.warnings, w...)
	s.mu.Unlock()
}

// Warnings returns the accumulated warnings
func (s *Session) Warnings() []compose.Warning {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]compose.Warning(nil), s.warnings...)
}

// Complete finishes a dispatched session and releases it
func (s *Session) Complete() error {
	if err := s.Advance(Complete); err != nil {
		return err
	}
	s.release()
	return nil
}

// Fail marks the session failed and releases it. Failing a released
// session is a no-op.
func (s *Session) Fail() {
	s.mu.Lock()
	if !s.state.Terminal() {
		s.state = Failed
	}
	s.mu.Unlock()
	s.release()
}

func (s *Session) release() {
	if !s.released.CompareAndSwap(false, true) {
		return
	}
	s.registry.remove(s)
}

// Registry owns the set of live sessions, at most one per key
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	observer ActionObserver
}

// NewRegistry creates a Registry. observer may be nil.
func NewRegistry(observer ActionObserver) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		observer: observer,
	}
}

// Begin registers a new session in the Requested state
func (r *Registry) Begin(key string) (*Session, error) {
	r.mu.Lock()
	if _, exists := r.sessions[key]; exists {
		r.mu.Unlock()
		return nil, ErrSessionActive
	}
	s := &Session{Key: key, Started: time.Now(), registry: r, state: Requested}
	r.sessions[key] = s
	r.mu.Unlock()

	if r.observer != nil {
		r.observer.ActionDisabled(key)
	}
	return s, nil
}

// Get returns the live session for key
func (r *Registry) Get(key string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[key]
	return s, ok
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Active returns the keys of live sessions in sorted order
func (r *Registry) Active() []string {
	r.mu.Lock()
	keys := make([]string, 0, len(r.sessions))
	for k := range r.sessions {
		keys = append(keys, k)
	}
	r.mu.Unlock()
	sort.Strings(keys)
	return keys
}

func (r *Registry) remove(s *Session) {
	r.mu.Lock()
	if cur, ok := r.sessions[s.Key]; ok && cur == s {
		delete(r.sessions, s.Key)
	}
	r.mu.Unlock()

	if r.observer != nil {
		r.observer.ActionEnabled(s.Key, s.State())
	}
}
