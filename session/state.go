// Package session tracks in-flight edit sessions and their lifecycle.
package session

import "fmt"

// State is the lifecycle position of an edit session
type State int

const (
	Requested State = iota
	EditorRunning
	Parsing
	Dispatching
	Complete
	Failed
)

func (s State) String() string {
	switch s {
	case Requested:
		return "requested"
	case EditorRunning:
		return "editor-running"
	case Parsing:
		return "parsing"
	case Dispatching:
		return "dispatching"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transitions are possible
func (s State) Terminal() bool {
	return s == Complete || s == Failed
}

var forward = map[State]State{
	Requested:     EditorRunning,
	EditorRunning: Parsing,
	Parsing:       Dispatching,
	Dispatching:   Complete,
}

// canTransition reports whether from -> to is a legal transition. Any
// live state may fail.
func canTransition(from, to State) bool {
	if from.Terminal() {
		return false
	}
	if to == Failed {
		return true
	}
	return forward[from] == to
}

// TransitionError reports an illegal state change
type TransitionError struct {
	Key  string
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("session %s: illegal transition %s -> %s", e.Key, e.From, e.To)
}
