package session

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu       sync.Mutex
	disabled map[string]int
	enabled  map[string]int
	finals   map[string]State
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{
		disabled: map[string]int{},
		enabled:  map[string]int{},
		finals:   map[string]State{},
	}
}

func (o *recordingObserver) ActionDisabled(key string) {
	o.mu.Lock()
	o.disabled[key]++
	o.mu.Unlock()
}

func (o *recordingObserver) ActionEnabled(key string, final State) {
	o.mu.Lock()
	o.enabled[key]++
	o.finals[key] = final
	o.mu.Unlock()
}

func TestLifecycleHappyPath(t *testing.T) {
	obs := newRecordingObserver()
	r := NewRegistry(obs)

	s, err := r.Begin("1")
	require.NoError(t, err)
	assert.Equal(t, Requested, s.State())
	assert.Equal(t, 1, obs.disabled["1"])

	for _, st := range []State{EditorRunning, Parsing, Dispatching} {
		require.NoError(t, s.Advance(st))
	}
	require.NoError(t, s.Complete())

	assert.Equal(t, Complete, s.State())
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 1, obs.enabled["1"])
	assert.Equal(t, Complete, obs.finals["1"])
}

func TestIllegalTransitions(t *testing.T) {
	r := NewRegistry(nil)
	s, err := r.Begin("k")
	require.NoError(t, err)

	err = s.Advance(Parsing)
	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, Requested, te.From)

	assert.Error(t, s.Complete())
	assert.Equal(t, 1, r.Len(), "a failed Complete must not release the session")

	s.Fail()
	assert.Equal(t, Failed, s.State())
	assert.Error(t, s.Advance(EditorRunning))
}

func TestOneActiveSessionPerKey(t *testing.T) {
	r := NewRegistry(nil)

	first, err := r.Begin("tab:1")
	require.NoError(t, err)

	_, err = r.Begin("tab:1")
	assert.ErrorIs(t, err, ErrSessionActive)

	other, err := r.Begin("tab:2")
	require.NoError(t, err)
	assert.Equal(t, []string{"tab:1", "tab:2"}, r.Active())

	first.Fail()
	again, err := r.Begin("tab:1")
	require.NoError(t, err)
	assert.NotSame(t, first, again)

	// A stale release must not remove the replacement entry
	first.Fail()
	got, ok := r.Get("tab:1")
	require.True(t, ok)
	assert.Same(t, again, got)

	other.Fail()
	again.Fail()
	assert.Equal(t, 0, r.Len())
}

func TestReleaseFiresEnableOnce(t *testing.T) {
	obs := newRecordingObserver()
	r := NewRegistry(obs)

	s, err := r.Begin("x")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Fail()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, obs.enabled["x"])
	assert.Equal(t, Failed, obs.finals["x"])
}

func TestSessionBookkeeping(t *testing.T) {
	r := NewRegistry(nil)
	s, err := r.Begin("b")
	require.NoError(t, err)

	s.SetTempPath("/tmp/x.eml")
	s.SetProgress(2, 3)
	s.AddNote("version check bypassed")

	assert.Equal(t, "/tmp/x.eml", s.TempPath())
	seq, total := s.Progress()
	assert.Equal(t, 2, seq)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"version check bypassed"}, s.Notes())
	assert.Empty(t, s.Warnings())
}
