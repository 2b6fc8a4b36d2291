package synth

import "sync"

// Call records one synth invocation for test assertions.
type Call struct {
	Event string // "on", "off", "all_off"
	Note  string
}

// MockSynth records calls and can simulate failures.
type MockSynth struct {
	mu    sync.Mutex
	calls []Call
	err   error
}

func NewMockSynth() *MockSynth {
	return &MockSynth{}
}

// SetError makes every subsequent call return err.
func (s *MockSynth) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Calls returns a copy of the recorded calls in order.
func (s *MockSynth) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *MockSynth) record(event, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.calls = append(s.calls, Call{Event: event, Note: note})
	return nil
}

func (s *MockSynth) NoteOn(note string) error  { return s.record("on", note) }
func (s *MockSynth) NoteOff(note string) error { return s.record("off", note) }
func (s *MockSynth) AllOff() error             { return s.record("all_off", "") }
func (s *MockSynth) Close() error              { return nil }
