package testutil

import (
	"context"
	"sync"

	"codeberg.org/snonux/notecard/internal/card"
	"codeberg.org/snonux/notecard/internal/speech"
	"codeberg.org/snonux/notecard/internal/vocab"
)

// MockResult is one canned answer of MockSource
type MockResult struct {
	Entry vocab.Entry
	Err   error

	// Release, if set, blocks the answer until closed or the request is
	// cancelled
	Release chan struct{}
}

// MockSource answers Random calls from a queue of results. When the queue is
// exhausted the last result is repeated.
type MockSource struct {
	mu      sync.Mutex
	Results []MockResult
	Calls   int
}

// NewMockSource creates a source answering with results in order
func NewMockSource(results ...MockResult) *MockSource {
	return &MockSource{Results: results}
}

// Random returns the next canned result
func (m *MockSource) Random(ctx context.Context) (vocab.Entry, error) {
	m.mu.Lock()
	idx := m.Calls
	m.Calls++
	if idx >= len(m.Results) {
		idx = len(m.Results) - 1
	}
	var res MockResult
	if idx >= 0 {
		res = m.Results[idx]
	}
	m.mu.Unlock()

	if res.Release != nil {
		select {
		case <-res.Release:
		case <-ctx.Done():
			return vocab.Entry{}, ctx.Err()
		}
	}
	return res.Entry, res.Err
}

// CallCount returns the number of Random calls
func (m *MockSource) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// MockSynthesizer records utterances. Completions are held back until
// Finish is called, unless AutoComplete is set.
type MockSynthesizer struct {
	mu           sync.Mutex
	AvailableErr error
	AutoComplete bool
	voices       []speech.Voice
	listeners    []func()
	Spoken       []speech.Utterance
	pending      []func(error)
	Cancels      int
}

// Name returns "mock"
func (m *MockSynthesizer) Name() string {
	return "mock"
}

// IsAvailable returns AvailableErr
func (m *MockSynthesizer) IsAvailable() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.AvailableErr
}

// Voices returns the current voice list
func (m *MockSynthesizer) Voices() []speech.Voice {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]speech.Voice(nil), m.voices...)
}

// OnVoicesChanged registers a listener
func (m *MockSynthesizer) OnVoicesChanged(fn func()) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// SetVoices replaces the voice list and notifies listeners
func (m *MockSynthesizer) SetVoices(voices ...speech.Voice) {
	m.mu.Lock()
	m.voices = voices
	listeners := append([]func(){}, m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Speak records u
func (m *MockSynthesizer) Speak(u speech.Utterance, done func(error)) {
	m.mu.Lock()
	m.Spoken = append(m.Spoken, u)
	auto := m.AutoComplete
	if !auto && done != nil {
		m.pending = append(m.pending, done)
	}
	m.mu.Unlock()

	if auto && done != nil {
		done(nil)
	}
}

// Cancel counts cancellations
func (m *MockSynthesizer) Cancel() {
	m.mu.Lock()
	m.Cancels++
	m.mu.Unlock()
}

// Utterances returns a copy of everything spoken so far
func (m *MockSynthesizer) Utterances() []speech.Utterance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]speech.Utterance(nil), m.Spoken...)
}

// Finish completes the oldest pending utterance with err. It reports false
// when nothing is pending.
func (m *MockSynthesizer) Finish(err error) bool {
	m.mu.Lock()
	if len(m.pending) == 0 {
		m.mu.Unlock()
		return false
	}
	done := m.pending[0]
	m.pending = m.pending[1:]
	m.mu.Unlock()

	done(err)
	return true
}

// MockClipboard records clipboard writes
type MockClipboard struct {
	mu     sync.Mutex
	Writes []string
}

// SetContent records content
func (m *MockClipboard) SetContent(content string) {
	m.mu.Lock()
	m.Writes = append(m.Writes, content)
	m.mu.Unlock()
}

// Content returns the last written text
func (m *MockClipboard) Content() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Writes) == 0 {
		return ""
	}
	return m.Writes[len(m.Writes)-1]
}

// RecordingView remembers every render and alert
type RecordingView struct {
	mu      sync.Mutex
	renders []card.ViewState
	alerts  []string
	changed chan struct{}
}

// NewRecordingView creates an empty view
func NewRecordingView() *RecordingView {
	return &RecordingView{changed: make(chan struct{}, 1)}
}

// Render records state
func (v *RecordingView) Render(state card.ViewState) {
	v.mu.Lock()
	v.renders = append(v.renders, state)
	v.mu.Unlock()
	v.notify()
}

// Alert records message
func (v *RecordingView) Alert(message string) {
	v.mu.Lock()
	v.alerts = append(v.alerts, message)
	v.mu.Unlock()
	v.notify()
}

func (v *RecordingView) notify() {
	select {
	case v.changed <- struct{}{}:
	default:
	}
}

// Last returns the most recently rendered state
func (v *RecordingView) Last() (card.ViewState, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.renders) == 0 {
		return card.ViewState{}, false
	}
	return v.renders[len(v.renders)-1], true
}

// RenderCount returns the number of renders
func (v *RecordingView) RenderCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.renders)
}

// Alerts returns all alerts shown so far
func (v *RecordingView) Alerts() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.alerts...)
}
