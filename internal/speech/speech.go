package speech

import (
	"context"
	"errors"
	"sync"
)

// ErrUnavailable is returned by IsAvailable when no speech backend can be used
var ErrUnavailable = errors.New("speech synthesis unavailable")

const (
	// DefaultRate is the speaking rate used for vocabulary: slow enough for
	// learners to follow the tones.
	DefaultRate = 0.6
	// DefaultPitch leaves the voice pitch untouched
	DefaultPitch = 1.0
	// DefaultVolume is full volume
	DefaultVolume = 1.0
)

// Voice is an opaque handle to one available voice
type Voice struct {
	ID     string // backend specific identifier
	Name   string // human readable name
	Locale string // BCP 47 tag, e.g. "zh-CN"
}

func (v Voice) String() string {
	if v.Name == "" {
		return v.ID + " (" + v.Locale + ")"
	}
	return v.Name + " (" + v.Locale + ")"
}

// Utterance is one piece of text to speak
type Utterance struct {
	Text   string
	Rate   float64 // 1.0 is normal speed
	Pitch  float64 // 0 to 2, 1.0 is normal
	Volume float64 // 0 to 1
	Voice  *Voice  // nil lets the backend pick a voice for Locale
	Locale string
}

// IsWarmUp reports whether u is a silent utterance used to wake an engine up
func (u Utterance) IsWarmUp() bool {
	return u.Volume == 0
}

// Synthesizer is the speech subsystem consumed by the card controller
type Synthesizer interface {
	// Name returns the backend name
	Name() string

	// IsAvailable checks whether speech can be used at all
	IsAvailable() error

	// Voices returns the currently known voices. The list may be empty until
	// the backend has finished loading it.
	Voices() []Voice

	// OnVoicesChanged registers fn to be called whenever the voice list changes
	OnVoicesChanged(fn func())

	// Speak submits u and returns immediately. done, if not nil, is called
	// exactly once from another goroutine when playback ends or fails.
	Speak(u Utterance, done func(error))

	// Cancel stops the current utterance, if any
	Cancel()
}

// voiceList holds a voice list and its change listeners
type voiceList struct {
	mu        sync.Mutex
	voices    []Voice
	listeners []func()
}

func (l *voiceList) get() []Voice {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Voice, len(l.voices))
	copy(out, l.voices)
	return out
}

func (l *voiceList) set(voices []Voice) {
	l.mu.Lock()
	l.voices = append([]Voice(nil), voices...)
	listeners := append([]func(){}, l.listeners...)
	l.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

func (l *voiceList) subscribe(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.listeners = append(l.listeners, fn)
	l.mu.Unlock()
}

// runner executes one utterance at a time in the background. Starting a new
// one interrupts the previous one.
type runner struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func (r *runner) start(fn func(ctx context.Context) error, done func(error)) {
	ctx, cancel := context.WithCancel(context.Background())

	r.mu.Lock()
	prev := r.cancel
	r.cancel = cancel
	r.mu.Unlock()
	if prev != nil {
		prev()
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()
		err := fn(ctx)
		if done != nil {
			done(err)
		}
	}()
}

func (r *runner) stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// wait blocks until all started utterances have finished
func (r *runner) wait() {
	r.wg.Wait()
}

// complete calls done asynchronously, like a real engine would
func complete(done func(error), err error) {
	if done == nil {
		return
	}
	go done(err)
}
