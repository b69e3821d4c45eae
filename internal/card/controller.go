package card

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"codeberg.org/snonux/notecard/internal/speech"
	"codeberg.org/snonux/notecard/internal/vocab"
)

// ServiceUnavailableMessage is shown while the circuit breaker to the
// vocabulary service is open
const ServiceUnavailableMessage = "vocabulary service unavailable, try again later"

// SpeechUnsupportedPrefix starts the alert shown when no speech backend works
const SpeechUnsupportedPrefix = "Speech synthesis is not supported"

// EntrySource provides random vocabulary entries
type EntrySource interface {
	Random(ctx context.Context) (vocab.Entry, error)
}

// Clipboard receives copied text. fyne.Clipboard satisfies it.
type Clipboard interface {
	SetContent(content string)
}

// View draws the card and shows blocking notifications
type View interface {
	Render(state ViewState)
	Alert(message string)
}

// Options configures a Controller
type Options struct {
	Source    EntrySource
	Speech    speech.Synthesizer
	Clipboard Clipboard
	View      View

	// Dispatch runs fn on the UI thread. Defaults to calling fn directly.
	Dispatch func(fn func())

	Logger *slog.Logger

	// NoticeVisible is the initial visibility of the notice banner
	NoticeVisible bool

	// CopyResetAfter reverts Copied to Idle after the given duration.
	// Zero keeps Copied until the next entry arrives.
	CopyResetAfter time.Duration

	// FallbackLocale is sent with utterances while no voice is resolved.
	// Empty means speech.FallbackLocale.
	FallbackLocale string
}

// DefaultOptions returns options with the notice banner shown
func DefaultOptions() Options {
	return Options{NoticeVisible: true}
}

// Controller owns the card view state. Operations are meant to be called
// from the UI thread; results of background work come back through
// Options.Dispatch.
type Controller struct {
	source    EntrySource
	speech    speech.Synthesizer
	clipboard Clipboard
	view      View
	dispatch  func(fn func())
	log       *slog.Logger
	copyReset time.Duration
	locale    string

	mu    sync.Mutex
	state ViewState

	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	fetchGen    uint64
	fetchCancel context.CancelFunc

	utterance uint64 // id of the utterance whose completion is awaited

	copyGen   uint64
	copyTimer *time.Timer

	wg sync.WaitGroup
}

// New creates a controller. Source, Speech, Clipboard and View are required.
func New(opts Options) *Controller {
	if opts.Dispatch == nil {
		opts.Dispatch = func(fn func()) { fn() }
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.FallbackLocale == "" {
		opts.FallbackLocale = speech.FallbackLocale
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		source:    opts.Source,
		speech:    opts.Speech,
		clipboard: opts.Clipboard,
		view:      opts.View,
		dispatch:  opts.Dispatch,
		log:       opts.Logger,
		copyReset: opts.CopyResetAfter,
		locale:    opts.FallbackLocale,
		state: ViewState{
			Script:        vocab.Traditional,
			NoticeVisible: opts.NoticeVisible,
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

// Mount resolves the speech voice, warms up the speech engine and fetches
// the first entry
func (c *Controller) Mount() {
	c.speech.OnVoicesChanged(func() {
		c.dispatch(c.resolveVoice)
	})
	c.resolveVoice()

	if err := c.speech.IsAvailable(); err == nil {
		c.speech.Speak(speech.Utterance{
			Text:   " ",
			Rate:   speech.DefaultRate,
			Pitch:  speech.DefaultPitch,
			Volume: 0,
			Locale: c.locale,
		}, nil)
	} else {
		c.log.Debug("Skipping speech warm-up", "backend", c.speech.Name(), "error", err)
	}

	c.render()
	c.RequestNewEntry()
}

// resolveVoice picks a Chinese voice once one becomes available
func (c *Controller) resolveVoice() {
	c.mu.Lock()
	if c.closed || c.state.Voice != nil {
		c.mu.Unlock()
		return
	}
	v, ok := speech.SelectVoice(c.speech.Voices())
	if !ok {
		c.mu.Unlock()
		return
	}
	c.state.Voice = &v
	c.mu.Unlock()

	c.log.Debug("Resolved speech voice", "voice", v.String())
	c.render()
}

// RequestNewEntry fetches a random entry in the background. A request that
// is still running is cancelled and its result discarded.
func (c *Controller) RequestNewEntry() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.fetchCancel != nil {
		c.fetchCancel()
	}
	c.fetchGen++
	gen := c.fetchGen
	ctx, cancel := context.WithCancel(c.ctx)
	c.fetchCancel = cancel
	c.state.Loading = true
	c.wg.Add(1)
	c.mu.Unlock()

	c.render()

	go func() {
		defer c.wg.Done()
		defer cancel()

		entry, err := c.source.Random(ctx)
		if ctx.Err() != nil {
			c.log.Debug("Dropping superseded fetch", "generation", gen)
			return
		}
		c.dispatch(func() {
			c.finishFetch(gen, entry, err)
		})
	}()
}

func (c *Controller) finishFetch(gen uint64, entry vocab.Entry, err error) {
	c.mu.Lock()
	if c.closed || gen != c.fetchGen {
		c.mu.Unlock()
		return
	}
	c.fetchCancel = nil
	c.state.Loading = false

	if err != nil {
		c.mu.Unlock()
		c.log.Debug("Fetch failed", "error", err)
		c.render()
		c.view.Alert(fetchAlert(err))
		return
	}

	c.state.Entry = &entry
	c.state.Copy = CopyIdle
	c.state.DetailExpanded = false
	c.stopCopyTimerLocked()
	c.mu.Unlock()

	c.log.Debug("Fetched entry", "traditional", entry.Traditional, "simplified", entry.Simplified)
	c.render()
}

// fetchAlert returns the text shown to the user for a failed fetch. Status
// errors show the bare status code.
func fetchAlert(err error) string {
	var se *vocab.StatusError
	switch {
	case errors.As(err, &se):
		return se.Error()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return ServiceUnavailableMessage
	default:
		return err.Error()
	}
}

// ToggleScript switches between traditional and simplified characters
func (c *Controller) ToggleScript() {
	c.mu.Lock()
	c.state.Script = c.state.Script.Toggle()
	c.mu.Unlock()
	c.render()
}

// ToggleDetail shows or hides pinyin, meaning and the card actions
func (c *Controller) ToggleDetail() {
	c.mu.Lock()
	c.state.DetailExpanded = !c.state.DetailExpanded
	c.mu.Unlock()
	c.render()
}

// CopyCharacters writes the displayed characters to the clipboard. The copy
// is assumed to succeed.
func (c *Controller) CopyCharacters() {
	c.mu.Lock()
	if c.closed || c.state.Entry == nil {
		c.mu.Unlock()
		return
	}
	text := c.state.Characters()
	c.state.Copy = Copied

	if c.copyReset > 0 {
		c.stopCopyTimerLocked()
		c.copyGen++
		gen := c.copyGen
		c.copyTimer = time.AfterFunc(c.copyReset, func() {
			c.dispatch(func() { c.resetCopy(gen) })
		})
	}
	c.mu.Unlock()

	c.clipboard.SetContent(text)
	c.render()
}

func (c *Controller) resetCopy(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.copyGen || c.state.Copy != Copied {
		c.mu.Unlock()
		return
	}
	c.state.Copy = CopyIdle
	c.copyTimer = nil
	c.mu.Unlock()
	c.render()
}

func (c *Controller) stopCopyTimerLocked() {
	if c.copyTimer != nil {
		c.copyTimer.Stop()
		c.copyTimer = nil
	}
	c.copyGen++
}

// Speak pronounces the displayed characters. It does nothing while an
// utterance is playing or before the first entry arrived.
func (c *Controller) Speak() {
	c.mu.Lock()
	if c.closed || c.state.Entry == nil || c.state.Speech == Speaking {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	if err := c.speech.IsAvailable(); err != nil {
		c.log.Warn("Speech unavailable", "backend", c.speech.Name(), "error", err)
		c.view.Alert(SpeechUnsupportedPrefix + ": " + err.Error())
		return
	}
	c.speech.Cancel()

	c.mu.Lock()
	u := speech.Utterance{
		Text:   c.state.Characters(),
		Rate:   speech.DefaultRate,
		Pitch:  speech.DefaultPitch,
		Volume: speech.DefaultVolume,
		Locale: c.locale,
	}
	if c.state.Voice != nil {
		v := *c.state.Voice
		u.Voice = &v
		u.Locale = v.Locale
	}
	c.utterance++
	id := c.utterance
	c.state.Speech = Speaking
	c.mu.Unlock()

	c.render()

	c.speech.Speak(u, func(err error) {
		c.dispatch(func() { c.finishSpeech(id, err) })
	})
}

func (c *Controller) finishSpeech(id uint64, err error) {
	if err != nil && !errors.Is(err, context.Canceled) {
		c.log.Warn("Speech failed", "backend", c.speech.Name(), "error", err)
	}

	c.mu.Lock()
	if c.closed || id != c.utterance || c.state.Speech != Speaking {
		c.mu.Unlock()
		return
	}
	c.state.Speech = SpeechIdle
	c.mu.Unlock()
	c.render()
}

// DismissNotice hides the notice banner
func (c *Controller) DismissNotice() {
	c.mu.Lock()
	changed := c.state.NoticeVisible
	c.state.NoticeVisible = false
	c.mu.Unlock()
	if changed {
		c.render()
	}
}

// State returns a snapshot of the view state
func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

func (c *Controller) render() {
	c.view.Render(c.State())
}

// Close cancels the running fetch and utterance and waits for background
// work to finish. The controller ignores all operations afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopCopyTimerLocked()
	c.mu.Unlock()

	c.cancel()
	c.speech.Cancel()
	c.wg.Wait()
}
