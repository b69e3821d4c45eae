package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Providers lists the backend names accepted by NewSynthesizer
var Providers = []string{"espeak", "openai", "gemini", "gcp", "none"}

// Config holds common configuration for speech backends
type Config struct {
	Provider string // "espeak", "openai", "gemini", "gcp" or "none"
	CacheDir string // directory for rendered audio of network backends
	Locale   string // locale used when no voice has been resolved

	// Fallback to espeak-ng when a network backend fails at runtime
	Fallback bool

	ESpeakVoice string

	OpenAIKey   string
	OpenAIModel string
	OpenAIVoice string

	GeminiKey   string
	GeminiModel string
	GeminiVoice string

	GCPVoice string
}

// DefaultConfig returns the default speech configuration
func DefaultConfig() *Config {
	return &Config{
		Provider: "espeak",
		Locale:   FallbackLocale,
		Fallback: true,
	}
}

// NewSynthesizer creates the backend selected by config.Provider
func NewSynthesizer(ctx context.Context, config *Config) (Synthesizer, error) {
	if config == nil {
		config = DefaultConfig()
	}
	locale := config.Locale
	if locale == "" {
		locale = FallbackLocale
	}

	var (
		primary Synthesizer
		err     error
	)
	switch config.Provider {
	case "", "espeak":
		esc := DefaultESpeakConfig()
		esc.Voice = config.ESpeakVoice
		return NewESpeak(esc), nil

	case "openai":
		primary, err = NewOpenAI(&OpenAIConfig{
			APIKey:      config.OpenAIKey,
			Model:       config.OpenAIModel,
			Voice:       config.OpenAIVoice,
			Instruction: defaultOpenAIInstruction,
			Locale:      locale,
			CacheDir:    config.CacheDir,
		})

	case "gemini":
		primary, err = NewGemini(ctx, &GeminiConfig{
			APIKey:   config.GeminiKey,
			Model:    config.GeminiModel,
			Voice:    config.GeminiVoice,
			Locale:   locale,
			CacheDir: config.CacheDir,
		})

	case "gcp":
		gc := DefaultGCPConfig()
		gc.Voice = config.GCPVoice
		gc.CacheDir = config.CacheDir
		primary, err = NewGCP(ctx, gc)

	case "none":
		return &None{}, nil

	default:
		return nil, fmt.Errorf("unknown speech provider: %s", config.Provider)
	}
	if err != nil {
		return nil, err
	}

	if config.Fallback {
		esc := DefaultESpeakConfig()
		esc.Voice = config.ESpeakVoice
		return NewWithFallback(primary, NewESpeak(esc)), nil
	}
	return primary, nil
}

// WithFallback speaks through a secondary backend when the primary fails
type WithFallback struct {
	primary  Synthesizer
	fallback Synthesizer

	mu     sync.Mutex
	active Synthesizer
}

// NewWithFallback creates a synthesizer that falls back to secondary if primary fails
func NewWithFallback(primary, fallback Synthesizer) *WithFallback {
	return &WithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

// Name returns the backend name
func (f *WithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", f.primary.Name(), f.fallback.Name())
}

// IsAvailable checks if at least one backend is available
func (f *WithFallback) IsAvailable() error {
	primaryErr := f.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}
	fallbackErr := f.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}
	return fmt.Errorf("%w: primary=%v, fallback=%v", ErrUnavailable, primaryErr, fallbackErr)
}

// Voices returns the primary voices. Voices are backend specific, so the
// fallback is always given the locale only.
func (f *WithFallback) Voices() []Voice {
	return f.primary.Voices()
}

func (f *WithFallback) OnVoicesChanged(fn func()) {
	f.primary.OnVoicesChanged(fn)
}

// Speak tries the primary backend first and retries once on the fallback
func (f *WithFallback) Speak(u Utterance, done func(error)) {
	if f.primary.IsAvailable() != nil {
		f.speakFallback(u, done)
		return
	}

	f.setActive(f.primary)
	f.primary.Speak(u, func(err error) {
		if err == nil || errors.Is(err, context.Canceled) || !f.isActive(f.primary) {
			if done != nil {
				done(err)
			}
			return
		}
		slog.Warn("Primary speech backend failed, falling back",
			"backend", f.primary.Name(), "fallback", f.fallback.Name(), "error", err)
		f.speakFallback(u, done)
	})
}

func (f *WithFallback) speakFallback(u Utterance, done func(error)) {
	f.setActive(f.fallback)
	u.Voice = nil
	f.fallback.Speak(u, done)
}

// Cancel stops both backends
func (f *WithFallback) Cancel() {
	f.setActive(nil)
	f.primary.Cancel()
	f.fallback.Cancel()
}

func (f *WithFallback) setActive(s Synthesizer) {
	f.mu.Lock()
	f.active = s
	f.mu.Unlock()
}

func (f *WithFallback) isActive(s Synthesizer) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active == s
}
