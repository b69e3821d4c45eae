package speech

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"codeberg.org/snonux/notecard/internal"
)

// renderer turns an utterance into an audio file. Network backends implement
// it and get caching, playback and cancellation from fileSynthesizer.
type renderer interface {
	name() string
	available() error
	extension() string
	cacheKey(u Utterance) string
	render(ctx context.Context, u Utterance, outputFile string) error
}

// audioPlayer plays a rendered file, blocking until done
type audioPlayer interface {
	Play(ctx context.Context, file string) error
}

// fileSynthesizer renders utterances to cached audio files and plays them
type fileSynthesizer struct {
	r        renderer
	cacheDir string
	player   audioPlayer
	voices   voiceList
	run      runner
}

func newFileSynthesizer(r renderer, cacheDir string, player audioPlayer) *fileSynthesizer {
	if player == nil {
		player = NewPlayer()
	}
	if cacheDir == "" {
		cacheDir = DefaultCacheDir()
	}
	return &fileSynthesizer{
		r:        r,
		cacheDir: cacheDir,
		player:   player,
	}
}

// DefaultCacheDir returns the directory synthesized audio is cached in
func DefaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "notecard", "audio")
	}
	return filepath.Join(os.TempDir(), "notecard-audio")
}

func (s *fileSynthesizer) Name() string {
	return s.r.name()
}

func (s *fileSynthesizer) IsAvailable() error {
	if err := s.r.available(); err != nil {
		return err
	}
	if p, ok := s.player.(interface{ CanPlay(ext string) error }); ok {
		if err := p.CanPlay(s.r.extension()); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return nil
}

func (s *fileSynthesizer) Voices() []Voice {
	return s.voices.get()
}

func (s *fileSynthesizer) OnVoicesChanged(fn func()) {
	s.voices.subscribe(fn)
}

// Speak renders u (or reuses the cached rendering) and plays it. Silent
// warm-up utterances complete immediately; there is no engine to wake up
// and they would only cost an API call.
func (s *fileSynthesizer) Speak(u Utterance, done func(error)) {
	if u.IsWarmUp() {
		complete(done, nil)
		return
	}

	s.run.start(func(ctx context.Context) error {
		file, err := s.audioFile(ctx, u)
		if err != nil {
			return err
		}
		return s.player.Play(ctx, file)
	}, done)
}

func (s *fileSynthesizer) Cancel() {
	s.run.stop()
}

// audioFile returns the cached rendering of u, rendering it first if needed
func (s *fileSynthesizer) audioFile(ctx context.Context, u Utterance) (string, error) {
	cacheFile := s.cacheFilePath(u)
	if info, err := os.Stat(cacheFile); err == nil && info.Size() > 0 {
		return cacheFile, nil
	}

	if err := os.MkdirAll(filepath.Dir(cacheFile), 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Render into a temp file so a cancelled request never leaves a
	// truncated file in the cache
	tmp := cacheFile + ".part"
	if err := s.r.render(ctx, u, tmp); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, cacheFile); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to store audio in cache: %w", err)
	}
	return cacheFile, nil
}

// cacheFilePath uses the first 2 hash chars as subdirectory
func (s *fileSynthesizer) cacheFilePath(u Utterance) string {
	hash := internal.HashKey(s.r.name(), s.r.cacheKey(u))
	return filepath.Join(s.cacheDir, hash[:2], hash[2:]+s.r.extension())
}

// ClearCache removes all cached audio files
func (s *fileSynthesizer) ClearCache() error {
	return os.RemoveAll(s.cacheDir)
}

// utteranceVoice returns the voice ID to use and the locale to request
func utteranceVoice(u Utterance, defaultVoice string) (string, string) {
	locale := u.Locale
	if u.Voice != nil {
		if u.Voice.Locale != "" {
			locale = u.Voice.Locale
		}
		if u.Voice.ID != "" {
			defaultVoice = u.Voice.ID
		}
	}
	if locale == "" {
		locale = FallbackLocale
	}
	return defaultVoice, locale
}
