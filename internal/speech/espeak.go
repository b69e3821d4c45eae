package speech

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"os/exec"
	"strings"
	"time"
)

// ESpeakConfig holds configuration for the espeak-ng backend
type ESpeakConfig struct {
	Binary  string // executable name, default "espeak-ng"
	Voice   string // forced voice, e.g. "cmn"; empty uses the utterance voice
	BaseWPM int    // words per minute at rate 1.0 (default: 175)
	WordGap int    // gap between words in 10ms units (default: 0)
}

// DefaultESpeakConfig returns the default espeak-ng configuration
func DefaultESpeakConfig() *ESpeakConfig {
	return &ESpeakConfig{
		Binary:  "espeak-ng",
		BaseWPM: 175,
	}
}

// ESpeak speaks through the local espeak-ng engine, which plays audio itself
type ESpeak struct {
	config *ESpeakConfig
	voices voiceList
	run    runner

	// exec is replaceable for tests
	exec func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewESpeak creates an espeak-ng backend and starts loading its voice list
// in the background
func NewESpeak(config *ESpeakConfig) *ESpeak {
	if config == nil {
		config = DefaultESpeakConfig()
	}
	if config.Binary == "" {
		config.Binary = "espeak-ng"
	}
	if config.BaseWPM <= 0 {
		config.BaseWPM = 175
	}

	e := &ESpeak{
		config: config,
		exec:   runCommand,
	}
	go e.loadVoices()
	return e
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Name returns the backend name
func (e *ESpeak) Name() string {
	return "espeak-ng"
}

// IsAvailable checks that espeak-ng is installed
func (e *ESpeak) IsAvailable() error {
	if _, err := exec.LookPath(e.config.Binary); err != nil {
		return fmt.Errorf("%w: %s is not installed or not in PATH", ErrUnavailable, e.config.Binary)
	}
	return nil
}

// Voices returns the voices reported by espeak-ng
func (e *ESpeak) Voices() []Voice {
	return e.voices.get()
}

// OnVoicesChanged registers a voice list listener
func (e *ESpeak) OnVoicesChanged(fn func()) {
	e.voices.subscribe(fn)
}

// Speak speaks u through espeak-ng
func (e *ESpeak) Speak(u Utterance, done func(error)) {
	args := e.buildArgs(u)
	e.run.start(func(ctx context.Context) error {
		output, err := e.exec(ctx, e.config.Binary, args...)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, string(output))
		}
		return nil
	}, done)
}

// Cancel kills the running espeak-ng process
func (e *ESpeak) Cancel() {
	e.run.stop()
}

// buildArgs maps an utterance onto espeak-ng command line options
func (e *ESpeak) buildArgs(u Utterance) []string {
	voice := e.config.Voice
	if voice == "" && u.Voice != nil {
		voice = u.Voice.ID
	}
	if voice == "" {
		locale := u.Locale
		if locale == "" {
			locale = FallbackLocale
		}
		voice = baseLanguage(locale)
	}

	rate := u.Rate
	if rate <= 0 {
		rate = 1
	}
	wpm := clampInt(int(math.Round(float64(e.config.BaseWPM)*rate)), 80, 450)
	pitch := clampInt(int(math.Round(u.Pitch*50)), 0, 99)
	amplitude := clampInt(int(math.Round(u.Volume*100)), 0, 200)

	args := []string{
		"-v", voice,
		"-s", fmt.Sprintf("%d", wpm),
		"-p", fmt.Sprintf("%d", pitch),
		"-a", fmt.Sprintf("%d", amplitude),
	}
	if e.config.WordGap > 0 {
		args = append(args, "-g", fmt.Sprintf("%d", e.config.WordGap))
	}
	return append(args, "--", u.Text)
}

// loadVoices queries espeak-ng for its voice list. Failures leave the list
// empty; the fallback locale is used then.
func (e *ESpeak) loadVoices() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	output, err := e.exec(ctx, e.config.Binary, "--voices")
	if err != nil {
		return
	}
	e.voices.set(parseESpeakVoices(string(output)))
}

// parseESpeakVoices parses the table printed by "espeak-ng --voices":
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  cmn             --/M      Chinese_(Mandarin) sit/cmn              (zh-cmn 5)(zh 5)
func parseESpeakVoices(output string) []Voice {
	var voices []Voice
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 || fields[0] == "Pty" {
			continue
		}
		voices = append(voices, Voice{
			ID:     fields[1],
			Name:   strings.ReplaceAll(fields[3], "_", " "),
			Locale: CanonicalLocale(fields[1]),
		})
	}
	return voices
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
