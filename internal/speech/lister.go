package speech

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// ListVoices waits up to timeout for synth to report its voices and prints
// them grouped by locale. The voice the card view would pick is marked.
func ListVoices(w io.Writer, synth Synthesizer, timeout time.Duration) error {
	if err := synth.IsAvailable(); err != nil {
		return fmt.Errorf("speech backend %s: %w", synth.Name(), err)
	}

	voices := waitForVoices(synth, timeout)
	fmt.Fprintf(w, "Voices of %s:\n", synth.Name())
	if len(voices) == 0 {
		fmt.Fprintln(w, "  No voices reported; the default voice for the locale is used")
		return nil
	}

	selected, ok := SelectVoice(voices)

	byLocale := make(map[string][]Voice)
	for _, v := range voices {
		byLocale[v.Locale] = append(byLocale[v.Locale], v)
	}
	locales := make([]string, 0, len(byLocale))
	for locale := range byLocale {
		locales = append(locales, locale)
	}
	sort.Strings(locales)

	for _, locale := range locales {
		fmt.Fprintf(w, "\n%s:\n", locale)
		for _, v := range byLocale[locale] {
			marker := " "
			if ok && v == selected {
				marker = "*"
			}
			name := v.Name
			if name == "" || strings.EqualFold(name, v.ID) {
				fmt.Fprintf(w, " %s %s\n", marker, v.ID)
			} else {
				fmt.Fprintf(w, " %s %s (%s)\n", marker, v.ID, name)
			}
		}
	}

	if ok {
		fmt.Fprintf(w, "\n* selected for Chinese: %s\n", selected)
	} else {
		fmt.Fprintf(w, "\nNo Chinese voice found; speaking with locale %s\n", FallbackLocale)
	}
	return nil
}

// waitForVoices returns the voice list as soon as it is non-empty
func waitForVoices(synth Synthesizer, timeout time.Duration) []Voice {
	changed := make(chan struct{}, 1)
	synth.OnVoicesChanged(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	deadline := time.After(timeout)
	for {
		if voices := synth.Voices(); len(voices) > 0 {
			return voices
		}
		select {
		case <-changed:
		case <-deadline:
			return synth.Voices()
		}
	}
}
