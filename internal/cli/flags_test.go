package cli

import (
	"reflect"
	"testing"
	"time"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"LogLevel", flags.LogLevel, "info"},
		{"ServiceTimeout", flags.ServiceTimeout, 10 * time.Second},
		{"SpeechProvider", flags.SpeechProvider, "espeak"},
		{"SpeechLocale", flags.SpeechLocale, "zh-CN"},
		{"OpenAIModel", flags.OpenAIModel, "gpt-4o-mini-tts"},
		{"OpenAIVoice", flags.OpenAIVoice, "nova"},
		{"GeminiModel", flags.GeminiModel, "gemini-2.5-flash-preview-tts"},
		{"GeminiVoice", flags.GeminiVoice, "Kore"},
		{"CopyReset", flags.CopyReset, time.Duration(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Test boolean defaults (should be false)
	boolTests := []struct {
		name  string
		value bool
	}{
		{"TUI", flags.TUI},
		{"Print", flags.Print},
		{"ListVoices", flags.ListVoices},
		{"NoFallback", flags.NoFallback},
		{"HideNotice", flags.HideNotice},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != false {
				t.Errorf("%s = %v, want false", tt.name, tt.value)
			}
		})
	}
}
