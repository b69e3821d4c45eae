package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile  string
	LogLevel string

	// Modes
	TUI        bool
	Print      bool
	ListVoices bool

	// Vocabulary service
	ServiceURL     string
	ServiceTimeout time.Duration

	// Speech
	SpeechProvider string
	SpeechLocale   string
	NoFallback     bool
	CacheDir       string
	ESpeakVoice    string
	OpenAIModel    string
	OpenAIVoice    string
	GeminiModel    string
	GeminiVoice    string
	GCPVoice       string

	// UI
	HideNotice bool
	CopyReset  time.Duration
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogLevel:       "info",
		ServiceTimeout: 10 * time.Second,
		SpeechProvider: "espeak",
		SpeechLocale:   "zh-CN",
		OpenAIModel:    "gpt-4o-mini-tts",
		OpenAIVoice:    "nova",
		GeminiModel:    "gemini-2.5-flash-preview-tts",
		GeminiVoice:    "Kore",
	}
}
