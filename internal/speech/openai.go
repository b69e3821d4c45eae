package speech

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIVoices lists the voices offered by the OpenAI speech endpoint. They
// are multilingual, so each is reported under the configured locale.
var OpenAIVoices = []string{"alloy", "ash", "ballad", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer", "verse"}

const defaultOpenAIInstruction = "You are speaking Mandarin Chinese (普通话). Pronounce the characters with standard Beijing tones, " +
	"clearly and slowly for language learners. Do not translate or add anything."

// OpenAIConfig holds configuration for the OpenAI backend
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string // optional, for proxies and tests
	Model       string // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	Voice       string // default voice when the utterance has none
	Instruction string // voice instructions for gpt-4o-mini-tts
	Locale      string // locale the voices are reported under
	CacheDir    string
}

// DefaultOpenAIConfig returns the default OpenAI configuration
func DefaultOpenAIConfig() *OpenAIConfig {
	return &OpenAIConfig{
		Model:       "gpt-4o-mini-tts",
		Voice:       "nova",
		Instruction: defaultOpenAIInstruction,
		Locale:      FallbackLocale,
	}
}

type openAIRenderer struct {
	client *openai.Client
	config *OpenAIConfig
}

// NewOpenAI creates a speech backend using OpenAI text-to-speech
func NewOpenAI(config *OpenAIConfig) (Synthesizer, error) {
	if config == nil {
		config = DefaultOpenAIConfig()
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	defaults := DefaultOpenAIConfig()
	if config.Model == "" {
		config.Model = defaults.Model
	}
	if config.Voice == "" {
		config.Voice = defaults.Voice
	}
	if config.Locale == "" {
		config.Locale = defaults.Locale
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	r := &openAIRenderer{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}
	s := newFileSynthesizer(r, config.CacheDir, nil)

	s.voices.set(namedVoices(OpenAIVoices, config.Voice, config.Locale))

	return s, nil
}

func (r *openAIRenderer) name() string {
	return "openai"
}

// available only checks for a key; a test call would use credits
func (r *openAIRenderer) available() error {
	if r.config.APIKey == "" {
		return fmt.Errorf("%w: OpenAI API key not configured", ErrUnavailable)
	}
	return nil
}

func (r *openAIRenderer) extension() string {
	return ".mp3"
}

func (r *openAIRenderer) supportsInstructions() bool {
	return r.config.Instruction != "" &&
		(r.config.Model == "gpt-4o-mini-tts" || r.config.Model == "gpt-4o-mini-audio-preview")
}

func (r *openAIRenderer) cacheKey(u Utterance) string {
	voice, _ := utteranceVoice(u, r.config.Voice)
	key := fmt.Sprintf("%s|%s|%s|%.2f", u.Text, r.config.Model, voice, openAISpeed(u.Rate))
	if r.supportsInstructions() {
		key += "|" + r.config.Instruction
	}
	return key
}

func (r *openAIRenderer) render(ctx context.Context, u Utterance, outputFile string) error {
	voice, _ := utteranceVoice(u, r.config.Voice)

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(r.config.Model),
		Input:          strings.TrimSpace(u.Text),
		Voice:          openai.SpeechVoice(voice),
		Speed:          openAISpeed(u.Rate),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	}
	if r.supportsInstructions() {
		req.Instructions = r.config.Instruction
	}

	response, err := r.client.CreateSpeech(ctx, req)
	if err != nil {
		if strings.Contains(err.Error(), "does not have access to model") && r.supportsInstructions() {
			return fmt.Errorf("OpenAI TTS API error: %w\nNote: The %s model requires access. Try speech.openai_model tts-1-hd instead", err, r.config.Model)
		}
		return fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer response.Close()

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	written, err := io.Copy(out, response)
	if err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if written == 0 {
		return fmt.Errorf("no audio data received from OpenAI")
	}
	return nil
}

// openAISpeed clamps a rate into the 0.25 to 4.0 range the API accepts
func openAISpeed(rate float64) float64 {
	switch {
	case rate <= 0:
		return 1.0
	case rate < 0.25:
		return 0.25
	case rate > 4.0:
		return 4.0
	default:
		return rate
	}
}
