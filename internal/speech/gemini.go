package speech

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// GeminiVoices lists a subset of the prebuilt Gemini TTS voices
var GeminiVoices = []string{"Kore", "Puck", "Zephyr", "Charon", "Fenrir", "Leda", "Orus", "Aoede"}

// Gemini TTS returns raw 16 bit little endian mono PCM at 24kHz
const (
	geminiSampleRate = 24000
	geminiChannels   = 1
	geminiBitDepth   = 16
)

// GeminiConfig holds configuration for the Gemini backend
type GeminiConfig struct {
	APIKey   string
	Model    string
	Voice    string
	Locale   string
	CacheDir string
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *GeminiConfig {
	return &GeminiConfig{
		Model:  "gemini-2.5-flash-preview-tts",
		Voice:  "Kore",
		Locale: FallbackLocale,
	}
}

// contentGenerator is the part of the genai client the backend uses
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiRenderer struct {
	models contentGenerator
	config *GeminiConfig
}

// NewGemini creates a speech backend using Gemini native audio output
func NewGemini(ctx context.Context, config *GeminiConfig) (Synthesizer, error) {
	if config == nil {
		config = DefaultGeminiConfig()
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	defaults := DefaultGeminiConfig()
	if config.Model == "" {
		config.Model = defaults.Model
	}
	if config.Voice == "" {
		config.Voice = defaults.Voice
	}
	if config.Locale == "" {
		config.Locale = defaults.Locale
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return newGeminiSynthesizer(client.Models, config), nil
}

func newGeminiSynthesizer(models contentGenerator, config *GeminiConfig) *fileSynthesizer {
	s := newFileSynthesizer(&geminiRenderer{models: models, config: config}, config.CacheDir, nil)
	s.voices.set(namedVoices(GeminiVoices, config.Voice, config.Locale))
	return s
}

func (r *geminiRenderer) name() string {
	return "gemini"
}

func (r *geminiRenderer) available() error {
	if r.config.APIKey == "" {
		return fmt.Errorf("%w: Gemini API key not configured", ErrUnavailable)
	}
	return nil
}

func (r *geminiRenderer) extension() string {
	return ".wav"
}

func (r *geminiRenderer) cacheKey(u Utterance) string {
	voice, _ := utteranceVoice(u, r.config.Voice)
	return fmt.Sprintf("%s|%s|%s|%s", u.Text, r.config.Model, voice, geminiPace(u.Rate))
}

func (r *geminiRenderer) render(ctx context.Context, u Utterance, outputFile string) error {
	voice, _ := utteranceVoice(u, r.config.Voice)

	// Gemini has no speed parameter; pacing is requested in the prompt
	prompt := fmt.Sprintf("Say %s in Mandarin Chinese, nothing else: %s", geminiPace(u.Rate), u.Text)

	resp, err := r.models.GenerateContent(ctx, r.config.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("Gemini TTS API error: %w", err)
	}

	pcm := inlineAudio(resp)
	if len(pcm) == 0 {
		return fmt.Errorf("no audio data received from Gemini")
	}

	if err := os.WriteFile(outputFile, wavFile(pcm, geminiSampleRate, geminiChannels, geminiBitDepth), 0644); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return nil
}

// inlineAudio concatenates all inline audio parts of the first candidate
func inlineAudio(resp *genai.GenerateContentResponse) []byte {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	var pcm []byte
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil {
			pcm = append(pcm, part.InlineData.Data...)
		}
	}
	return pcm
}

func geminiPace(rate float64) string {
	switch {
	case rate > 0 && rate < 0.85:
		return "slowly and clearly"
	case rate > 1.15:
		return "quickly"
	default:
		return "clearly"
	}
}

// wavFile wraps raw PCM samples into a canonical RIFF/WAVE container
func wavFile(pcm []byte, sampleRate, channels, bitDepth int) []byte {
	blockAlign := channels * bitDepth / 8
	var buf bytes.Buffer

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitDepth))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}
