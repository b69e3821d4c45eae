package speech

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
)

// GCPConfig holds configuration for the Google Cloud Text-to-Speech backend.
// Credentials come from Application Default Credentials.
type GCPConfig struct {
	LanguageCode string // language requested from the voice list, e.g. "cmn-CN"
	Voice        string // default voice name, empty lets the service pick
	CacheDir     string
	ListTimeout  time.Duration
}

// DefaultGCPConfig returns the default Cloud Text-to-Speech configuration
func DefaultGCPConfig() *GCPConfig {
	return &GCPConfig{
		LanguageCode: "cmn-CN",
		ListTimeout:  10 * time.Second,
	}
}

// ttsClient is the part of the Cloud Text-to-Speech client the backend uses
type ttsClient interface {
	ListVoices(ctx context.Context, req *texttospeechpb.ListVoicesRequest, opts ...gax.CallOption) (*texttospeechpb.ListVoicesResponse, error)
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
}

type gcpRenderer struct {
	client ttsClient
	config *GCPConfig
}

// NewGCP creates a speech backend using Google Cloud Text-to-Speech. The
// voice list is fetched in the background and announced via OnVoicesChanged.
func NewGCP(ctx context.Context, config *GCPConfig) (Synthesizer, error) {
	if config == nil {
		config = DefaultGCPConfig()
	}
	if config.LanguageCode == "" {
		config.LanguageCode = DefaultGCPConfig().LanguageCode
	}

	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloud Text-to-Speech client: %w", err)
	}

	s := newGCPSynthesizer(client, config)
	go s.loadGCPVoices(client, config)
	return s, nil
}

func newGCPSynthesizer(client ttsClient, config *GCPConfig) *fileSynthesizer {
	if lc := gcpVoiceLanguage(config.Voice); lc != "" {
		config.LanguageCode = lc
	}
	return newFileSynthesizer(&gcpRenderer{client: client, config: config}, config.CacheDir, nil)
}

func (s *fileSynthesizer) loadGCPVoices(client ttsClient, config *GCPConfig) {
	timeout := config.ListTimeout
	if timeout <= 0 {
		timeout = DefaultGCPConfig().ListTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.ListVoices(ctx, &texttospeechpb.ListVoicesRequest{LanguageCode: config.LanguageCode})
	if err != nil {
		slog.Warn("Failed to list Cloud Text-to-Speech voices", "error", err)
		return
	}
	// The configured voice comes first so the card view resolves to it
	s.voices.set(preferVoice(gcpVoices(resp), Voice{ID: config.Voice}))
}

// gcpVoiceLanguage returns the language code a voice name starts with,
// "cmn-TW" for "cmn-TW-Wavenet-A", or "" for names without one
func gcpVoiceLanguage(name string) string {
	parts := strings.SplitN(name, "-", 3)
	if len(parts) < 3 {
		return ""
	}
	return parts[0] + "-" + parts[1]
}

// gcpVoices converts the service voice list, reporting the first language
// code of every voice in canonical form ("cmn-CN" becomes "zh-CN")
func gcpVoices(resp *texttospeechpb.ListVoicesResponse) []Voice {
	voices := make([]Voice, 0, len(resp.GetVoices()))
	for _, v := range resp.GetVoices() {
		codes := v.GetLanguageCodes()
		if len(codes) == 0 {
			continue
		}
		voices = append(voices, Voice{
			ID:     v.GetName(),
			Name:   fmt.Sprintf("%s %s", v.GetName(), v.GetSsmlGender()),
			Locale: CanonicalLocale(codes[0]),
		})
	}
	return voices
}

func (r *gcpRenderer) name() string {
	return "gcp"
}

func (r *gcpRenderer) available() error {
	return nil
}

func (r *gcpRenderer) extension() string {
	return ".mp3"
}

func (r *gcpRenderer) cacheKey(u Utterance) string {
	voice, _ := utteranceVoice(u, r.config.Voice)
	return fmt.Sprintf("%s|%s|%.2f|%.2f", u.Text, voice, u.Rate, u.Pitch)
}

func (r *gcpRenderer) render(ctx context.Context, u Utterance, outputFile string) error {
	voice, _ := utteranceVoice(u, r.config.Voice)

	req := &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: u.Text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: r.config.LanguageCode,
			Name:         voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
			SpeakingRate:  gcpSpeakingRate(u.Rate),
			Pitch:         gcpPitch(u.Pitch),
		},
	}

	resp, err := r.client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return fmt.Errorf("Cloud Text-to-Speech API error: %w", err)
	}
	if len(resp.GetAudioContent()) == 0 {
		return fmt.Errorf("no audio data received from Cloud Text-to-Speech")
	}

	if err := os.WriteFile(outputFile, resp.GetAudioContent(), 0644); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return nil
}

// gcpSpeakingRate clamps to the 0.25 to 4.0 range the service accepts
func gcpSpeakingRate(rate float64) float64 {
	if rate == 0 {
		return 1.0
	}
	return min(max(rate, 0.25), 4.0)
}

// gcpPitch maps the 0..2 utterance pitch onto -20..20 semitones
func gcpPitch(pitch float64) float64 {
	if pitch == 0 {
		return 0
	}
	return min(max((pitch-1)*20, -20), 20)
}
