package speech

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func TestNewOpenAI_RequiresKey(t *testing.T) {
	_, err := NewOpenAI(&OpenAIConfig{})
	if err == nil || err.Error() != "OpenAI API key is required" {
		t.Errorf("Expected missing key error, got %v", err)
	}
}

func TestNewOpenAI_Defaults(t *testing.T) {
	s, err := NewOpenAI(&OpenAIConfig{APIKey: "test-key", CacheDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewOpenAI() error = %v", err)
	}
	if s.Name() != "openai" {
		t.Errorf("Expected name openai, got %s", s.Name())
	}

	voices := s.Voices()
	if len(voices) != len(OpenAIVoices) {
		t.Fatalf("Expected %d voices, got %d", len(OpenAIVoices), len(voices))
	}
	v, ok := SelectVoice(voices)
	if !ok || v.ID != "nova" || v.Locale != "zh-CN" {
		t.Errorf("Expected configured default voice under zh-CN, got %+v", v)
	}
}

func TestOpenAISpeed(t *testing.T) {
	tests := []struct {
		rate float64
		want float64
	}{
		{0, 1.0},
		{0.1, 0.25},
		{0.6, 0.6},
		{9, 4.0},
	}
	for _, tt := range tests {
		if got := openAISpeed(tt.rate); got != tt.want {
			t.Errorf("openAISpeed(%v) = %v, want %v", tt.rate, got, tt.want)
		}
	}
}

func TestOpenAICacheKeyDependsOnSettings(t *testing.T) {
	r := &openAIRenderer{config: DefaultOpenAIConfig()}
	u := Utterance{Text: "你好", Rate: DefaultRate}

	base := r.cacheKey(u)
	if base != r.cacheKey(u) {
		t.Error("cacheKey must be stable")
	}
	if base == r.cacheKey(Utterance{Text: "你好", Rate: 1}) {
		t.Error("cacheKey must depend on rate")
	}
	if base == r.cacheKey(Utterance{Text: "你好", Rate: DefaultRate, Voice: &Voice{ID: "onyx"}}) {
		t.Error("cacheKey must depend on voice")
	}
}

func TestOpenAISpeak(t *testing.T) {
	var got struct {
		Model        string  `json:"model"`
		Input        string  `json:"input"`
		Voice        string  `json:"voice"`
		Speed        float64 `json:"speed"`
		Instructions string  `json:"instructions"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/audio/speech") {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte{0xFF, 0xFB, 0x90, 0x00})
	}))
	defer srv.Close()

	s, err := NewOpenAI(&OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL + "/v1", CacheDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewOpenAI() error = %v", err)
	}
	fs := s.(*fileSynthesizer)
	player := &fakePlayer{}
	fs.player = player

	if err := speakAndWait(t, s, Utterance{Text: "你好", Rate: DefaultRate, Pitch: 1, Volume: 1, Voice: &Voice{ID: "shimmer"}}); err != nil {
		t.Fatalf("Speak() error = %v", err)
	}

	if got.Input != "你好" || got.Voice != "shimmer" || got.Model != "gpt-4o-mini-tts" {
		t.Errorf("Unexpected request: %+v", got)
	}
	if got.Speed != DefaultRate {
		t.Errorf("Expected speed %v, got %v", DefaultRate, got.Speed)
	}
	if got.Instructions == "" {
		t.Error("Expected voice instructions for gpt-4o-mini-tts")
	}

	if len(player.files) != 1 {
		t.Fatalf("Expected one playback, got %v", player.files)
	}
	data, _ := os.ReadFile(player.files[0])
	if len(data) != 4 {
		t.Errorf("Expected 4 bytes of audio, got %d", len(data))
	}
}

func TestOpenAIConfiguredVoiceIsSelected(t *testing.T) {
	var got struct {
		Voice string `json:"voice"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		w.Write([]byte{0xFF, 0xFB, 0x90, 0x00})
	}))
	defer srv.Close()

	s, err := NewOpenAI(&OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL + "/v1", Voice: "shimmer", CacheDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewOpenAI() error = %v", err)
	}
	s.(*fileSynthesizer).player = &fakePlayer{}

	// The card view binds the selected voice to every utterance
	v, ok := SelectVoice(s.Voices())
	if !ok || v.ID != "shimmer" {
		t.Fatalf("Expected configured voice to be selected, got %+v", v)
	}
	if err := speakAndWait(t, s, Utterance{Text: "你好", Rate: DefaultRate, Volume: 1, Voice: &v}); err != nil {
		t.Fatalf("Speak() error = %v", err)
	}
	if got.Voice != "shimmer" {
		t.Errorf("Expected shimmer in request, got %q", got.Voice)
	}
}
