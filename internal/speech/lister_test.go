package speech

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestListVoices(t *testing.T) {
	synth := &stubSynth{name: "stub", voices: []Voice{
		{ID: "en", Name: "English", Locale: "en"},
		{ID: "yue", Name: "Cantonese", Locale: "zh-HK"},
		{ID: "cmn", Name: "Mandarin", Locale: "zh-CN"},
	}}

	var buf bytes.Buffer
	if err := ListVoices(&buf, synth, time.Second); err != nil {
		t.Fatalf("ListVoices() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "* cmn (Mandarin)") {
		t.Errorf("Expected Mandarin voice marked, got:\n%s", out)
	}
	if !strings.Contains(out, "  yue (Cantonese)") {
		t.Errorf("Expected Cantonese voice unmarked, got:\n%s", out)
	}
	if strings.Index(out, "en:") > strings.Index(out, "zh-CN:") {
		t.Errorf("Expected locales sorted, got:\n%s", out)
	}
}

func TestListVoices_NoVoices(t *testing.T) {
	var buf bytes.Buffer
	if err := ListVoices(&buf, &stubSynth{name: "stub"}, 10*time.Millisecond); err != nil {
		t.Fatalf("ListVoices() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No voices reported") {
		t.Errorf("Unexpected output:\n%s", buf.String())
	}
}

func TestListVoices_Unavailable(t *testing.T) {
	err := ListVoices(&bytes.Buffer{}, &None{}, time.Second)
	if err == nil || !strings.Contains(err.Error(), "none") {
		t.Errorf("Expected unavailable error, got %v", err)
	}
}
