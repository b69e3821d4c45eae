package speech

import (
	"strings"
	"testing"
)

func TestSelectVoice(t *testing.T) {
	tests := []struct {
		name   string
		voices []Voice
		wantID string
		wantOK bool
	}{
		{
			name:   "empty list",
			voices: nil,
			wantOK: false,
		},
		{
			name: "exact zh-CN preferred over earlier zh",
			voices: []Voice{
				{ID: "en", Locale: "en-US"},
				{ID: "tw", Locale: "zh-TW"},
				{ID: "cn", Locale: "zh-CN"},
			},
			wantID: "cn",
			wantOK: true,
		},
		{
			name: "first zh prefix when no exact match",
			voices: []Voice{
				{ID: "de", Locale: "de-DE"},
				{ID: "hk", Locale: "zh-HK"},
				{ID: "tw", Locale: "zh-TW"},
			},
			wantID: "hk",
			wantOK: true,
		},
		{
			name: "underscore and case are tolerated",
			voices: []Voice{
				{ID: "tw", Locale: "zh_TW"},
				{ID: "cn", Locale: "ZH_cn"},
			},
			wantID: "cn",
			wantOK: true,
		},
		{
			name: "no chinese voice",
			voices: []Voice{
				{ID: "en", Locale: "en-GB"},
				{ID: "ja", Locale: "ja-JP"},
			},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectVoice(tt.voices)
			if ok != tt.wantOK {
				t.Fatalf("SelectVoice() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.ID != tt.wantID {
				t.Errorf("SelectVoice() = %s, want %s", got.ID, tt.wantID)
			}
		})
	}
}

func TestSelectVoice_Idempotent(t *testing.T) {
	voices := []Voice{
		{ID: "a", Locale: "zh-TW"},
		{ID: "b", Locale: "zh-CN"},
		{ID: "c", Locale: "zh-CN"},
	}

	first, ok1 := SelectVoice(voices)
	second, ok2 := SelectVoice(voices)
	if ok1 != ok2 || first != second {
		t.Errorf("SelectVoice not idempotent: %v/%v vs %v/%v", first, ok1, second, ok2)
	}
	if first.ID != "b" {
		t.Errorf("Expected first exact match, got %s", first.ID)
	}
}

func TestCanonicalLocale(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"cmn", "zh"},
		{"cmn-CN", "zh-CN"},
		{"cmn_CN", "zh-CN"},
		{"zh-CN", "zh-CN"},
		{"en-US", "en-US"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CanonicalLocale(tt.in); got != tt.want {
			t.Errorf("CanonicalLocale(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBaseLanguage(t *testing.T) {
	if got := baseLanguage("zh-CN"); got != "zh" {
		t.Errorf("baseLanguage(zh-CN) = %s, want zh", got)
	}
	if got := baseLanguage("cmn"); got != "zh" {
		t.Errorf("baseLanguage(cmn) = %s, want zh", got)
	}
}

func TestPreferVoice(t *testing.T) {
	voices := []Voice{
		{ID: "a", Locale: "zh-CN"},
		{ID: "b", Locale: "zh-CN"},
		{ID: "c", Locale: "zh-CN"},
	}

	tests := []struct {
		name      string
		preferred Voice
		want      string
	}{
		{"listed", Voice{ID: "c"}, "c,a,b"},
		{"empty", Voice{}, "a,b,c"},
		{"unlisted without locale", Voice{ID: "x"}, "a,b,c"},
		{"unlisted with locale", Voice{ID: "x", Locale: "zh-CN"}, "x,a,b,c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			for _, v := range preferVoice(voices, tt.preferred) {
				ids = append(ids, v.ID)
			}
			if got := strings.Join(ids, ","); got != tt.want {
				t.Errorf("preferVoice() = %s, want %s", got, tt.want)
			}
		})
	}

	if voices[0].ID != "a" {
		t.Error("preferVoice must not modify its input")
	}
}

func TestNamedVoicesConfiguredFirst(t *testing.T) {
	voices := namedVoices([]string{"alloy", "nova", "shimmer"}, "shimmer", "zh-CN")
	if v, ok := SelectVoice(voices); !ok || v.ID != "shimmer" {
		t.Errorf("Expected shimmer selected, got %+v", v)
	}
	if len(voices) != 3 {
		t.Errorf("Expected 3 voices, got %d", len(voices))
	}
}
