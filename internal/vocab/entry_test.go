package vocab

import (
	"errors"
	"testing"
)

func TestEntryValidate(t *testing.T) {
	full := Entry{Traditional: "繁", Simplified: "简", Pinyin: "fán", Meaning: "complicated"}

	tests := []struct {
		name    string
		entry   Entry
		wantErr bool
	}{
		{"complete", full, false},
		{"missing traditional", Entry{Simplified: "简", Pinyin: "jiǎn", Meaning: "simple"}, true},
		{"missing simplified", Entry{Traditional: "繁", Pinyin: "fán", Meaning: "complicated"}, true},
		{"missing pinyin", Entry{Traditional: "繁", Simplified: "繁", Meaning: "complicated"}, true},
		{"missing meaning", Entry{Traditional: "繁", Simplified: "繁", Pinyin: "fán"}, true},
		{"zero value", Entry{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrIncompleteEntry) {
				t.Errorf("Expected ErrIncompleteEntry, got %v", err)
			}
		})
	}
}

func TestEntryCharacters(t *testing.T) {
	e := Entry{Traditional: "繁", Simplified: "简", Pinyin: "fán", Meaning: "complicated"}

	if got := e.Characters(Traditional); got != "繁" {
		t.Errorf("Characters(Traditional) = %s, want 繁", got)
	}
	if got := e.Characters(Simplified); got != "简" {
		t.Errorf("Characters(Simplified) = %s, want 简", got)
	}
}

func TestScriptToggle(t *testing.T) {
	if Traditional.Toggle() != Simplified {
		t.Error("Traditional.Toggle() should be Simplified")
	}
	if Simplified.Toggle().Toggle() != Simplified {
		t.Error("Toggle should be its own inverse")
	}
	if Traditional.String() != "TRADITIONAL" || Simplified.String() != "SIMPLIFIED" {
		t.Errorf("Unexpected labels %s/%s", Traditional, Simplified)
	}
}
