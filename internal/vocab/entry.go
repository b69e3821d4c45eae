package vocab

import (
	"errors"
	"fmt"
)

// ErrIncompleteEntry is returned when a decoded entry has an empty field.
var ErrIncompleteEntry = errors.New("incomplete vocabulary entry")

// Script selects one of the two character-set renderings of an entry
type Script int

const (
	Traditional Script = iota
	Simplified
)

func (s Script) String() string {
	switch s {
	case Traditional:
		return "TRADITIONAL"
	case Simplified:
		return "SIMPLIFIED"
	default:
		return "UNKNOWN"
	}
}

// Toggle returns the other script
func (s Script) Toggle() Script {
	if s == Traditional {
		return Simplified
	}
	return Traditional
}

// Entry is one vocabulary record as returned by the service. Values are kept
// exactly as decoded.
type Entry struct {
	Traditional string `json:"traditional"`
	Simplified  string `json:"simplified"`
	Pinyin      string `json:"pinyin"`
	Meaning     string `json:"meaning"`
}

// Validate checks that all four fields are present
func (e Entry) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"traditional", e.Traditional},
		{"simplified", e.Simplified},
		{"pinyin", e.Pinyin},
		{"meaning", e.Meaning},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%w: %s is empty", ErrIncompleteEntry, f.name)
		}
	}
	return nil
}

// Characters returns the characters for the given script
func (e Entry) Characters(s Script) string {
	if s == Simplified {
		return e.Simplified
	}
	return e.Traditional
}
