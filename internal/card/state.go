package card

import (
	"codeberg.org/snonux/notecard/internal/speech"
	"codeberg.org/snonux/notecard/internal/vocab"
)

// CopyState tells whether the displayed characters have been copied
type CopyState int

const (
	CopyIdle CopyState = iota
	Copied
)

func (s CopyState) String() string {
	switch s {
	case CopyIdle:
		return "Idle"
	case Copied:
		return "Copied"
	default:
		return "Unknown"
	}
}

// SpeechState tells whether an utterance is playing
type SpeechState int

const (
	SpeechIdle SpeechState = iota
	Speaking
)

func (s SpeechState) String() string {
	switch s {
	case SpeechIdle:
		return "Idle"
	case Speaking:
		return "Speaking"
	default:
		return "Unknown"
	}
}

// ViewState is everything a front end needs to draw the card
type ViewState struct {
	Entry          *vocab.Entry // nil until the first successful fetch
	Script         vocab.Script
	DetailExpanded bool
	Copy           CopyState
	Speech         SpeechState
	Voice          *speech.Voice // resolved once per session
	NoticeVisible  bool
	Loading        bool
}

// Characters returns the headline for the current script, or "" without an
// entry
func (s ViewState) Characters() string {
	if s.Entry == nil {
		return ""
	}
	return s.Entry.Characters(s.Script)
}

// clone copies the pointed-to values so a snapshot never aliases controller
// state
func (s ViewState) clone() ViewState {
	if s.Entry != nil {
		e := *s.Entry
		s.Entry = &e
	}
	if s.Voice != nil {
		v := *s.Voice
		s.Voice = &v
	}
	return s
}
