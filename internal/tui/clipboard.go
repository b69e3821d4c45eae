package tui

import (
	"io"
	"log/slog"
	"os"

	"github.com/aymanbagabas/go-osc52/v2"
)

// Clipboard copies text through the terminal with an OSC 52 escape
// sequence, which also works over SSH
type Clipboard struct {
	w io.Writer
}

// NewClipboard writes the escape sequences to w; nil uses stderr
func NewClipboard(w io.Writer) *Clipboard {
	if w == nil {
		w = os.Stderr
	}
	return &Clipboard{w: w}
}

// SetContent implements card.Clipboard
func (c *Clipboard) SetContent(content string) {
	seq := osc52.New(content)
	if os.Getenv("TMUX") != "" {
		seq = seq.Tmux()
	} else if term := os.Getenv("TERM"); len(term) >= 6 && term[:6] == "screen" {
		seq = seq.Screen()
	}
	if _, err := seq.WriteTo(c.w); err != nil {
		slog.Debug("Failed to write OSC 52 sequence", "error", err)
	}
}
