// Package tui implements a Bubble Tea terminal front end for the vocabulary
// card. It offers the same operations and hotkeys as the GUI; alerts are
// shown as a banner that has to be acknowledged before the card reacts to
// keys again.
package tui
