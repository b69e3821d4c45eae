package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	New     key.Binding
	Script  key.Binding
	Detail  key.Binding
	Copy    key.Binding
	Speak   key.Binding
	Dismiss key.Binding
	Help    key.Binding
	Quit    key.Binding
	Ack     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		New:     key.NewBinding(key.WithKeys("n", "enter"), key.WithHelp("n", "new entry")),
		Script:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "trad/simp")),
		Detail:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "details")),
		Copy:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		Speak:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "speak")),
		Dismiss: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss notice")),
		Help:    key.NewBinding(key.WithKeys("h", "?"), key.WithHelp("h", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Ack:     key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "ok")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Script, k.Detail, k.Speak, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.New, k.Script, k.Detail},
		{k.Copy, k.Speak, k.Dismiss},
		{k.Help, k.Quit},
	}
}
