package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"codeberg.org/snonux/notecard/internal/card"
)

// Controller is the part of card.Controller the terminal UI drives
type Controller interface {
	Mount()
	RequestNewEntry()
	ToggleScript()
	ToggleDetail()
	CopyCharacters()
	Speak()
	DismissNotice()
}

const noticeText = "Speech depends on your system: offline speech needs espeak-ng, network voices need an API key."

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headlineStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4)
	cardStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 2)
	pinyinStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("58")).Padding(0, 1)
	alertStyle    = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("196")).Padding(0, 2).Bold(true)
)

// dispatchMsg carries a closure to run on the program goroutine
type dispatchMsg func()

type mountMsg struct{}

// screen is the card.View handed to the controller. Render and Alert are
// only called on the program goroutine, but View may be called while a
// goroutine renders.
type screen struct {
	mu     sync.Mutex
	state  card.ViewState
	alerts []string
}

func (s *screen) Render(state card.ViewState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *screen) Alert(message string) {
	s.mu.Lock()
	s.alerts = append(s.alerts, message)
	s.mu.Unlock()
}

func (s *screen) snapshot() (card.ViewState, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.alerts) == 0 {
		return s.state, ""
	}
	return s.state, s.alerts[0]
}

// ack drops the oldest alert
func (s *screen) ack() {
	s.mu.Lock()
	if len(s.alerts) > 0 {
		s.alerts = s.alerts[1:]
	}
	s.mu.Unlock()
}

// Model is the Bubble Tea model of the card screen
type Model struct {
	ctrl    Controller
	screen  *screen
	keys    keyMap
	help    help.Model
	backend string
	width   int
}

func newModel(s *screen, backend string) Model {
	return Model{
		screen:  s,
		keys:    defaultKeyMap(),
		help:    help.New(),
		backend: backend,
	}
}

// Init mounts the controller on the program goroutine
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return mountMsg{} }
}

// Update handles keys and dispatched controller work
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case mountMsg:
		if m.ctrl != nil {
			m.ctrl.Mount()
		}
		return m, nil

	case dispatchMsg:
		msg()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// An alert blocks everything until acknowledged
	if _, alert := m.screen.snapshot(); alert != "" {
		if key.Matches(msg, m.keys.Ack) {
			m.screen.ack()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.ctrl == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.New):
		m.ctrl.RequestNewEntry()
	case key.Matches(msg, m.keys.Script):
		m.ctrl.ToggleScript()
	case key.Matches(msg, m.keys.Detail):
		m.ctrl.ToggleDetail()
	case key.Matches(msg, m.keys.Copy):
		m.ctrl.CopyCharacters()
	case key.Matches(msg, m.keys.Speak):
		m.ctrl.Speak()
	case key.Matches(msg, m.keys.Dismiss):
		m.ctrl.DismissNotice()
	}
	return m, nil
}

// View renders the card
func (m Model) View() string {
	state, alert := m.screen.snapshot()
	var b strings.Builder

	b.WriteString(titleStyle.Render("Chinese Notecard"))
	b.WriteString("  ")
	b.WriteString(mutedStyle.Render("Character set: " + state.Script.String()))
	b.WriteString("\n\n")

	if state.NoticeVisible {
		b.WriteString(noticeStyle.Render(noticeText + " (x to dismiss)"))
		b.WriteString("\n\n")
	}

	b.WriteString(cardStyle.Render(cardBody(state)))
	b.WriteString("\n")

	if alert != "" {
		b.WriteString("\n")
		b.WriteString(alertStyle.Render(alert + "\n\n" + mutedStyle.Render("press enter to continue")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(statusLine(state, m.backend)))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func cardBody(state card.ViewState) string {
	if state.Entry == nil {
		if state.Loading {
			return mutedStyle.Render("Loading...")
		}
		return mutedStyle.Render("No entry yet. Press n to fetch one.")
	}

	lines := []string{headlineStyle.Render(state.Characters())}
	if state.DetailExpanded {
		copyText := "[c] copy"
		if state.Copy == card.Copied {
			copyText = "[c] copied!"
		}
		speakText := "[s] speak"
		if state.Speech == card.Speaking {
			speakText = "speaking..."
		}
		lines = append(lines,
			pinyinStyle.Render(state.Entry.Pinyin),
			state.Entry.Meaning,
			"",
			mutedStyle.Render(copyText+"   "+speakText),
		)
	} else {
		lines = append(lines, mutedStyle.Render("[d] show details"))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func statusLine(state card.ViewState, backend string) string {
	switch {
	case state.Loading:
		return "Loading..."
	case state.Speech == card.Speaking:
		return "Speaking..."
	}
	voice := "default zh-CN voice"
	if state.Voice != nil {
		voice = state.Voice.String()
	}
	if backend == "" {
		return fmt.Sprintf("Ready | Voice: %s", voice)
	}
	return fmt.Sprintf("Ready | Speech: %s | Voice: %s", backend, voice)
}
