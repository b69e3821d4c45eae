package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/snonux/notecard/internal/card"
)

// Config holds terminal UI configuration
type Config struct {
	// Backend is the speech backend name shown in the status line
	Backend string

	// Options are passed to tea.NewProgram, mainly for tests
	ProgramOptions []tea.ProgramOption
}

// Application runs the card screen in the terminal
type Application struct {
	screen  *screen
	model   Model
	program *tea.Program
}

// New creates the terminal application. Bind must be called before Run.
func New(config *Config) *Application {
	if config == nil {
		config = &Config{}
	}
	s := &screen{}
	a := &Application{
		screen: s,
		model:  newModel(s, config.Backend),
	}

	opts := config.ProgramOptions
	if opts == nil {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	a.program = tea.NewProgram(&a.model, opts...)
	return a
}

// Bind connects the screen to the card controller
func (a *Application) Bind(ctrl Controller) {
	a.model.ctrl = ctrl
}

// Dispatch runs fn on the program goroutine. It must not be called from
// within Update.
func (a *Application) Dispatch(fn func()) {
	a.program.Send(dispatchMsg(fn))
}

// Render implements card.View
func (a *Application) Render(state card.ViewState) {
	a.screen.Render(state)
}

// Alert implements card.View
func (a *Application) Alert(message string) {
	a.screen.Alert(message)
}

// Run blocks until the user quits
func (a *Application) Run() error {
	if _, err := a.program.Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}

// Quit asks the program to exit
func (a *Application) Quit() {
	a.program.Quit()
}
