package gui

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/notecard/internal"
	"codeberg.org/snonux/notecard/internal/card"
	"codeberg.org/snonux/notecard/internal/vocab"
)

// Controller is the part of card.Controller the GUI drives
type Controller interface {
	Mount()
	RequestNewEntry()
	ToggleScript()
	ToggleDetail()
	CopyCharacters()
	Speak()
	DismissNotice()
	Close()
}

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// UI elements
	scriptToggle *widget.Check
	newButton    *ttwidget.Button
	detailButton *ttwidget.Button
	helpButton   *ttwidget.Button
	logButton    *ttwidget.Button
	noteCard     *NoteCard
	notice       *NoticeBanner
	statusLabel  *widget.Label
	logViewer    *LogViewer
	logPanel     *fyne.Container

	// rendering is set while Render updates widgets, so widget callbacks
	// triggered by SetChecked do not feed back into the controller
	rendering bool

	ctrl      Controller
	config    *Config
	closeOnce sync.Once
}

// Config holds GUI application configuration
type Config struct {
	// App is the Fyne application to use; nil creates one
	App fyne.App

	// LogViewer receives log output; nil creates an empty one
	LogViewer *LogViewer

	// Backend is the speech backend name shown in the status line
	Backend string
}

// DefaultConfig returns default GUI configuration
func DefaultConfig() *Config {
	return &Config{}
}

// New creates the main window. Bind must be called before Run.
func New(config *Config) *Application {
	if config == nil {
		config = DefaultConfig()
	}
	if config.App == nil {
		config.App = app.NewWithID("org.codeberg.snonux.notecard")
	}
	if config.LogViewer == nil {
		config.LogViewer = NewLogViewer()
	}

	a := &Application{
		app:       config.App,
		config:    config,
		logViewer: config.LogViewer,
	}
	a.setupUI()
	return a
}

// Clipboard returns the window clipboard for the card controller
func (a *Application) Clipboard() fyne.Clipboard {
	return a.window.Clipboard()
}

// LogViewer returns the log panel so log output can be teed into it
func (a *Application) LogViewer() *LogViewer {
	return a.logViewer
}

// Dispatch runs fn on the Fyne UI thread
func (a *Application) Dispatch(fn func()) {
	fyne.Do(fn)
}

// Bind connects the window to the card controller
func (a *Application) Bind(ctrl Controller) {
	a.ctrl = ctrl
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("Chinese Notecard v%s", internal.Version))
	a.window.Resize(fyne.NewSize(640, 720))

	a.scriptToggle = widget.NewCheck(scriptLabel(card.ViewState{}), func(bool) {
		if !a.rendering && a.ctrl != nil {
			a.ctrl.ToggleScript()
		}
	})
	a.scriptToggle.SetChecked(true)

	// Tooltips are set after the tooltip layer is created
	a.newButton = ttwidget.NewButtonWithIcon("Get Random Chinese Words", theme.ViewRefreshIcon(), a.onNewEntry)
	a.newButton.Importance = widget.HighImportance

	a.detailButton = ttwidget.NewButtonWithIcon("", theme.MenuExpandIcon(), a.onToggleDetail)
	a.helpButton = ttwidget.NewButtonWithIcon("", theme.HelpIcon(), a.onShowHotkeys)
	a.logButton = ttwidget.NewButtonWithIcon("", theme.ListIcon(), a.onToggleLog)

	a.noteCard = NewNoteCard(a.onCopy, a.onSpeak)
	a.notice = NewNoticeBanner(noticeText, a.onDismissNotice)

	toolbar := container.NewHBox(
		widget.NewLabelWithStyle("Character Sets", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		a.scriptToggle,
		layout.NewSpacer(),
		a.detailButton,
		a.logButton,
		a.helpButton,
	)

	title := widget.NewLabelWithStyle("Chinese Notecard", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	cardSection := container.NewVBox(
		title,
		widget.NewSeparator(),
		a.noteCard,
		widget.NewSeparator(),
		container.NewCenter(a.newButton),
	)

	a.statusLabel = widget.NewLabel("Ready")
	a.statusLabel.TextStyle = fyne.TextStyle{Italic: true}

	a.logPanel = container.NewStack(a.logViewer)
	a.logPanel.Hide()

	bottom := container.NewVBox(
		a.logPanel,
		widget.NewSeparator(),
		newResourceFooter(),
		a.statusLabel,
	)

	content := container.NewBorder(
		container.NewVBox(toolbar, a.notice),
		bottom,
		nil, nil,
		container.NewCenter(cardSection),
	)

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))
	a.setupTooltips()

	a.window.SetOnClosed(a.shutdown)

	a.setupKeyboardShortcuts()
}

func (a *Application) setupTooltips() {
	a.newButton.SetToolTip("New random entry (n)")
	a.detailButton.SetToolTip("Show or hide details (d)")
	a.logButton.SetToolTip("Show or hide log messages")
	a.helpButton.SetToolTip("Show hotkeys (h)")
	a.noteCard.SetToolTips("Copy characters (c)", "Speak characters (s)")
	a.notice.SetToolTip("Dismiss notice (x)")
}

// Run mounts the controller once the window is up and blocks until the
// window is closed
func (a *Application) Run() {
	a.app.Lifecycle().SetOnStarted(func() {
		if a.ctrl != nil {
			a.ctrl.Mount()
		}
	})
	a.window.ShowAndRun()
}

func (a *Application) shutdown() {
	a.closeOnce.Do(func() {
		if a.ctrl != nil {
			a.ctrl.Close()
		}
	})
}

// Render implements card.View. It must run on the UI thread.
func (a *Application) Render(state card.ViewState) {
	a.rendering = true
	defer func() { a.rendering = false }()

	a.scriptToggle.SetChecked(state.Script == vocab.Traditional)
	a.scriptToggle.Text = scriptLabel(state)
	a.scriptToggle.Refresh()

	if state.DetailExpanded {
		a.detailButton.SetIcon(theme.MenuDropUpIcon())
	} else {
		a.detailButton.SetIcon(theme.MenuExpandIcon())
	}

	if state.Loading {
		a.newButton.Disable()
	} else {
		a.newButton.Enable()
	}

	a.noteCard.Update(state)

	if state.NoticeVisible {
		a.notice.Show()
	} else {
		a.notice.Hide()
	}

	a.statusLabel.SetText(statusText(state, a.config.Backend))
}

// Alert implements card.View with a modal information dialog
func (a *Application) Alert(message string) {
	dialog.ShowInformation("Chinese Notecard", message, a.window)
}

func (a *Application) onNewEntry() {
	if a.ctrl != nil {
		a.ctrl.RequestNewEntry()
	}
}

func (a *Application) onToggleDetail() {
	if a.ctrl != nil {
		a.ctrl.ToggleDetail()
	}
}

func (a *Application) onCopy() {
	if a.ctrl != nil {
		a.ctrl.CopyCharacters()
	}
}

func (a *Application) onSpeak() {
	if a.ctrl != nil {
		a.ctrl.Speak()
	}
}

func (a *Application) onDismissNotice() {
	if a.ctrl != nil {
		a.ctrl.DismissNotice()
	}
}

func (a *Application) onToggleLog() {
	if a.logPanel.Visible() {
		a.logPanel.Hide()
	} else {
		a.logPanel.Show()
	}
}

// scriptLabel names the script currently shown
func scriptLabel(state card.ViewState) string {
	return state.Script.String()
}

// statusText summarizes loading and speech state for the status line
func statusText(state card.ViewState, backend string) string {
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
