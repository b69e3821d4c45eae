package gui

import (
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"

	"codeberg.org/snonux/notecard/internal/card"
	"codeberg.org/snonux/notecard/internal/speech"
	"codeberg.org/snonux/notecard/internal/vocab"
)

type recordingController struct {
	calls []string
}

func (c *recordingController) Mount()           { c.calls = append(c.calls, "mount") }
func (c *recordingController) RequestNewEntry() { c.calls = append(c.calls, "new") }
func (c *recordingController) ToggleScript()    { c.calls = append(c.calls, "script") }
func (c *recordingController) ToggleDetail()    { c.calls = append(c.calls, "detail") }
func (c *recordingController) CopyCharacters()  { c.calls = append(c.calls, "copy") }
func (c *recordingController) Speak()           { c.calls = append(c.calls, "speak") }
func (c *recordingController) DismissNotice()   { c.calls = append(c.calls, "dismiss") }
func (c *recordingController) Close()           { c.calls = append(c.calls, "close") }

func newTestApplication(t *testing.T) (*Application, *recordingController) {
	t.Helper()

	testApp := test.NewApp()
	t.Cleanup(testApp.Quit)

	a := New(&Config{App: testApp, Backend: "espeak-ng"})
	ctrl := &recordingController{}
	a.Bind(ctrl)
	return a, ctrl
}

var distinct = vocab.Entry{Traditional: "繁體", Simplified: "繁体", Pinyin: "fán tǐ", Meaning: "traditional form"}

func TestRender_Entry(t *testing.T) {
	a, _ := newTestApplication(t)

	entry := distinct
	a.Render(card.ViewState{Entry: &entry, Script: vocab.Simplified, NoticeVisible: true})

	if a.noteCard.headline.Text != "繁体" {
		t.Errorf("Expected simplified headline, got %q", a.noteCard.headline.Text)
	}
	if a.noteCard.detail.Visible() {
		t.Error("Expected detail hidden")
	}
	if a.scriptToggle.Checked {
		t.Error("Expected script toggle unchecked for simplified")
	}
	if a.scriptToggle.Text != "SIMPLIFIED" {
		t.Errorf("Expected toggle label SIMPLIFIED, got %q", a.scriptToggle.Text)
	}
	if !a.notice.Visible() {
		t.Error("Expected notice visible")
	}
}

func TestRender_DetailAndActions(t *testing.T) {
	a, _ := newTestApplication(t)

	entry := distinct
	a.Render(card.ViewState{
		Entry:          &entry,
		DetailExpanded: true,
		Copy:           card.Copied,
		Speech:         card.Speaking,
	})

	if !a.noteCard.detail.Visible() {
		t.Fatal("Expected detail visible")
	}
	if a.noteCard.pinyin.Text != "fán tǐ" || a.noteCard.meaning.Text != "traditional form" {
		t.Errorf("Unexpected detail %q / %q", a.noteCard.pinyin.Text, a.noteCard.meaning.Text)
	}
	if a.noteCard.copyButton.Text != "Copied!" {
		t.Errorf("Expected Copied! label, got %q", a.noteCard.copyButton.Text)
	}
	if !a.noteCard.speakBtn.Disabled() {
		t.Error("Expected speak button disabled while speaking")
	}
	if a.notice.Visible() {
		t.Error("Expected notice hidden")
	}
}

func TestRender_DoesNotFeedBack(t *testing.T) {
	a, ctrl := newTestApplication(t)

	a.Render(card.ViewState{Script: vocab.Simplified})
	a.Render(card.ViewState{Script: vocab.Traditional})

	if len(ctrl.calls) != 0 {
		t.Errorf("Render must not call the controller, got %v", ctrl.calls)
	}

	a.scriptToggle.SetChecked(false)
	if len(ctrl.calls) != 1 || ctrl.calls[0] != "script" {
		t.Errorf("Expected user toggle to reach the controller, got %v", ctrl.calls)
	}
}

func TestRender_Loading(t *testing.T) {
	a, _ := newTestApplication(t)

	a.Render(card.ViewState{Loading: true})
	if !a.newButton.Disabled() {
		t.Error("Expected new entry button disabled while loading")
	}
	if a.statusLabel.Text != "Loading..." {
		t.Errorf("Unexpected status %q", a.statusLabel.Text)
	}

	a.Render(card.ViewState{})
	if a.newButton.Disabled() {
		t.Error("Expected new entry button enabled")
	}
}

func TestHotkeys(t *testing.T) {
	a, ctrl := newTestApplication(t)

	for _, r := range "ntdcsx" {
		action := a.hotkeyAction(r)
		if action == nil {
			t.Fatalf("No action for %q", r)
		}
		action()
	}

	want := []string{"new", "script", "detail", "copy", "speak", "dismiss"}
	if strings.Join(ctrl.calls, ",") != strings.Join(want, ",") {
		t.Errorf("Expected calls %v, got %v", want, ctrl.calls)
	}

	if a.hotkeyAction('z') != nil {
		t.Error("Expected no action for unbound key")
	}
	if a.hotkeyAction('h') == nil || a.hotkeyAction('q') == nil {
		t.Error("Expected help and quit hotkeys")
	}
}

func TestStatusText(t *testing.T) {
	voice := &speech.Voice{ID: "cmn", Name: "Chinese (Mandarin)", Locale: "zh-CN"}

	tests := []struct {
		name    string
		state   card.ViewState
		backend string
		want    string
	}{
		{"loading", card.ViewState{Loading: true}, "", "Loading..."},
		{"speaking", card.ViewState{Speech: card.Speaking}, "", "Speaking..."},
		{"no voice", card.ViewState{}, "", "Ready | Voice: default zh-CN voice"},
		{"voice and backend", card.ViewState{Voice: voice}, "espeak-ng", "Ready | Speech: espeak-ng | Voice: Chinese (Mandarin) (zh-CN)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusText(tt.state, tt.backend); got != tt.want {
				t.Errorf("statusText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLabels(t *testing.T) {
	if copyLabel(card.CopyIdle) != "Copy" || copyLabel(card.Copied) != "Copied!" {
		t.Error("Unexpected copy labels")
	}
	if speakLabel(card.SpeechIdle) != "Speak" || speakLabel(card.Speaking) != "Speaking..." {
		t.Error("Unexpected speak labels")
	}
}
