package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

const hotkeysText = `## Card
**n** New random entry  
**t** Toggle traditional/simplified  
**d** Show or hide details  

## Actions
**c** Copy characters  
**s** Speak characters  
**x** Dismiss notice  

## Help
**h** Show hotkeys  
**q** Quit application  

---
Press **Esc** to close this dialog`

// hotkeyAction maps a typed rune onto an application action. Unknown runes
// return nil.
func (a *Application) hotkeyAction(r rune) func() {
	switch r {
	case 'n', 'N':
		return a.onNewEntry
	case 't', 'T':
		return func() {
			if a.ctrl != nil {
				a.ctrl.ToggleScript()
			}
		}
	case 'd', 'D':
		return a.onToggleDetail
	case 'c', 'C':
		return a.onCopy
	case 's', 'S':
		return a.onSpeak
	case 'x', 'X':
		return a.onDismissNotice
	case 'h', 'H', '?':
		return a.onShowHotkeys
	case 'q', 'Q':
		return a.window.Close
	}
	return nil
}

func (a *Application) setupKeyboardShortcuts() {
	a.window.Canvas().SetOnTypedRune(func(r rune) {
		if action := a.hotkeyAction(r); action != nil {
			action()
		}
	})

	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyEscape:
			a.window.Canvas().Unfocus()
		case fyne.KeyReturn, fyne.KeyEnter:
			a.onNewEntry()
		}
	})
}

func (a *Application) onShowHotkeys() {
	content := widget.NewRichTextFromMarkdown(hotkeysText)
	content.Wrapping = fyne.TextWrapWord

	scroll := container.NewScroll(container.NewPadded(content))
	scroll.SetMinSize(fyne.NewSize(360, 380))

	d := dialog.NewCustom("Keyboard Shortcuts", "Close", scroll, a.window)

	// Card hotkeys are suspended while the dialog is open
	a.window.Canvas().SetOnTypedRune(nil)
	d.SetOnClosed(a.setupKeyboardShortcuts)
	d.Show()
}
