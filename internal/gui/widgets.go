package gui

import (
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/notecard/internal/card"
)

const noticeText = "Speech depends on your system: offline speech needs espeak-ng, " +
	"network voices need an API key. Not every voice pronounces Mandarin tones well."

// Resource links shown in the footer
var resourceLinks = []struct {
	label string
	url   string
}{
	{"Chinese Dictionary Data", "https://www.mdbg.net/chinese/dictionary?page=cedict"},
	{"Interactive Pinyin Chart", "https://yoyochinese.com/chinese-learning-tools/Mandarin-Chinese-pronunciation-lesson/pinyin-chart-table"},
}

// NoteCard shows the headline characters and the collapsible detail panel
type NoteCard struct {
	widget.BaseWidget

	container  *fyne.Container
	headline   *canvas.Text
	detail     *fyne.Container
	pinyin     *widget.Label
	meaning    *widget.Label
	copyButton *ttwidget.Button
	speakBtn   *ttwidget.Button
}

// NewNoteCard creates an empty note card
func NewNoteCard(onCopy, onSpeak func()) *NoteCard {
	c := &NoteCard{}

	c.headline = canvas.NewText("", theme.Color(theme.ColorNameForeground))
	c.headline.TextSize = 64
	c.headline.Alignment = fyne.TextAlignCenter

	c.pinyin = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	c.meaning = widget.NewLabel("")
	c.meaning.Alignment = fyne.TextAlignCenter
	c.meaning.Wrapping = fyne.TextWrapWord

	c.copyButton = ttwidget.NewButtonWithIcon("Copy", theme.ContentCopyIcon(), onCopy)
	c.speakBtn = ttwidget.NewButtonWithIcon("Speak", theme.VolumeUpIcon(), onSpeak)

	c.detail = container.NewVBox(
		c.pinyin,
		c.meaning,
		container.NewHBox(layout.NewSpacer(), c.copyButton, c.speakBtn, layout.NewSpacer()),
	)
	c.detail.Hide()

	c.container = container.NewVBox(c.headline, c.detail)

	c.ExtendBaseWidget(c)
	return c
}

// CreateRenderer implements fyne.Widget
func (c *NoteCard) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.container)
}

// SetToolTips sets the action button tooltips
func (c *NoteCard) SetToolTips(copyTip, speakTip string) {
	c.copyButton.SetToolTip(copyTip)
	c.speakBtn.SetToolTip(speakTip)
}

// Update redraws the card from state
func (c *NoteCard) Update(state card.ViewState) {
	if state.Entry == nil {
		c.headline.Text = ""
		c.headline.Refresh()
		c.detail.Hide()
		return
	}

	c.headline.Text = state.Characters()
	c.headline.Refresh()

	c.pinyin.SetText(state.Entry.Pinyin)
	c.meaning.SetText(state.Entry.Meaning)
	c.copyButton.SetText(copyLabel(state.Copy))

	c.speakBtn.SetText(speakLabel(state.Speech))
	if state.Speech == card.Speaking {
		c.speakBtn.Disable()
	} else {
		c.speakBtn.Enable()
	}

	if state.DetailExpanded {
		c.detail.Show()
	} else {
		c.detail.Hide()
	}
}

func copyLabel(s card.CopyState) string {
	if s == card.Copied {
		return "Copied!"
	}
	return "Copy"
}

func speakLabel(s card.SpeechState) string {
	if s == card.Speaking {
		return "Speaking..."
	}
	return "Speak"
}

// NoticeBanner is a dismissible informational message
type NoticeBanner struct {
	widget.BaseWidget

	container *fyne.Container
	dismiss   *ttwidget.Button
}

// NewNoticeBanner creates a banner showing text
func NewNoticeBanner(text string, onDismiss func()) *NoticeBanner {
	b := &NoticeBanner{}

	label := widget.NewLabel(text)
	label.Wrapping = fyne.TextWrapWord

	b.dismiss = ttwidget.NewButtonWithIcon("", theme.CancelIcon(), onDismiss)
	b.dismiss.Importance = widget.LowImportance

	b.container = container.NewBorder(
		nil, nil,
		widget.NewIcon(theme.InfoIcon()),
		b.dismiss,
		label,
	)

	b.ExtendBaseWidget(b)
	return b
}

// CreateRenderer implements fyne.Widget
func (b *NoticeBanner) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(b.container)
}

// SetToolTip sets the dismiss button tooltip
func (b *NoticeBanner) SetToolTip(tip string) {
	b.dismiss.SetToolTip(tip)
}

// newResourceFooter lists learning resources
func newResourceFooter() fyne.CanvasObject {
	links := container.NewHBox(widget.NewLabelWithStyle("Resources:", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	for _, l := range resourceLinks {
		u, err := url.Parse(l.url)
		if err != nil {
			continue
		}
		links.Add(widget.NewHyperlink(l.label, u))
	}
	links.Add(layout.NewSpacer())
	links.Add(widget.NewLabel("Practice Chinese Pronunciation"))
	return links
}
