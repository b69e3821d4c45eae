package speech

// None is the backend used when speech is switched off
type None struct {
	voices voiceList
}

func (n *None) Name() string {
	return "none"
}

func (n *None) IsAvailable() error {
	return ErrUnavailable
}

func (n *None) Voices() []Voice {
	return nil
}

func (n *None) OnVoicesChanged(fn func()) {
	n.voices.subscribe(fn)
}

// Speak fails immediately
func (n *None) Speak(u Utterance, done func(error)) {
	complete(done, ErrUnavailable)
}

func (n *None) Cancel() {}
