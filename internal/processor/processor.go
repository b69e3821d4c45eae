package processor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"

	"codeberg.org/snonux/notecard/internal"
	"codeberg.org/snonux/notecard/internal/card"
	"codeberg.org/snonux/notecard/internal/cli"
	"codeberg.org/snonux/notecard/internal/gui"
	"codeberg.org/snonux/notecard/internal/speech"
	"codeberg.org/snonux/notecard/internal/tui"
	"codeberg.org/snonux/notecard/internal/vocab"
)

// voiceListTimeout bounds how long --list-voices waits for a backend that
// loads its voices in the background
const voiceListTimeout = 10 * time.Second

// Settings is the configuration resolved from flags, config file and
// environment
type Settings struct {
	ServiceURL     string
	ServiceTimeout time.Duration
	LogLevel       slog.Level
	Speech         *speech.Config
	HideNotice     bool
	CopyReset      time.Duration
}

// Processor handles the selected run mode
type Processor struct {
	flags *cli.Flags

	// newSynthesizer is replaced in tests
	newSynthesizer func(ctx context.Context, config *speech.Config) (speech.Synthesizer, error)
}

// NewProcessor creates a new processor
func NewProcessor(flags *cli.Flags) *Processor {
	return &Processor{
		flags:          flags,
		newSynthesizer: speech.NewSynthesizer,
	}
}

// Settings resolves the configuration. Values from the config file or the
// environment win over flag defaults; flags given on the command line are
// bound to viper and therefore win over both.
func (p *Processor) Settings() (*Settings, error) {
	f := p.flags

	level, err := cli.ParseLogLevel(stringSetting("log.level", f.LogLevel))
	if err != nil {
		return nil, err
	}
	locale, err := cli.ParseLocale(stringSetting("speech.fallback_locale", f.SpeechLocale))
	if err != nil {
		return nil, err
	}

	serviceURL := internal.TrimBasePath(stringSetting("service.url", f.ServiceURL))
	if serviceURL == "" {
		serviceURL = internal.ServiceBasePath
	}

	return &Settings{
		ServiceURL:     serviceURL,
		ServiceTimeout: durationSetting("service.timeout", f.ServiceTimeout),
		LogLevel:       level,
		Speech: &speech.Config{
			Provider:    stringSetting("speech.provider", f.SpeechProvider),
			CacheDir:    stringSetting("speech.cache_dir", f.CacheDir),
			Locale:      locale,
			Fallback:    !boolSetting("speech.no_fallback", f.NoFallback),
			ESpeakVoice: stringSetting("speech.espeak_voice", f.ESpeakVoice),
			OpenAIKey:   cli.GetOpenAIKey(),
			OpenAIModel: stringSetting("speech.openai_model", f.OpenAIModel),
			OpenAIVoice: stringSetting("speech.openai_voice", f.OpenAIVoice),
			GeminiKey:   cli.GetGeminiKey(),
			GeminiModel: stringSetting("speech.gemini_model", f.GeminiModel),
			GeminiVoice: stringSetting("speech.gemini_voice", f.GeminiVoice),
			GCPVoice:    stringSetting("speech.gcp_voice", f.GCPVoice),
		},
		HideNotice: boolSetting("ui.hide_notice", f.HideNotice),
		CopyReset:  durationSetting("ui.copy_reset", f.CopyReset),
	}, nil
}

func stringSetting(key, fallback string) string {
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return fallback
}

func boolSetting(key string, fallback bool) bool {
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	return fallback
}

func durationSetting(key string, fallback time.Duration) time.Duration {
	if viper.IsSet(key) {
		return viper.GetDuration(key)
	}
	return fallback
}

// SetupLogging installs a text logger writing to w as the default logger
func SetupLogging(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func (s *Settings) newClient() *vocab.Client {
	return vocab.NewClient(s.ServiceURL,
		vocab.WithTimeout(s.ServiceTimeout),
		vocab.WithBreaker(vocab.DefaultBreakerSettings()),
	)
}

func (s *Settings) cardOptions(synth speech.Synthesizer, logger *slog.Logger) card.Options {
	opts := card.DefaultOptions()
	opts.Source = s.newClient()
	opts.Speech = synth
	opts.Logger = logger
	opts.NoticeVisible = !s.HideNotice
	opts.CopyResetAfter = s.CopyReset
	opts.FallbackLocale = s.Speech.Locale
	return opts
}

// PrintEntry fetches one random entry and prints it to w
func (p *Processor) PrintEntry(ctx context.Context, w io.Writer) error {
	settings, err := p.Settings()
	if err != nil {
		return err
	}
	SetupLogging(os.Stderr, settings.LogLevel)

	entry, err := settings.newClient().Random(ctx)
	if err != nil {
		if code := vocab.StatusCode(err); code != 0 {
			return fmt.Errorf("vocabulary service returned status %d", code)
		}
		return fmt.Errorf("failed to fetch entry: %w", err)
	}

	fmt.Fprintf(w, "Traditional: %s\n", entry.Traditional)
	fmt.Fprintf(w, "Simplified:  %s\n", entry.Simplified)
	fmt.Fprintf(w, "Pinyin:      %s\n", entry.Pinyin)
	fmt.Fprintf(w, "Meaning:     %s\n", entry.Meaning)
	return nil
}

// ListVoices prints the voices of the configured speech backend
func (p *Processor) ListVoices(ctx context.Context, w io.Writer) error {
	settings, err := p.Settings()
	if err != nil {
		return err
	}
	SetupLogging(os.Stderr, settings.LogLevel)

	synth, err := p.newSynthesizer(ctx, settings.Speech)
	if err != nil {
		return fmt.Errorf("failed to create speech backend: %w", err)
	}
	return speech.ListVoices(w, synth, voiceListTimeout)
}

// RunGUIMode launches the GUI application
func (p *Processor) RunGUIMode() error {
	settings, err := p.Settings()
	if err != nil {
		return err
	}
	ctx := context.Background()

	SetupLogging(os.Stderr, settings.LogLevel)
	synth, err := p.newSynthesizer(ctx, settings.Speech)
	if err != nil {
		return fmt.Errorf("failed to create speech backend: %w", err)
	}

	app := gui.New(&gui.Config{Backend: synth.Name()})
	logger := SetupLogging(io.MultiWriter(os.Stderr, app.LogViewer()), settings.LogLevel)

	opts := settings.cardOptions(synth, logger)
	opts.Clipboard = app.Clipboard()
	opts.View = app
	opts.Dispatch = app.Dispatch

	ctrl := card.New(opts)
	defer ctrl.Close()

	app.Bind(ctrl)
	logger.Info("Starting GUI", "service", settings.ServiceURL, "speech", synth.Name())
	app.Run()
	return nil
}

// RunTUIMode launches the terminal UI. Logs go to a file since the screen
// belongs to the UI.
func (p *Processor) RunTUIMode() error {
	settings, err := p.Settings()
	if err != nil {
		return err
	}
	ctx := context.Background()

	logFile, err := openLogFile()
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := SetupLogging(logFile, settings.LogLevel)

	synth, err := p.newSynthesizer(ctx, settings.Speech)
	if err != nil {
		return fmt.Errorf("failed to create speech backend: %w", err)
	}

	app := tui.New(&tui.Config{Backend: synth.Name()})

	opts := settings.cardOptions(synth, logger)
	opts.Clipboard = tui.NewClipboard(nil)
	opts.View = app
	opts.Dispatch = app.Dispatch

	ctrl := card.New(opts)
	app.Bind(ctrl)

	logger.Info("Starting terminal UI", "service", settings.ServiceURL, "speech", synth.Name())
	runErr := app.Run()
	ctrl.Close()
	return runErr
}

// openLogFile opens the terminal UI log below the XDG state directory
func openLogFile() (*os.File, error) {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".local", "state")
	}
	dir = filepath.Join(dir, "notecard")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	f, err := tea.LogToFile(filepath.Join(dir, "notecard.log"), "notecard")
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
