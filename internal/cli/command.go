package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"codeberg.org/snonux/notecard/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "notecard",
		Short: "Chinese vocabulary flashcards",
		Long: `notecard shows random Chinese vocabulary from a dictionary service.

Each card shows the traditional or simplified characters; the detail
panel adds pinyin and meaning, and the characters can be copied or
spoken aloud.

Examples:
  notecard                          # Launch the GUI (default)
  notecard --tui                    # Launch the terminal UI
  notecard --print                  # Print one random entry and exit
  notecard --list-voices            # List voices of the speech backend
  notecard --speech-provider openai # Speak through OpenAI TTS`,
		Args:    cobra.NoArgs,
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.notecard.yaml)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")

	// Modes
	cmd.Flags().BoolVar(&flags.TUI, "tui", false, "Launch the terminal UI instead of the GUI")
	cmd.Flags().BoolVar(&flags.Print, "print", false, "Print one random entry and exit")
	cmd.Flags().BoolVar(&flags.ListVoices, "list-voices", false, "List the voices of the speech backend and exit")

	// Vocabulary service
	cmd.Flags().StringVar(&flags.ServiceURL, "service-url", internal.ServiceBasePath, "Base URL of the vocabulary service")
	cmd.Flags().DurationVar(&flags.ServiceTimeout, "service-timeout", flags.ServiceTimeout, "Timeout for one request to the vocabulary service")

	// Speech
	cmd.Flags().StringVar(&flags.SpeechProvider, "speech-provider", flags.SpeechProvider, "Speech backend: espeak, openai, gemini, gcp, none")
	cmd.Flags().StringVar(&flags.SpeechLocale, "speech-locale", flags.SpeechLocale, "Locale used when no Chinese voice is found (BCP 47)")
	cmd.Flags().BoolVar(&flags.NoFallback, "no-fallback", false, "Do not fall back to espeak-ng when a network speech backend fails")
	cmd.Flags().StringVar(&flags.CacheDir, "cache-dir", "", "Directory for synthesized audio (default is the user cache directory)")
	cmd.Flags().StringVar(&flags.ESpeakVoice, "espeak-voice", "", "Force an espeak-ng voice, e.g. cmn")
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	cmd.Flags().StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, ballad, coral, echo, fable, onyx, nova, sage, shimmer, verse")
	cmd.Flags().StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini TTS model")
	cmd.Flags().StringVar(&flags.GeminiVoice, "gemini-voice", flags.GeminiVoice, "Gemini prebuilt voice, e.g. Kore, Puck, Zephyr")
	cmd.Flags().StringVar(&flags.GCPVoice, "gcp-voice", "", "Cloud Text-to-Speech voice, e.g. cmn-CN-Wavenet-A")

	// UI
	cmd.Flags().BoolVar(&flags.HideNotice, "hide-notice", false, "Start with the speech support notice hidden")
	cmd.Flags().DurationVar(&flags.CopyReset, "copy-reset", 0, "Revert the copied indicator after this long (0 keeps it until the next card)")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("service.url", cmd.Flags().Lookup("service-url"))
	viper.BindPFlag("service.timeout", cmd.Flags().Lookup("service-timeout"))
	viper.BindPFlag("speech.provider", cmd.Flags().Lookup("speech-provider"))
	viper.BindPFlag("speech.fallback_locale", cmd.Flags().Lookup("speech-locale"))
	viper.BindPFlag("speech.no_fallback", cmd.Flags().Lookup("no-fallback"))
	viper.BindPFlag("speech.cache_dir", cmd.Flags().Lookup("cache-dir"))
	viper.BindPFlag("speech.espeak_voice", cmd.Flags().Lookup("espeak-voice"))
	viper.BindPFlag("speech.openai_model", cmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("speech.openai_voice", cmd.Flags().Lookup("openai-voice"))
	viper.BindPFlag("speech.gemini_model", cmd.Flags().Lookup("gemini-model"))
	viper.BindPFlag("speech.gemini_voice", cmd.Flags().Lookup("gemini-voice"))
	viper.BindPFlag("speech.gcp_voice", cmd.Flags().Lookup("gcp-voice"))
	viper.BindPFlag("ui.hide_notice", cmd.Flags().Lookup("hide-notice"))
	viper.BindPFlag("ui.copy_reset", cmd.Flags().Lookup("copy-reset"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".notecard" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".notecard")
	}

	// Environment variables, e.g. NOTECARD_SERVICE_URL for service.url
	viper.SetEnvPrefix("NOTECARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("speech.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	return viper.GetString("speech.gemini_key")
}

// ParseLocale validates a BCP 47 locale and returns it in canonical form
func ParseLocale(s string) (string, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid speech locale %q: %w", s, err)
	}
	return tag.String(), nil
}

// ParseLogLevel converts a level name into a slog level
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
