package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"

	ModeEvents  = "events"
	ModeInPlace = "inplace"

	defaultSourceLanguage   = "en"
	defaultTargetLanguage   = "zh"
	defaultKnownCeiling     = "A2"
	defaultContextWindow    = 8
	defaultExtraLen         = 2
	defaultStartupTimeout   = 60
	defaultOpenRouterURL    = "https://openrouter.ai/api/v1/chat/completions"
	defaultOpenRouterModel  = "google/gemini-2.5-flash"
	defaultAnthropicModel   = "claude-sonnet-4-5"
	defaultLLMTimeout       = 60
	defaultLLMMaxAttempts   = 3
	defaultLLMTitle         = "vocabsub"
	defaultFFmpegBinary     = "ffmpeg"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultStoreFileName    = "vocabsub.db"
	defaultLexiconDirectory = "lexicon"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	dataDir := defaultDataDir()
	return Config{
		Paths: Paths{
			DataDir:    dataDir,
			LogDir:     filepath.Join(dataDir, "logs"),
			LexiconDir: filepath.Join(dataDir, defaultLexiconDirectory),
			StorePath:  filepath.Join(dataDir, defaultStoreFileName),
		},
		Language: Language{
			Source: defaultSourceLanguage,
			Target: defaultTargetLanguage,
		},
		Learner: Learner{KnownCeiling: defaultKnownCeiling},
		Batching: Batching{
			ContextWindow: defaultContextWindow,
			ExtraLen:      defaultExtraLen,
		},
		Tokenizer: Tokenizer{StartupTimeoutSeconds: defaultStartupTimeout},
		LLM: LLM{
			Provider:       ProviderOpenRouter,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeout,
			MaxAttempts:    defaultLLMMaxAttempts,
		},
		Annotate: Annotate{
			Mode:           ModeEvents,
			CacheResponses: true,
			CleanAds:       true,
		},
		Media: Media{FFmpegBinary: defaultFFmpegBinary},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultDataDir() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "vocabsub")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.local/share/vocabsub"
	}
	return filepath.Join(home, ".local", "share", "vocabsub")
}
