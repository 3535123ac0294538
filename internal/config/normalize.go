package config

import (
	"fmt"
	"os"
	"strings"

	"vocabsub/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLanguage()
	c.normalizeTokenizer()
	c.normalizeLLM()
	c.normalizeAnnotate()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.LexiconDir, err = expandPath(c.Paths.LexiconDir); err != nil {
		return fmt.Errorf("paths.lexicon_dir: %w", err)
	}
	if c.Paths.StorePath, err = expandPath(c.Paths.StorePath); err != nil {
		return fmt.Errorf("paths.store_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLanguage() {
	if code := language.ToISO2(c.Language.Source); code != "" {
		c.Language.Source = code
	} else {
		c.Language.Source = strings.ToLower(strings.TrimSpace(c.Language.Source))
	}
	if code := language.ToISO2(c.Language.Target); code != "" {
		c.Language.Target = code
	} else {
		c.Language.Target = strings.ToLower(strings.TrimSpace(c.Language.Target))
	}
	c.Learner.KnownCeiling = strings.ToUpper(strings.TrimSpace(c.Learner.KnownCeiling))
}

func (c *Config) normalizeTokenizer() {
	c.Tokenizer.Backend = strings.ToLower(strings.TrimSpace(c.Tokenizer.Backend))
	c.Tokenizer.Command = strings.TrimSpace(c.Tokenizer.Command)
	if c.Tokenizer.StartupTimeoutSeconds <= 0 {
		c.Tokenizer.StartupTimeoutSeconds = defaultStartupTimeout
	}
}

func (c *Config) normalizeLLM() {
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderOpenRouter
	}
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = lookupAPIKey(c.LLM.Provider)
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	switch c.LLM.Provider {
	case ProviderOpenRouter:
		if c.LLM.BaseURL == "" {
			c.LLM.BaseURL = defaultOpenRouterURL
		}
		if c.LLM.Model == "" {
			c.LLM.Model = defaultOpenRouterModel
		}
	case ProviderAnthropic:
		if c.LLM.Model == "" {
			c.LLM.Model = defaultAnthropicModel
		}
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeout
	}
	if c.LLM.MaxAttempts <= 0 {
		c.LLM.MaxAttempts = defaultLLMMaxAttempts
	}
}

func lookupAPIKey(provider string) string {
	keys := []string{"VOCABSUB_LLM_API_KEY"}
	switch provider {
	case ProviderAnthropic:
		keys = append(keys, "ANTHROPIC_API_KEY")
	default:
		keys = append(keys, "OPENROUTER_API_KEY")
	}
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func (c *Config) normalizeAnnotate() {
	c.Annotate.Mode = strings.ToLower(strings.TrimSpace(c.Annotate.Mode))
	if c.Annotate.Mode == "" {
		c.Annotate.Mode = ModeEvents
	}
	c.Media.FFmpegBinary = strings.TrimSpace(c.Media.FFmpegBinary)
	if c.Media.FFmpegBinary == "" {
		c.Media.FFmpegBinary = defaultFFmpegBinary
	}
	c.Media.YtDlpBinary = strings.TrimSpace(c.Media.YtDlpBinary)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
