package config

import (
	"errors"
	"fmt"

	"vocabsub/internal/vocab"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Language.Source == "" {
		return errors.New("language.source must be set")
	}
	if c.Learner.KnownCeiling != "" {
		if _, ok := vocab.ParseCEFR(c.Learner.KnownCeiling); !ok {
			return fmt.Errorf("learner.known_ceiling: unknown CEFR level %q (use A1..C2 or leave empty)", c.Learner.KnownCeiling)
		}
	}
	if c.Batching.ContextWindow <= 0 {
		return errors.New("batching.context_window must be positive")
	}
	if c.Batching.ExtraLen < 0 {
		return errors.New("batching.extra_len must not be negative")
	}
	switch c.Tokenizer.Backend {
	case "", "rules", "kagome":
	case "process":
		if c.Tokenizer.Command == "" {
			return errors.New("tokenizer.command is required when tokenizer.backend = \"process\"")
		}
	default:
		return fmt.Errorf("tokenizer.backend: unsupported value %q (process, rules, kagome)", c.Tokenizer.Backend)
	}
	switch c.LLM.Provider {
	case ProviderOpenRouter, ProviderAnthropic:
	default:
		return fmt.Errorf("llm.provider: unsupported value %q (openrouter, anthropic)", c.LLM.Provider)
	}
	switch c.Annotate.Mode {
	case ModeEvents, ModeInPlace:
	default:
		return fmt.Errorf("annotate.mode: unsupported value %q (events, inplace)", c.Annotate.Mode)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (console, json)", c.Logging.Format)
	}
	return nil
}

// ValidateLLM reports whether the reasoning service can be reached with the
// current settings. Commands that only run extraction skip it.
func (c *Config) ValidateLLM() error {
	if c.LLM.APIKey == "" {
		path, err := DefaultConfigPath()
		if err != nil {
			path = "~/.config/vocabsub/config.toml"
		}
		return fmt.Errorf("llm.api_key is required. Set VOCABSUB_LLM_API_KEY or edit %s (create with 'vocabsub config init')", path)
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model must be set")
	}
	return nil
}

// KnownCeiling returns the learner ceiling as a CEFR level. It is
// CEFRUnknown when suppression is disabled.
func (c *Config) KnownCeiling() vocab.CEFR {
	level, _ := vocab.ParseCEFR(c.Learner.KnownCeiling)
	return level
}
