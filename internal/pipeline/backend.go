package pipeline

import (
	"context"
	"fmt"

	"vocabsub/internal/config"
	"vocabsub/internal/reasoning"
	"vocabsub/internal/services"
	"vocabsub/internal/services/anthropic"
	"vocabsub/internal/services/llm"
)

// Backend is a reasoning service client.
type Backend interface {
	reasoning.Completer
	HealthCheck(ctx context.Context) error
	Model() string
	Usage() llm.Usage
}

// NewBackend builds the client for the configured provider.
func NewBackend(cfg *config.Config) (Backend, error) {
	if err := cfg.ValidateLLM(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "reasoning", "configure backend", "", err)
	}
	switch cfg.LLM.Provider {
	case config.ProviderAnthropic:
		return anthropic.NewClient(anthropic.Config{
			APIKey:         cfg.LLM.APIKey,
			BaseURL:        cfg.LLM.BaseURL,
			Model:          cfg.LLM.Model,
			TimeoutSeconds: cfg.LLM.TimeoutSeconds,
			MaxAttempts:    cfg.LLM.MaxAttempts,
		}), nil
	case config.ProviderOpenRouter, "":
		return llm.NewClient(llm.Config{
			APIKey:         cfg.LLM.APIKey,
			BaseURL:        cfg.LLM.BaseURL,
			Model:          cfg.LLM.Model,
			Referer:        cfg.LLM.Referer,
			Title:          cfg.LLM.Title,
			TimeoutSeconds: cfg.LLM.TimeoutSeconds,
		}, llm.WithRetryMaxAttempts(cfg.LLM.MaxAttempts)), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "reasoning", "configure backend", fmt.Sprintf("unknown llm provider %q", cfg.LLM.Provider), nil)
	}
}
