package tokenizer

import (
	"fmt"
	"strings"
	"time"
)

// Backend names accepted in configuration.
const (
	BackendProcess = "process"
	BackendRules   = "rules"
	BackendKagome  = "kagome"
)

// Options selects and configures a tagger backend.
type Options struct {
	Backend     string
	Command     string
	Args        []string
	Language    string
	StopTimeout time.Duration
	// Known is handed to the rules tagger's lemmatizer.
	Known func(lemma string) bool
}

// DefaultBackend picks the built-in tagger for a source language.
func DefaultBackend(language string) string {
	if strings.EqualFold(strings.TrimSpace(language), "ja") {
		return BackendKagome
	}
	return BackendRules
}

// NewTagger builds the tagger named by opts.Backend.
func NewTagger(opts Options) (Tagger, error) {
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	if backend == "" {
		backend = DefaultBackend(opts.Language)
	}
	switch backend {
	case BackendProcess:
		return NewProcessTagger(ProcessConfig{
			Command:     opts.Command,
			Args:        opts.Args,
			Language:    opts.Language,
			StopTimeout: opts.StopTimeout,
		})
	case BackendRules:
		return &RuleTagger{Known: opts.Known}, nil
	case BackendKagome:
		return &KagomeTagger{}, nil
	default:
		return nil, fmt.Errorf("tokenizer: unknown backend %q", opts.Backend)
	}
}
