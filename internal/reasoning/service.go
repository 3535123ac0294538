package reasoning

import (
	"log/slog"

	"vocabsub/internal/extract"
	"vocabsub/internal/logging"
)

const defaultAttempts = 3

// Service runs the reasoning chains against one run's segment list.
type Service struct {
	completer      Completer
	extractor      *extract.Extractor
	cache          ResponseCache
	logger         *slog.Logger
	attempts       int
	provider       string
	model          string
	sourceLanguage string
	targetLanguage string
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAttempts sets how many times a chain is tried before ErrExhausted.
func WithAttempts(attempts int) Option {
	return func(s *Service) {
		if attempts > 0 {
			s.attempts = attempts
		}
	}
}

// WithCache enables the response cache. provider and model become part of
// every cache key.
func WithCache(cache ResponseCache, provider, model string) Option {
	return func(s *Service) {
		s.cache = cache
		s.provider = provider
		s.model = model
	}
}

// WithLanguages sets the subtitle and annotation languages.
func WithLanguages(source, target string) Option {
	return func(s *Service) {
		if source != "" {
			s.sourceLanguage = source
		}
		if target != "" {
			s.targetLanguage = target
		}
	}
}

// New builds a Service. The extractor supplies the lexicon rules used to
// admit service-proposed words and the word id generator.
func New(completer Completer, extractor *extract.Extractor, opts ...Option) *Service {
	s := &Service{
		completer:      completer,
		extractor:      extractor,
		logger:         logging.NewNop(),
		attempts:       defaultAttempts,
		sourceLanguage: "en",
		targetLanguage: "zh",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "reasoning")
	return s
}
