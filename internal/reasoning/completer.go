package reasoning

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"vocabsub/internal/logging"
	"vocabsub/internal/services/llm"
)

// Chain names, used for logging and the response cache.
const (
	ChainFeedback  = "feedback"
	ChainEnrich    = "enrich"
	ChainTranslate = "translate"
)

var (
	// ErrSchema marks a response that decoded but did not match the chain's shape.
	ErrSchema = errors.New("response schema mismatch")
	// ErrExhausted marks a chain that failed on every attempt.
	ErrExhausted = errors.New("reasoning chain exhausted retries")
)

// Completer sends a system/user prompt pair and returns a JSON payload.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ResponseCache stores validated payloads keyed by prompt hash.
type ResponseCache interface {
	GetResponse(ctx context.Context, key string) (string, bool, error)
	PutResponse(ctx context.Context, key, chain, payload string) error
}

type validator interface {
	Validate() error
}

// CacheKey hashes everything that determines a response.
func CacheKey(provider, model, systemPrompt, userPrompt string) string {
	h := sha256.New()
	for _, part := range []string{provider, model, systemPrompt, userPrompt} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// call performs the bounded retry loop for one chain. Every attempt decodes
// into a fresh T. A cached payload that still validates short-circuits the
// remote call; only validated payloads are written back to the cache.
func call[T any, PT interface {
	*T
	validator
}](ctx context.Context, s *Service, chain, systemPrompt, userPrompt string) (T, error) {
	ctx = logging.WithChain(ctx, chain)
	logger := logging.WithContext(ctx, s.logger)

	decode := func(payload string) (T, error) {
		var resp T
		err := decodeValid(payload, PT(&resp))
		return resp, err
	}

	key := ""
	if s.cache != nil {
		key = CacheKey(s.provider, s.model, systemPrompt, userPrompt)
		if payload, ok, err := s.cache.GetResponse(ctx, key); err != nil {
			logger.Debug("response cache read failed", logging.Error(err))
		} else if ok {
			if resp, err := decode(payload); err == nil {
				logger.Debug("response cache hit")
				return resp, nil
			}
		}
	}

	var zero T
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		payload, err := s.completer.CompleteJSON(ctx, systemPrompt, userPrompt)
		if err == nil {
			var resp T
			if resp, err = decode(payload); err == nil {
				if s.cache != nil {
					if putErr := s.cache.PutResponse(ctx, key, chain, payload); putErr != nil {
						logger.Debug("response cache write failed", logging.Error(putErr))
					}
				}
				return resp, nil
			}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}
		lastErr = err
		logger.Debug("reasoning attempt failed",
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", s.attempts),
			logging.Error(err),
		)
	}
	return zero, fmt.Errorf("%w: %s after %d attempts: %w", ErrExhausted, chain, s.attempts, lastErr)
}

func decodeValid(payload string, out validator) error {
	if err := llm.DecodeLLMJSON(payload, out); err != nil {
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return out.Validate()
}

func logUnresolved(logger *slog.Logger, msg string, attrs ...logging.Attr) {
	attrs = append(attrs,
		logging.String(logging.FieldErrorHint, "the reasoning service referenced something not in this batch"),
		logging.String(logging.FieldImpact, "reference ignored"),
	)
	logging.WarnWithContext(logger, msg, "correlation_unresolved", attrs...)
}
