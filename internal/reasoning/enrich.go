package reasoning

import (
	"context"
	"strings"

	"vocabsub/internal/logging"
	"vocabsub/internal/segments"
	"vocabsub/internal/vocab"
)

// EnrichOutcome counts what one enrichment round changed.
type EnrichOutcome struct {
	Requested  int
	Enriched   int
	Unresolved int
	Skipped    bool
}

// Enrich requests translations and usage notes for every candidate in the
// fetch range. Batches without candidates are skipped without a call.
func (s *Service) Enrich(ctx context.Context, batch segments.Batch) (EnrichOutcome, error) {
	words := batch.Words()
	if len(words) == 0 {
		return EnrichOutcome{Skipped: true}, nil
	}
	req := EnrichRequest{
		Text:           batch.Text(),
		TargetLanguage: s.targetLanguage,
		Words:          make([]EnrichCandidate, 0, len(words)),
	}
	for _, w := range words {
		req.Words = append(req.Words, EnrichCandidate{
			WordID:          w.Meta.WordID,
			Text:            w.Text,
			Lemma:           w.Lemma,
			POS:             w.POS,
			ExistingPosDefs: w.PosDefs,
		})
	}
	prompt, err := userPrompt(req)
	if err != nil {
		return EnrichOutcome{}, err
	}
	resp, err := call[EnrichResponse](ctx, s, ChainEnrich, s.enrichSystemPrompt(), prompt)
	if err != nil {
		return EnrichOutcome{Requested: len(words)}, err
	}
	out := s.ApplyEnrichment(ctx, batch, resp)
	out.Requested = len(words)
	return out, nil
}

// ApplyEnrichment copies enrichment data onto words by id across the whole
// fetch range. Enrichment never changes identity or position.
func (s *Service) ApplyEnrichment(ctx context.Context, batch segments.Batch, resp EnrichResponse) EnrichOutcome {
	logger := logging.WithContext(logging.WithChain(ctx, ChainEnrich), s.logger)
	var out EnrichOutcome
	for _, e := range resp.Words {
		_, word := findInFetch(batch, e.WordID)
		if word == nil {
			out.Unresolved++
			logUnresolved(logger, "enrichment references unknown word", logging.Int(logging.FieldWordID, e.WordID))
			continue
		}
		word.Translation = strings.TrimSpace(e.Translation)
		word.UsageContext = strings.TrimSpace(e.UsageContext)
		word.LexicalFeatures = vocab.ParseFeatures(e.LexicalFeatures)
		out.Enriched++
	}
	logger.Info("enrichment applied",
		logging.Int(logging.FieldBatch, batch.Number),
		logging.Int("enriched", out.Enriched),
		logging.Int("unresolved", out.Unresolved),
	)
	return out
}
