package reasoning

import (
	"context"
	"strings"

	"vocabsub/internal/logging"
	"vocabsub/internal/segments"
)

// TranslateOutcome counts translated lines.
type TranslateOutcome struct {
	Requested  int
	Translated int
	Unresolved int
}

// Translate requests a sentence translation for every real-range segment
// that has speech.
func (s *Service) Translate(ctx context.Context, batch segments.Batch) (TranslateOutcome, error) {
	lines := make([]SegmentLine, 0, len(batch.Fetch))
	for _, line := range segmentLines(batch.RealSegments()) {
		if line.Text != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return TranslateOutcome{}, nil
	}
	prompt, err := userPrompt(TranslateRequest{TargetLanguage: s.targetLanguage, Lines: lines})
	if err != nil {
		return TranslateOutcome{}, err
	}
	resp, err := call[TranslateResponse](ctx, s, ChainTranslate, s.translateSystemPrompt(), prompt)
	if err != nil {
		return TranslateOutcome{Requested: len(lines)}, err
	}
	out := s.ApplyTranslation(ctx, batch, resp)
	out.Requested = len(lines)
	return out, nil
}

// ApplyTranslation sets Translation on real-range segments by index.
func (s *Service) ApplyTranslation(ctx context.Context, batch segments.Batch, resp TranslateResponse) TranslateOutcome {
	logger := logging.WithContext(logging.WithChain(ctx, ChainTranslate), s.logger)
	byIndex := make(map[int]*segments.Segment, len(batch.Fetch))
	for _, seg := range batch.RealSegments() {
		byIndex[seg.Index] = seg
	}
	var out TranslateOutcome
	for _, t := range resp.Translations {
		if t.Index == nil {
			continue
		}
		seg, ok := byIndex[*t.Index]
		if !ok {
			out.Unresolved++
			logUnresolved(logger, "translation references segment outside batch", logging.Int(logging.FieldSegment, *t.Index))
			continue
		}
		seg.Translation = strings.TrimSpace(t.Translation)
		out.Translated++
	}
	return out
}
