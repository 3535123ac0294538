package reasoning

import (
	"context"
	"log/slog"
	"strings"

	"vocabsub/internal/logging"
	"vocabsub/internal/segments"
	"vocabsub/internal/textutil"
	"vocabsub/internal/vocab"
)

// FeedbackOutcome counts what one feedback round changed.
type FeedbackOutcome struct {
	Kept       int
	Removed    int
	Corrected  int
	StaleText  int
	Added      int
	OutOfRange int
	Unresolved int
	Rejected   int
}

// Feedback asks the service to review the batch's candidates and applies
// the reply to the real range.
func (s *Service) Feedback(ctx context.Context, batch segments.Batch) (FeedbackOutcome, error) {
	req := FeedbackRequest{
		Text:       batch.Text(),
		Segments:   segmentLines(batch.Fetch),
		Candidates: make([]CandidateView, 0),
	}
	for _, w := range batch.Words() {
		req.Candidates = append(req.Candidates, CandidateView{
			WordID:  w.Meta.WordID,
			Segment: w.Meta.ContextID,
			Text:    w.Text,
			Lemma:   w.Lemma,
			CEFR:    w.CEFR,
			POS:     w.POS,
		})
	}
	prompt, err := userPrompt(req)
	if err != nil {
		return FeedbackOutcome{}, err
	}
	resp, err := call[FeedbackResponse](ctx, s, ChainFeedback, s.feedbackSystemPrompt(), prompt)
	if err != nil {
		return FeedbackOutcome{}, err
	}
	return s.ApplyFeedback(ctx, batch, resp), nil
}

// ApplyFeedback applies verdicts and proposed words. Verdicts on segments
// outside the real range are ignored; proposed words only land in real-range
// segments.
func (s *Service) ApplyFeedback(ctx context.Context, batch segments.Batch, resp FeedbackResponse) FeedbackOutcome {
	logger := logging.WithContext(logging.WithChain(ctx, ChainFeedback), s.logger)
	var out FeedbackOutcome

	for _, v := range resp.Words {
		seg, word := findInFetch(batch, v.WordID)
		if word == nil {
			out.Unresolved++
			logUnresolved(logger, "feedback references unknown word", logging.Int(logging.FieldWordID, v.WordID))
			continue
		}
		if !batch.Real.Contains(seg.Index) {
			out.OutOfRange++
			continue
		}
		if !v.Keep() {
			seg.RemoveWord(word.Meta.WordID)
			out.Removed++
			logger.Debug("candidate dropped",
				logging.Args(append(logging.DecisionAttrs("feedback_verdict", "drop", "should_keep=false"),
					logging.Int(logging.FieldWordID, word.Meta.WordID),
					logging.String("text", word.Text),
				)...)...,
			)
			continue
		}
		out.Kept++
		if s.applyCorrection(logger, seg, word, v) {
			out.Corrected++
		} else if text := strings.TrimSpace(v.Text); text != "" && text != word.Text {
			out.StaleText++
		}
	}

	home := batch.RealSegments()
	for _, p := range resp.NewWords {
		pos, _ := vocab.ParsePOS(p.POS)
		if s.admit(home, p, pos) {
			out.Added++
		} else {
			out.Rejected++
			logger.Debug("proposed word rejected",
				logging.Args(append(logging.DecisionAttrs("feedback_new_word", "reject", "not verifiable against a real-range segment"),
					logging.String("text", p.Text),
				)...)...,
			)
		}
	}

	logger.Info("feedback applied",
		logging.Int(logging.FieldBatch, batch.Number),
		logging.Int("kept", out.Kept),
		logging.Int("removed", out.Removed),
		logging.Int("corrected", out.Corrected),
		logging.Int("added", out.Added),
		logging.Int("out_of_range", out.OutOfRange),
	)
	return out
}

// applyCorrection applies lemma and pos corrections unconditionally and a
// text correction only when the new text can be located near the old span.
// It reports whether the text was relocated.
func (s *Service) applyCorrection(logger *slog.Logger, seg *segments.Segment, word *vocab.Word, v Verdict) bool {
	relexed := false
	if lemma := textutil.FoldKey(v.Lemma); lemma != "" && lemma != word.Lemma {
		word.Lemma = lemma
		relexed = true
	}
	if pos, ok := vocab.ParsePOS(v.POS); ok && pos != word.POS {
		word.POS = pos
		relexed = true
	}
	if relexed {
		s.extractor.Resolve(word)
	}

	text := strings.TrimSpace(v.Text)
	if text == "" || text == word.Text {
		return false
	}
	start, ok := Relocate(seg.CleanText(), word.Meta.StartPos, text)
	if !ok {
		logger.Debug("text correction not found; keeping original span",
			logging.Int(logging.FieldWordID, word.Meta.WordID),
			logging.String("old_text", word.Text),
			logging.String("new_text", text),
		)
		return false
	}
	word.Relocate(text, start)
	return true
}

// Relocate searches clean for text inside a window around oldStart whose
// radius is len(clean)-len(text). Only whole-word matches count; among them it
// returns the one closest to oldStart.
func Relocate(clean string, oldStart int, text string) (int, bool) {
	if text == "" || len(text) > len(clean) {
		return 0, false
	}
	radius := len(clean) - len(text)
	lo := max(oldStart-radius, 0)
	hi := min(oldStart+radius+len(text), len(clean))
	if lo >= hi {
		return 0, false
	}
	best, bestDist := -1, 0
	for from := lo; from <= hi-len(text); {
		start := textutil.IndexWord(clean, text, from)
		if start < 0 || start+len(text) > hi {
			break
		}
		dist := start - oldStart
		if dist < 0 {
			dist = -dist
		}
		if best < 0 || dist < bestDist {
			best, bestDist = start, dist
		}
		from = start + 1
	}
	return best, best >= 0
}

func (s *Service) admit(home []*segments.Segment, p ProposedWord, pos vocab.POS) bool {
	if p.Segment != nil {
		for _, seg := range home {
			if seg.Index != *p.Segment {
				continue
			}
			if word, ok := s.extractor.Admit(seg, p.Text, p.Lemma, pos); ok {
				seg.Candidates = append(seg.Candidates, word)
				return true
			}
		}
	}
	for _, seg := range home {
		if word, ok := s.extractor.Admit(seg, p.Text, p.Lemma, pos); ok {
			seg.Candidates = append(seg.Candidates, word)
			return true
		}
	}
	return false
}

func findInFetch(batch segments.Batch, wordID int) (*segments.Segment, *vocab.Word) {
	for _, seg := range batch.Fetch {
		if w := seg.FindWord(wordID); w != nil {
			return seg, w
		}
	}
	return nil, nil
}

func segmentLines(segs []*segments.Segment) []SegmentLine {
	lines := make([]SegmentLine, 0, len(segs))
	for _, seg := range segs {
		lines = append(lines, SegmentLine{Index: seg.Index, Text: strings.TrimSpace(seg.CleanText())})
	}
	return lines
}
