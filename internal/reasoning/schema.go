package reasoning

import (
	"fmt"
	"strings"

	"vocabsub/internal/vocab"
)

// SegmentLine is one subtitle line as shown to the service.
type SegmentLine struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// CandidateView is a candidate as sent in the feedback request.
type CandidateView struct {
	WordID  int        `json:"word_id"`
	Segment int        `json:"segment"`
	Text    string     `json:"text"`
	Lemma   string     `json:"lemma"`
	CEFR    vocab.CEFR `json:"cefr"`
	POS     vocab.POS  `json:"pos"`
}

// FeedbackRequest asks the service to review and extend the candidates.
type FeedbackRequest struct {
	Text       string          `json:"text"`
	Segments   []SegmentLine   `json:"segments"`
	Candidates []CandidateView `json:"candidates"`
}

// Verdict is the service's decision on one existing candidate.
type Verdict struct {
	WordID     int    `json:"word_id"`
	ShouldKeep *bool  `json:"should_keep"`
	Text       string `json:"text,omitempty"`
	Lemma      string `json:"lemma,omitempty"`
	POS        string `json:"pos,omitempty"`
}

// Keep reports the verdict's should_keep value.
func (v Verdict) Keep() bool {
	return v.ShouldKeep != nil && *v.ShouldKeep
}

// ProposedWord is a word the service found that the heuristics missed. It
// carries no id; Segment is an optional hint.
type ProposedWord struct {
	Text    string `json:"text"`
	Lemma   string `json:"lemma"`
	POS     string `json:"pos"`
	Segment *int   `json:"segment,omitempty"`
}

// FeedbackResponse is the feedback chain's reply.
type FeedbackResponse struct {
	Words    []Verdict      `json:"words"`
	NewWords []ProposedWord `json:"new_words"`
}

// Validate checks the response shape.
func (r *FeedbackResponse) Validate() error {
	for i, v := range r.Words {
		if v.WordID <= 0 {
			return fmt.Errorf("%w: words[%d]: word_id must be positive", ErrSchema, i)
		}
		if v.ShouldKeep == nil {
			return fmt.Errorf("%w: words[%d]: should_keep is required", ErrSchema, i)
		}
		if err := validPOS(v.POS); err != nil {
			return fmt.Errorf("%w: words[%d]: %v", ErrSchema, i, err)
		}
	}
	for i, w := range r.NewWords {
		if strings.TrimSpace(w.Text) == "" {
			return fmt.Errorf("%w: new_words[%d]: text is required", ErrSchema, i)
		}
		if err := validPOS(w.POS); err != nil {
			return fmt.Errorf("%w: new_words[%d]: %v", ErrSchema, i, err)
		}
	}
	return nil
}

// EnrichCandidate is a surviving candidate as sent for enrichment.
type EnrichCandidate struct {
	WordID          int                   `json:"word_id"`
	Text            string                `json:"text"`
	Lemma           string                `json:"lemma"`
	POS             vocab.POS             `json:"pos"`
	ExistingPosDefs []vocab.PosDefinition `json:"existing_pos_defs,omitempty"`
}

// EnrichRequest asks for translations and usage notes.
type EnrichRequest struct {
	Text           string            `json:"text"`
	TargetLanguage string            `json:"target_language"`
	Words          []EnrichCandidate `json:"words"`
}

// Enrichment is the service's data for one word.
type Enrichment struct {
	WordID          int      `json:"word_id"`
	Translation     string   `json:"translation"`
	UsageContext    string   `json:"usage_context,omitempty"`
	LexicalFeatures []string `json:"lexical_features,omitempty"`
}

// EnrichResponse is the enrichment chain's reply.
type EnrichResponse struct {
	Words []Enrichment `json:"words"`
}

// Validate checks the response shape.
func (r *EnrichResponse) Validate() error {
	for i, e := range r.Words {
		if e.WordID <= 0 {
			return fmt.Errorf("%w: words[%d]: word_id must be positive", ErrSchema, i)
		}
		if strings.TrimSpace(e.Translation) == "" {
			return fmt.Errorf("%w: words[%d]: translation is required", ErrSchema, i)
		}
	}
	return nil
}

// TranslateRequest asks for one translation per real-range line.
type TranslateRequest struct {
	TargetLanguage string        `json:"target_language"`
	Lines          []SegmentLine `json:"lines"`
}

// LineTranslation is one translated line.
type LineTranslation struct {
	Index       *int   `json:"index"`
	Translation string `json:"translation"`
}

// TranslateResponse is the translation chain's reply.
type TranslateResponse struct {
	Translations []LineTranslation `json:"translations"`
}

// Validate checks the response shape.
func (r *TranslateResponse) Validate() error {
	for i, t := range r.Translations {
		if t.Index == nil {
			return fmt.Errorf("%w: translations[%d]: index is required", ErrSchema, i)
		}
		if strings.TrimSpace(t.Translation) == "" {
			return fmt.Errorf("%w: translations[%d]: translation is required", ErrSchema, i)
		}
	}
	return nil
}

func validPOS(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	if _, ok := vocab.ParsePOS(value); !ok {
		return fmt.Errorf("unknown pos %q", value)
	}
	return nil
}
