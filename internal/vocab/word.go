package vocab

import (
	"sort"
	"strings"
	"sync/atomic"
)

// LexicalFeature tags register or usage of a word as reported by enrichment.
type LexicalFeature string

const (
	FeatureFormal     LexicalFeature = "formal"
	FeatureInformal   LexicalFeature = "informal"
	FeatureSlang      LexicalFeature = "slang"
	FeatureIdiomatic  LexicalFeature = "idiomatic"
	FeatureTechnical  LexicalFeature = "technical"
	FeatureLiterary   LexicalFeature = "literary"
	FeatureArchaic    LexicalFeature = "archaic"
	FeaturePhrasal    LexicalFeature = "phrasal"
	FeatureOffensive  LexicalFeature = "offensive"
	FeatureColloquial LexicalFeature = "colloquial"
)

var knownFeatures = map[LexicalFeature]struct{}{
	FeatureFormal: {}, FeatureInformal: {}, FeatureSlang: {}, FeatureIdiomatic: {},
	FeatureTechnical: {}, FeatureLiterary: {}, FeatureArchaic: {}, FeaturePhrasal: {},
	FeatureOffensive: {}, FeatureColloquial: {},
}

// ParseFeatures normalizes and deduplicates features, dropping unknown tags.
func ParseFeatures(values []string) []LexicalFeature {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[LexicalFeature]struct{}, len(values))
	out := make([]LexicalFeature, 0, len(values))
	for _, v := range values {
		f := LexicalFeature(strings.ToLower(strings.TrimSpace(v)))
		if _, ok := knownFeatures[f]; !ok {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PosDefinition groups dictionary senses under one part of speech.
type PosDefinition struct {
	POS         string   `json:"pos"`
	Definitions []string `json:"definitions"`
}

// Phonetics holds pronunciation transcriptions.
type Phonetics struct {
	UK string `json:"uk,omitempty"`
	US string `json:"us,omitempty"`
}

// WordMetadata locates a word. StartPos/EndPos are byte offsets into the
// owning segment's clean text, never the styled line.
type WordMetadata struct {
	StartPos  int `json:"start_pos"`
	EndPos    int `json:"end_pos"`
	ContextID int `json:"context_id"`
	WordID    int `json:"word_id"`
}

// Word is one annotation candidate.
type Word struct {
	Text      string          `json:"text"`
	Lemma     string          `json:"lemma"`
	POS       POS             `json:"pos"`
	Meta      WordMetadata    `json:"meta"`
	CEFR      CEFR            `json:"cefr"`
	Exams     []string        `json:"exams,omitempty"`
	PosDefs   []PosDefinition `json:"pos_defs,omitempty"`
	Phonetics Phonetics       `json:"phonetics"`

	Translation     string           `json:"llm_translation,omitempty"`
	UsageContext    string           `json:"llm_usage_context,omitempty"`
	LexicalFeatures []LexicalFeature `json:"lexical_features,omitempty"`
}

// Enriched reports whether the enrichment chain has filled the word.
func (w *Word) Enriched() bool {
	return w != nil && strings.TrimSpace(w.Translation) != ""
}

// Relocate moves the word to a new span in its segment's clean text.
func (w *Word) Relocate(text string, start int) {
	w.Text = text
	w.Meta.StartPos = start
	w.Meta.EndPos = start + len(text)
}

// IDGenerator mints word IDs for a single run. It is an explicit value
// rather than a package-level counter so that runs never share IDs.
type IDGenerator struct {
	last atomic.Int64
}

// NewIDGenerator returns a generator whose first ID is first.
func NewIDGenerator(first int) *IDGenerator {
	g := &IDGenerator{}
	g.last.Store(int64(first) - 1)
	return g
}

// Next returns a fresh ID.
func (g *IDGenerator) Next() int {
	return int(g.last.Add(1))
}

// Last returns the most recently minted ID.
func (g *IDGenerator) Last() int {
	return int(g.last.Load())
}

// NewWord builds a candidate located at start in the clean text of segment
// contextID, minting its ID from ids.
func NewWord(ids *IDGenerator, text, lemma string, pos POS, contextID, start int) *Word {
	return &Word{
		Text:  text,
		Lemma: lemma,
		POS:   pos,
		Meta: WordMetadata{
			StartPos:  start,
			EndPos:    start + len(text),
			ContextID: contextID,
			WordID:    ids.Next(),
		},
	}
}
