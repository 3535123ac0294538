package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"vocabsub/internal/lexicon"
	"vocabsub/internal/segments"
	"vocabsub/internal/textutil"
	"vocabsub/internal/tokenizer"
	"vocabsub/internal/vocab"
)

// Lexicon is the lookup surface the extractor needs.
type Lexicon interface {
	LookupCEFR(lemma string, pos vocab.POS) (vocab.CEFR, bool)
	LookupFrequency(lemma string) (lexicon.FrequencyEntry, bool)
	LookupExams(lemma string) map[string]lexicon.ExamEntry
	IsSwear(lemma string) bool
}

var fillerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(first|second|third|fourth|fifth|sixth|seventh|eighth|ninth|tenth|eleventh|twelfth|thirteenth|fourteenth|fifteenth|sixteenth|seventeenth|eighteenth|nineteenth|twentieth|thirtieth|fortieth|fiftieth|hundredth|thousandth)$`),
	regexp.MustCompile(`^\d+(st|nd|rd|th)$`),
	regexp.MustCompile(`^'(s|d|t|m|re|ve|ll)$`),
	regexp.MustCompile(`^n't$`),
	regexp.MustCompile(`^i'm$`),
}

// IsFiller reports whether a folded lemma is an ordinal spelling or a
// contraction fragment.
func IsFiller(lemma string) bool {
	key := textutil.FoldKey(lemma)
	for _, p := range fillerPatterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

// Extractor builds candidates for one run. It mints ids from the run's
// generator and suppresses levels at or below the learner's ceiling.
type Extractor struct {
	lex      Lexicon
	ids      *vocab.IDGenerator
	ceiling  vocab.CEFR
	interest func(vocab.POS) bool
}

// New returns an Extractor. A zero ceiling disables suppression.
func New(lex Lexicon, ids *vocab.IDGenerator, ceiling vocab.CEFR) *Extractor {
	return &Extractor{
		lex:      lex,
		ids:      ids,
		ceiling:  ceiling,
		interest: vocab.POS.IsContent,
	}
}

// Ceiling returns the learner's known ceiling.
func (e *Extractor) Ceiling() vocab.CEFR { return e.ceiling }

// Extract filters tokens of seg's clean text into candidates, in detection
// order. Tokens whose surface cannot be found in the clean text are dropped.
func (e *Extractor) Extract(seg *segments.Segment, tokens []tokenizer.Token) []*vocab.Word {
	clean := seg.CleanText()
	seen := make(map[string]struct{})
	cursor := 0
	var out []*vocab.Word

	for _, tok := range tokens {
		start := -1
		if tok.Text != "" {
			if idx := strings.Index(clean[cursor:], tok.Text); idx >= 0 {
				start = cursor + idx
				cursor = start + len(tok.Text)
			}
		}

		if utf8.RuneCountInString(tok.Text) <= 1 || tok.IsStop || tok.IsPunct || tok.InEntity() {
			continue
		}
		if !e.interest(tok.POS) {
			continue
		}
		lemma := strings.TrimSpace(tok.Lemma)
		if lemma == "" {
			lemma = tok.Text
		}
		key := textutil.FoldKey(lemma)
		if e.lex.IsSwear(key) || IsFiller(key) {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if start < 0 {
			continue
		}

		word := vocab.NewWord(e.ids, tok.Text, key, tok.POS, seg.Index, start)
		Resolve(e.lex, word)
		if word.CEFR.SuppressedBy(e.ceiling) {
			continue
		}
		out = append(out, word)
	}
	return out
}

// Admit applies the acceptance rules for a service-proposed word: its text
// must occur verbatim as a whole word in the clean text, no candidate may already carry that
// text, its lemma must not be a swear word, and its resolved level must be
// above the ceiling. Unknown levels are accepted.
func (e *Extractor) Admit(seg *segments.Segment, text, lemma string, pos vocab.POS) (*vocab.Word, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}
	start := textutil.IndexWord(seg.CleanText(), text, 0)
	if start < 0 || seg.HasText(text) {
		return nil, false
	}
	key := textutil.FoldKey(lemma)
	if key == "" {
		key = textutil.FoldKey(text)
	}
	if e.lex.IsSwear(key) {
		return nil, false
	}
	probe := &vocab.Word{Text: text, Lemma: key, POS: pos}
	Resolve(e.lex, probe)
	if probe.CEFR.SuppressedBy(e.ceiling) {
		return nil, false
	}
	word := vocab.NewWord(e.ids, text, key, pos, seg.Index, start)
	word.CEFR = probe.CEFR
	word.Exams = probe.Exams
	word.PosDefs = probe.PosDefs
	word.Phonetics = probe.Phonetics
	return word, true
}

// Resolve re-reads w's lexicon fields, used after a lemma or pos correction.
func (e *Extractor) Resolve(w *vocab.Word) {
	Resolve(e.lex, w)
}

// Resolve fills w's lexicon fields from its lemma and part of speech. Missing
// entries leave the fields empty.
func Resolve(lex Lexicon, w *vocab.Word) {
	if level, ok := lex.LookupCEFR(w.Lemma, w.POS); ok {
		w.CEFR = level
	} else {
		w.CEFR = vocab.CEFRUnknown
	}
	if exams := lex.LookupExams(w.Lemma); len(exams) > 0 {
		ids := make([]string, 0, len(exams))
		for id := range exams {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		w.Exams = ids
	} else {
		w.Exams = nil
	}
	if entry, ok := lex.LookupFrequency(w.Lemma); ok {
		w.PosDefs = entry.PosDefs
		w.Phonetics = entry.Phonetics
	}
}
