package lexicon

import (
	"sort"
	"strings"

	"github.com/kljensen/snowball"

	"vocabsub/internal/textutil"
	"vocabsub/internal/vocab"
)

// CEFREntry is one difficulty record for a lemma.
type CEFREntry struct {
	POS   string     `json:"pos"`
	Level vocab.CEFR `json:"level"`
	Notes string     `json:"notes,omitempty"`
}

// FrequencyEntry carries frequency rank, pronunciation and definitions.
type FrequencyEntry struct {
	Rank      int                   `json:"rank"`
	Phonetics vocab.Phonetics       `json:"phonetics"`
	PosDefs   []vocab.PosDefinition `json:"pos_defs,omitempty"`
}

// ExamEntry records membership of a lemma in one exam vocabulary list.
type ExamEntry struct {
	Rank       int    `json:"rank,omitempty"`
	Definition string `json:"definition,omitempty"`
}

// Data is the raw material for New. Keys need not be normalized.
type Data struct {
	Version   string
	Language  string
	CEFR      map[string][]CEFREntry
	Frequency map[string]FrequencyEntry
	Exams     map[string]map[string]ExamEntry
	Swear     []string
}

// Lexicon is an immutable bundle of dictionaries keyed by folded lemma.
type Lexicon struct {
	version  string
	language string
	cefr     map[string][]CEFREntry
	freq     map[string]FrequencyEntry
	exams    map[string]map[string]ExamEntry
	swear    map[string]struct{}

	// stem -> lemmas sharing it; only built for English
	stems map[string][]string
}

// New builds a Lexicon from in-memory data.
func New(data Data) *Lexicon {
	lex := &Lexicon{
		version:  strings.TrimSpace(data.Version),
		language: strings.ToLower(strings.TrimSpace(data.Language)),
		cefr:     make(map[string][]CEFREntry, len(data.CEFR)),
		freq:     make(map[string]FrequencyEntry, len(data.Frequency)),
		exams:    make(map[string]map[string]ExamEntry, len(data.Exams)),
		swear:    make(map[string]struct{}, len(data.Swear)),
	}
	if lex.language == "" {
		lex.language = "en"
	}
	for lemma, entries := range data.CEFR {
		key := textutil.FoldKey(lemma)
		if key == "" || len(entries) == 0 {
			continue
		}
		lex.cefr[key] = append(lex.cefr[key], entries...)
	}
	for lemma, entry := range data.Frequency {
		if key := textutil.FoldKey(lemma); key != "" {
			lex.freq[key] = entry
		}
	}
	for exam, list := range data.Exams {
		examID := strings.TrimSpace(exam)
		if examID == "" {
			continue
		}
		folded := make(map[string]ExamEntry, len(list))
		for lemma, entry := range list {
			if key := textutil.FoldKey(lemma); key != "" {
				folded[key] = entry
			}
		}
		lex.exams[examID] = folded
	}
	for _, word := range data.Swear {
		if key := textutil.FoldKey(word); key != "" {
			lex.swear[key] = struct{}{}
		}
	}
	if lex.language == "en" {
		lex.buildStemIndex()
	}
	return lex
}

func (l *Lexicon) buildStemIndex() {
	l.stems = make(map[string][]string)
	seen := make(map[string]struct{})
	add := func(lemma string) {
		if _, ok := seen[lemma]; ok {
			return
		}
		seen[lemma] = struct{}{}
		stem, err := snowball.Stem(lemma, "english", true)
		if err != nil || stem == "" {
			return
		}
		l.stems[stem] = append(l.stems[stem], lemma)
	}
	for lemma := range l.cefr {
		add(lemma)
	}
	for lemma := range l.freq {
		add(lemma)
	}
}

// stemFallback returns the single lemma sharing key's stem, if exactly one does.
func (l *Lexicon) stemFallback(key string) (string, bool) {
	if l.stems == nil || strings.ContainsAny(key, " '") {
		return "", false
	}
	stem, err := snowball.Stem(key, "english", true)
	if err != nil || stem == "" {
		return "", false
	}
	candidates := l.stems[stem]
	if len(candidates) != 1 || candidates[0] == key {
		return "", false
	}
	return candidates[0], true
}

// Version returns the version stamp of the loaded data.
func (l *Lexicon) Version() string { return l.version }

// Language returns the language code the lexicon describes.
func (l *Lexicon) Language() string { return l.language }

// LookupCEFR returns the difficulty for lemma. When the lemma has several
// entries, the one whose part of speech matches pos wins; otherwise the first
// listed entry is used.
func (l *Lexicon) LookupCEFR(lemma string, pos vocab.POS) (vocab.CEFR, bool) {
	key := textutil.FoldKey(lemma)
	entries, ok := l.cefr[key]
	if !ok {
		alt, found := l.stemFallback(key)
		if !found {
			return vocab.CEFRUnknown, false
		}
		entries, ok = l.cefr[alt]
		if !ok {
			return vocab.CEFRUnknown, false
		}
	}
	if pos != "" {
		for _, entry := range entries {
			if entryPOS, ok := vocab.ParsePOS(entry.POS); ok && entryPOS == pos && entry.Level.Known() {
				return entry.Level, true
			}
		}
	}
	for _, entry := range entries {
		if entry.Level.Known() {
			return entry.Level, true
		}
	}
	return vocab.CEFRUnknown, false
}

// Has reports whether lemma has its own difficulty or frequency entry. The
// stem fallback is not consulted.
func (l *Lexicon) Has(lemma string) bool {
	key := textutil.FoldKey(lemma)
	if _, ok := l.cefr[key]; ok {
		return true
	}
	_, ok := l.freq[key]
	return ok
}

// LookupFrequency returns the frequency/phonetics/definition record.
func (l *Lexicon) LookupFrequency(lemma string) (FrequencyEntry, bool) {
	key := textutil.FoldKey(lemma)
	if entry, ok := l.freq[key]; ok {
		return entry, true
	}
	if alt, ok := l.stemFallback(key); ok {
		entry, found := l.freq[alt]
		return entry, found
	}
	return FrequencyEntry{}, false
}

// LookupExams returns every exam list containing lemma, keyed by exam id.
func (l *Lexicon) LookupExams(lemma string) map[string]ExamEntry {
	key := textutil.FoldKey(lemma)
	if key == "" {
		return nil
	}
	var out map[string]ExamEntry
	for exam, list := range l.exams {
		entry, ok := list[key]
		if !ok {
			continue
		}
		if out == nil {
			out = make(map[string]ExamEntry)
		}
		out[exam] = entry
	}
	return out
}

// IsSwear reports whether lemma is on the swear-word list.
func (l *Lexicon) IsSwear(lemma string) bool {
	_, ok := l.swear[textutil.FoldKey(lemma)]
	return ok
}

// Summary describes the size of each dictionary.
type Summary struct {
	Version   string
	Language  string
	CEFR      int
	Frequency int
	Exams     map[string]int
	Swear     int
}

// Summary reports dictionary sizes for display.
func (l *Lexicon) Summary() Summary {
	exams := make(map[string]int, len(l.exams))
	for id, list := range l.exams {
		exams[id] = len(list)
	}
	return Summary{
		Version:   l.version,
		Language:  l.language,
		CEFR:      len(l.cefr),
		Frequency: len(l.freq),
		Exams:     exams,
		Swear:     len(l.swear),
	}
}

// ExamIDs returns the exam list identifiers in sorted order.
func (l *Lexicon) ExamIDs() []string {
	ids := make([]string, 0, len(l.exams))
	for id := range l.exams {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
