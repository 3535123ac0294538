package vocab

import "strings"

// POS is a universal part-of-speech tag.
type POS string

const (
	ADJ   POS = "ADJ"
	ADP   POS = "ADP"
	ADV   POS = "ADV"
	AUX   POS = "AUX"
	CCONJ POS = "CCONJ"
	DET   POS = "DET"
	INTJ  POS = "INTJ"
	NOUN  POS = "NOUN"
	NUM   POS = "NUM"
	PART  POS = "PART"
	PRON  POS = "PRON"
	PROPN POS = "PROPN"
	PUNCT POS = "PUNCT"
	SCONJ POS = "SCONJ"
	SYM   POS = "SYM"
	VERB  POS = "VERB"
	X     POS = "X"
)

var allPOS = []POS{ADJ, ADP, ADV, AUX, CCONJ, DET, INTJ, NOUN, NUM, PART, PRON, PROPN, PUNCT, SCONJ, SYM, VERB, X}

// AllPOS returns the closed tag set in declaration order.
func AllPOS() []POS {
	out := make([]POS, len(allPOS))
	copy(out, allPOS)
	return out
}

// lexicon and service payloads use assorted spellings for the same tag
var posAliases = map[string]POS{
	"adjective":    ADJ,
	"adj.":         ADJ,
	"a":            ADJ,
	"adposition":   ADP,
	"preposition":  ADP,
	"prep":         ADP,
	"prep.":        ADP,
	"adverb":       ADV,
	"adv.":         ADV,
	"auxiliary":    AUX,
	"conjunction":  CCONJ,
	"conj":         CCONJ,
	"conj.":        CCONJ,
	"determiner":   DET,
	"article":      DET,
	"interjection": INTJ,
	"noun":         NOUN,
	"n":            NOUN,
	"n.":           NOUN,
	"number":       NUM,
	"numeral":      NUM,
	"particle":     PART,
	"pronoun":      PRON,
	"pron.":        PRON,
	"proper noun":  PROPN,
	"punctuation":  PUNCT,
	"symbol":       SYM,
	"verb":         VERB,
	"v":            VERB,
	"v.":           VERB,
	"vt":           VERB,
	"vi":           VERB,
}

// ParsePOS resolves a tag or one of its common spellings. Unknown values
// report false.
func ParsePOS(value string) (POS, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}
	upper := POS(strings.ToUpper(trimmed))
	for _, p := range allPOS {
		if p == upper {
			return p, true
		}
	}
	if p, ok := posAliases[strings.ToLower(trimmed)]; ok {
		return p, true
	}
	return "", false
}

// IsContent reports whether p belongs to the tags worth annotating: content
// words plus adpositions and conjunctions.
func (p POS) IsContent() bool {
	switch p {
	case NOUN, VERB, ADJ, ADV, ADP, CCONJ, SCONJ:
		return true
	}
	return false
}
