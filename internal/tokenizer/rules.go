package tokenizer

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"vocabsub/internal/textutil"
	"vocabsub/internal/vocab"
)

// RuleTagger is a dependency-free English tagger: a regex word splitter, a
// closed-class lexicon, suffix heuristics and an irregular lemma table. It is
// far less accurate than a statistical model but needs no model download.
type RuleTagger struct {
	// Known, when set, reports whether a lemma exists in the lexicon. It lets
	// the lemmatizer choose between candidate base forms.
	Known func(lemma string) bool
}

var ruleTokenPattern = regexp.MustCompile(`[\p{L}\p{M}]+(?:['’-][\p{L}\p{M}]+)*|\p{N}+(?:[.,:]\p{N}+)*|['’][\p{L}]+|[^\s\p{L}\p{N}]`)

var cliticPattern = regexp.MustCompile(`(?i)^([\p{L}]+?)(n['’]t|['’](?:s|d|m|re|ve|ll))$`)

// Load is a no-op; the rule tables are compiled in.
func (r *RuleTagger) Load(context.Context) error { return nil }

// Close is a no-op.
func (r *RuleTagger) Close() error { return nil }

// Tag splits text into tokens and assigns tags.
func (r *RuleTagger) Tag(ctx context.Context, text string) ([]Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var surfaces []string
	for _, raw := range ruleTokenPattern.FindAllString(text, -1) {
		if m := cliticPattern.FindStringSubmatch(raw); m != nil {
			surfaces = append(surfaces, m[1], m[2])
			continue
		}
		surfaces = append(surfaces, raw)
	}

	tokens := make([]Token, 0, len(surfaces))
	sentenceStart := true
	prevEntity := false
	for _, surface := range surfaces {
		tok := r.tagOne(surface, sentenceStart)
		if tok.POS == vocab.PROPN {
			if prevEntity {
				tok.EntityIOB = "I"
			} else {
				tok.EntityIOB = "B"
			}
			prevEntity = true
		} else {
			tok.EntityIOB = "O"
			prevEntity = false
		}
		tokens = append(tokens, tok)
		sentenceStart = tok.IsPunct && strings.ContainsAny(surface, ".!?…")
	}
	return tokens, nil
}

func (r *RuleTagger) tagOne(surface string, sentenceStart bool) Token {
	lower := textutil.FoldKey(surface)
	tok := Token{Text: surface, Lemma: lower}

	first, _ := firstRune(surface)
	switch {
	case unicode.IsPunct(first) && len([]rune(surface)) == 1:
		tok.POS = vocab.PUNCT
		tok.IsPunct = true
		return tok
	case unicode.IsSymbol(first):
		tok.POS = vocab.SYM
		tok.IsPunct = true
		return tok
	case unicode.IsDigit(first):
		tok.POS = vocab.NUM
		return tok
	}

	if lemma, ok := cliticLemmas[lower]; ok {
		tok.Lemma = lemma.lemma
		tok.POS = lemma.pos
		tok.IsStop = true
		return tok
	}
	if pos, ok := closedClass[lower]; ok {
		tok.POS = pos
		tok.IsStop = stopWords[lower]
		if lemma, ok := irregularLemmas[lower]; ok {
			tok.Lemma = lemma
		}
		return tok
	}
	tok.IsStop = stopWords[lower]

	if unicode.IsUpper(first) && !sentenceStart && lower != "i" {
		tok.POS = vocab.PROPN
		tok.Lemma = surface
		return tok
	}
	if lemma, ok := irregularLemmas[lower]; ok {
		tok.Lemma = lemma
		tok.POS = irregularPOS(lower)
		return tok
	}
	tok.POS = guessPOS(lower)
	tok.Lemma = r.lemmatize(lower, tok.POS)
	return tok
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}

var suffixPOS = []struct {
	suffix string
	pos    vocab.POS
}{
	{"ly", vocab.ADV},
	{"tion", vocab.NOUN}, {"sion", vocab.NOUN}, {"ment", vocab.NOUN},
	{"ness", vocab.NOUN}, {"ity", vocab.NOUN}, {"ance", vocab.NOUN},
	{"ence", vocab.NOUN}, {"ship", vocab.NOUN}, {"ism", vocab.NOUN},
	{"ous", vocab.ADJ}, {"ful", vocab.ADJ}, {"less", vocab.ADJ},
	{"able", vocab.ADJ}, {"ible", vocab.ADJ}, {"ive", vocab.ADJ},
	{"ical", vocab.ADJ}, {"ic", vocab.ADJ}, {"al", vocab.ADJ},
	{"ize", vocab.VERB}, {"ise", vocab.VERB}, {"ify", vocab.VERB},
	{"ed", vocab.VERB}, {"ing", vocab.VERB},
}

func guessPOS(lower string) vocab.POS {
	for _, rule := range suffixPOS {
		if len(lower) > len(rule.suffix)+2 && strings.HasSuffix(lower, rule.suffix) {
			return rule.pos
		}
	}
	return vocab.NOUN
}

func (r *RuleTagger) lemmatize(lower string, pos vocab.POS) string {
	var candidates []string
	switch pos {
	case vocab.VERB:
		switch {
		case strings.HasSuffix(lower, "ied"):
			candidates = append(candidates, lower[:len(lower)-3]+"y")
		case strings.HasSuffix(lower, "ed"):
			stem := lower[:len(lower)-2]
			candidates = append(candidates, stem+"e", stem, undouble(stem))
		case strings.HasSuffix(lower, "ing"):
			stem := lower[:len(lower)-3]
			candidates = append(candidates, stem+"e", stem, undouble(stem))
		}
	case vocab.NOUN:
		switch {
		case strings.HasSuffix(lower, "ies") && len(lower) > 4:
			candidates = append(candidates, lower[:len(lower)-3]+"y")
		case strings.HasSuffix(lower, "es") && len(lower) > 4:
			candidates = append(candidates, lower[:len(lower)-2], lower[:len(lower)-1])
		case strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss") && len(lower) > 3:
			candidates = append(candidates, lower[:len(lower)-1])
		}
	}
	if len(candidates) == 0 {
		return lower
	}
	if r.Known != nil {
		if r.Known(lower) && pos != vocab.VERB {
			return lower
		}
		for _, c := range candidates {
			if c != "" && r.Known(c) {
				return c
			}
		}
	}
	return fallbackLemma(lower, candidates)
}

// fallbackLemma picks a base form without a lexicon: "-e" is restored after
// the consonants that usually need it.
func fallbackLemma(lower string, candidates []string) string {
	if strings.HasSuffix(lower, "ied") || strings.HasSuffix(lower, "ies") {
		return candidates[0]
	}
	if strings.HasSuffix(lower, "ed") || strings.HasSuffix(lower, "ing") {
		stem := candidates[1]
		if undoubled := candidates[2]; undoubled != stem {
			return undoubled
		}
		if strings.HasSuffix(stem, "v") || strings.HasSuffix(stem, "c") || strings.HasSuffix(stem, "z") || strings.HasSuffix(stem, "u") || strings.HasSuffix(stem, "ever") || strings.HasSuffix(stem, "at") {
			return candidates[0]
		}
		return stem
	}
	return candidates[len(candidates)-1]
}

func undouble(stem string) string {
	n := len(stem)
	if n >= 3 && stem[n-1] == stem[n-2] && !strings.ContainsRune("aeiouls", rune(stem[n-1])) {
		return stem[:n-1]
	}
	return stem
}

func irregularPOS(lower string) vocab.POS {
	if pos, ok := irregularNounForms[lower]; ok {
		return pos
	}
	return vocab.VERB
}
