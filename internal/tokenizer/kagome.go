package tokenizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	kagome "github.com/ikawaha/kagome/v2/tokenizer"

	"vocabsub/internal/vocab"
)

// KagomeTagger tags Japanese text with the kagome morphological analyzer
// and the IPA dictionary, mapping IPA part-of-speech labels onto the
// universal tag set.
type KagomeTagger struct {
	t *kagome.Tokenizer
}

// Load builds the analyzer. The IPA dictionary is embedded in the binary.
func (k *KagomeTagger) Load(context.Context) error {
	t, err := kagome.New(ipa.Dict(), kagome.OmitBosEos())
	if err != nil {
		return fmt.Errorf("kagome: %w", err)
	}
	k.t = t
	return nil
}

// Close releases the analyzer.
func (k *KagomeTagger) Close() error {
	k.t = nil
	return nil
}

// Tag analyzes text. IPA features are laid out as
// pos, sub1, sub2, sub3, conjugation type, conjugation form, base form,
// reading, pronunciation.
func (k *KagomeTagger) Tag(ctx context.Context, text string) ([]Token, error) {
	if k.t == nil {
		return nil, errors.New("kagome: not loaded")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []Token
	prevEntity := false
	for _, tok := range k.t.Tokenize(text) {
		if tok.Class == kagome.DUMMY || strings.TrimSpace(tok.Surface) == "" {
			continue
		}
		features := tok.Features()
		lemma := tok.Surface
		if len(features) > 6 && features[6] != "*" {
			lemma = features[6]
		}
		pos, isPunct, isStop, entity := mapIPA(features)
		iob := "O"
		if entity {
			iob = "B"
			if prevEntity {
				iob = "I"
			}
		}
		prevEntity = entity
		out = append(out, Token{
			Text:      tok.Surface,
			Lemma:     lemma,
			POS:       pos,
			IsStop:    isStop,
			IsPunct:   isPunct,
			EntityIOB: iob,
		})
	}
	return out, nil
}

func feature(features []string, i int) string {
	if i < len(features) {
		return features[i]
	}
	return ""
}

// mapIPA returns the universal tag plus punctuation, stop-word and named
// entity flags for one IPA feature list.
func mapIPA(features []string) (pos vocab.POS, isPunct, isStop, entity bool) {
	main, sub := feature(features, 0), feature(features, 1)
	switch main {
	case "名詞":
		switch sub {
		case "固有名詞":
			return vocab.PROPN, false, false, true
		case "代名詞":
			return vocab.PRON, false, true, false
		case "数":
			return vocab.NUM, false, false, false
		case "非自立", "接尾":
			return vocab.NOUN, false, true, false
		}
		return vocab.NOUN, false, false, false
	case "動詞":
		if sub == "非自立" || sub == "接尾" {
			return vocab.AUX, false, true, false
		}
		return vocab.VERB, false, false, false
	case "形容詞":
		if sub == "非自立" {
			return vocab.AUX, false, true, false
		}
		return vocab.ADJ, false, false, false
	case "副詞":
		return vocab.ADV, false, false, false
	case "助詞":
		if sub == "接続助詞" {
			return vocab.SCONJ, false, true, false
		}
		if sub == "終助詞" {
			return vocab.PART, false, true, false
		}
		return vocab.ADP, false, true, false
	case "助動詞":
		return vocab.AUX, false, true, false
	case "接続詞":
		return vocab.CCONJ, false, true, false
	case "連体詞":
		return vocab.DET, false, true, false
	case "感動詞", "フィラー":
		return vocab.INTJ, false, true, false
	case "記号":
		if sub == "一般" {
			return vocab.SYM, true, false, false
		}
		return vocab.PUNCT, true, false, false
	case "接頭詞":
		return vocab.X, false, true, false
	}
	return vocab.X, false, false, false
}
