package tokenizer

import (
	"context"
	"testing"

	"vocabsub/internal/vocab"
)

func tagText(t *testing.T, tagger Tagger, text string) []Token {
	t.Helper()
	tokens, err := tagger.Tag(context.Background(), text)
	if err != nil {
		t.Fatalf("Tag(%q): %v", text, err)
	}
	return tokens
}

func findToken(tokens []Token, text string) (Token, bool) {
	for _, tok := range tokens {
		if tok.Text == text {
			return tok, true
		}
	}
	return Token{}, false
}

func TestRuleTaggerBasicSentence(t *testing.T) {
	tokens := tagText(t, &RuleTagger{}, "The cat sat on the mat.")
	if len(tokens) != 7 {
		t.Fatalf("expected 7 tokens, got %d: %+v", len(tokens), tokens)
	}
	cases := []struct {
		text  string
		lemma string
		pos   vocab.POS
		stop  bool
	}{
		{"The", "the", vocab.DET, true},
		{"cat", "cat", vocab.NOUN, false},
		{"sat", "sit", vocab.VERB, false},
		{"on", "on", vocab.ADP, true},
		{"mat", "mat", vocab.NOUN, false},
	}
	for _, tc := range cases {
		tok, ok := findToken(tokens, tc.text)
		if !ok {
			t.Fatalf("missing token %q", tc.text)
		}
		if tok.Lemma != tc.lemma || tok.POS != tc.pos || tok.IsStop != tc.stop {
			t.Fatalf("token %q = %+v", tc.text, tok)
		}
	}
	if last := tokens[len(tokens)-1]; !last.IsPunct || last.POS != vocab.PUNCT {
		t.Fatalf("expected trailing punctuation, got %+v", last)
	}
}

func TestRuleTaggerLemmasAndContent(t *testing.T) {
	tokens := tagText(t, &RuleTagger{}, "Nevertheless, she persevered.")
	nev, _ := findToken(tokens, "Nevertheless")
	if nev.POS != vocab.ADV || nev.IsStop {
		t.Fatalf("unexpected Nevertheless token %+v", nev)
	}
	per, _ := findToken(tokens, "persevered")
	if per.Lemma != "persevere" || per.POS != vocab.VERB {
		t.Fatalf("unexpected persevered token %+v", per)
	}
}

func TestRuleTaggerSplitsClitics(t *testing.T) {
	tokens := tagText(t, &RuleTagger{}, "I'm sure she's stopped.")
	texts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		texts = append(texts, tok.Text)
	}
	want := []string{"I", "'m", "sure", "she", "'s", "stopped", "."}
	if len(texts) != len(want) {
		t.Fatalf("tokens = %v, want %v", texts, want)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Fatalf("tokens = %v, want %v", texts, want)
		}
	}
	stopped, _ := findToken(tokens, "stopped")
	if stopped.Lemma != "stop" {
		t.Fatalf("expected undoubled lemma, got %q", stopped.Lemma)
	}
}

func TestRuleTaggerProperNounEntities(t *testing.T) {
	tokens := tagText(t, &RuleTagger{}, "We met John Smith yesterday.")
	john, _ := findToken(tokens, "John")
	smith, _ := findToken(tokens, "Smith")
	if john.EntityIOB != "B" || smith.EntityIOB != "I" || !john.InEntity() {
		t.Fatalf("unexpected entity tags %+v %+v", john, smith)
	}
}

func TestRuleTaggerUsesKnownLemmas(t *testing.T) {
	known := map[string]bool{"cover": true}
	tagger := &RuleTagger{Known: func(l string) bool { return known[l] }}
	tokens := tagText(t, tagger, "They covered it.")
	tok, _ := findToken(tokens, "covered")
	if tok.Lemma != "cover" {
		t.Fatalf("expected lexicon-guided lemma, got %q", tok.Lemma)
	}
}
