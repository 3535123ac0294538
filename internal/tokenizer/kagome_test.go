package tokenizer

import (
	"context"
	"testing"

	"vocabsub/internal/vocab"
)

func TestKagomeTaggerMapsIPATags(t *testing.T) {
	tagger := &KagomeTagger{}
	if err := tagger.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer tagger.Close()

	tokens := tagText(t, tagger, "猫が走った。")
	cat, ok := findToken(tokens, "猫")
	if !ok || cat.POS != vocab.NOUN || cat.IsStop {
		t.Fatalf("unexpected 猫 token %+v", cat)
	}
	ga, ok := findToken(tokens, "が")
	if !ok || ga.POS != vocab.ADP || !ga.IsStop {
		t.Fatalf("unexpected が token %+v", ga)
	}
	run, ok := findToken(tokens, "走っ")
	if !ok || run.Lemma != "走る" || run.POS != vocab.VERB {
		t.Fatalf("unexpected 走っ token %+v", run)
	}
	period, ok := findToken(tokens, "。")
	if !ok || !period.IsPunct {
		t.Fatalf("unexpected 。 token %+v", period)
	}
}

func TestKagomeTaggerRequiresLoad(t *testing.T) {
	if _, err := (&KagomeTagger{}).Tag(context.Background(), "猫"); err == nil {
		t.Fatal("expected error before Load")
	}
}

func TestMapIPAProperNoun(t *testing.T) {
	pos, punct, stop, entity := mapIPA([]string{"名詞", "固有名詞", "人名", "姓"})
	if pos != vocab.PROPN || punct || stop || !entity {
		t.Fatalf("unexpected mapping %v %v %v %v", pos, punct, stop, entity)
	}
}
