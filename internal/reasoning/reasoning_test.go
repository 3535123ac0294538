package reasoning

import (
	"context"
	"errors"
	"strings"
	"testing"

	"vocabsub/internal/extract"
	"vocabsub/internal/lexicon"
	"vocabsub/internal/segments"
	"vocabsub/internal/vocab"
)

type scriptedCompleter struct {
	responses []string
	calls     int
	systems   []string
	users     []string
}

func (c *scriptedCompleter) CompleteJSON(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	c.systems = append(c.systems, systemPrompt)
	c.users = append(c.users, userPrompt)
	idx := c.calls
	c.calls++
	if idx >= len(c.responses) {
		return "", errors.New("no scripted response")
	}
	return c.responses[idx], nil
}

type memoryCache struct {
	entries map[string]string
	chains  map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]string{}, chains: map[string]string{}}
}

func (c *memoryCache) GetResponse(_ context.Context, key string) (string, bool, error) {
	payload, ok := c.entries[key]
	return payload, ok, nil
}

func (c *memoryCache) PutResponse(_ context.Context, key, chain, payload string) error {
	c.entries[key] = payload
	c.chains[key] = chain
	return nil
}

func testLexicon() *lexicon.Lexicon {
	return lexicon.New(lexicon.Data{
		Language: "en",
		CEFR: map[string][]lexicon.CEFREntry{
			"nevertheless": {{POS: "adverb", Level: vocab.B2}},
			"persevere":    {{POS: "verb", Level: vocab.C1}},
			"give":         {{POS: "verb", Level: vocab.A1}},
			"stubborn":     {{POS: "adjective", Level: vocab.B2}},
		},
		Swear: []string{"damn"},
	})
}

type fixture struct {
	ids  *vocab.IDGenerator
	list *segments.List
	svc  *Service
	comp *scriptedCompleter
}

func newFixture(t *testing.T, lines ...string) *fixture {
	t.Helper()
	segs := make([]*segments.Segment, 0, len(lines))
	for i, line := range lines {
		segs = append(segs, &segments.Segment{Index: i + 1, Plaintext: line})
	}
	ids := vocab.NewIDGenerator(1)
	comp := &scriptedCompleter{}
	ex := extract.New(testLexicon(), ids, vocab.A2)
	return &fixture{
		ids:  ids,
		list: segments.NewList(segs),
		svc:  New(comp, ex, WithAttempts(3)),
		comp: comp,
	}
}

func (f *fixture) addWord(t *testing.T, segIndex int, text, lemma string, pos vocab.POS) *vocab.Word {
	t.Helper()
	seg, ok := f.list.ByIndex(segIndex)
	if !ok {
		t.Fatalf("no segment %d", segIndex)
	}
	start := strings.Index(seg.CleanText(), text)
	if start < 0 {
		t.Fatalf("%q not in segment %d", text, segIndex)
	}
	w := vocab.NewWord(f.ids, text, lemma, pos, segIndex, start)
	seg.Candidates = append(seg.Candidates, w)
	return w
}

func TestFeedbackIgnoresVerdictsOutsideRealRange(t *testing.T) {
	f := newFixture(t, "Nevertheless, it worked.", "She persevered anyway.", "Fine.")
	nev := f.addWord(t, 1, "Nevertheless", "nevertheless", vocab.ADV)
	per := f.addWord(t, 2, "persevered", "persevere", vocab.VERB)

	batches := f.list.Batches(1, 1)
	middle := batches[1]
	if middle.Real.First != 2 || middle.Real.Last != 2 || len(middle.Fetch) != 3 {
		t.Fatalf("unexpected batch %+v", middle)
	}

	resp := FeedbackResponse{Words: []Verdict{
		{WordID: nev.Meta.WordID, ShouldKeep: boolPtr(false)},
		{WordID: per.Meta.WordID, ShouldKeep: boolPtr(false)},
		{WordID: 999, ShouldKeep: boolPtr(false)},
	}}
	out := f.svc.ApplyFeedback(context.Background(), middle, resp)

	first, _ := f.list.ByIndex(1)
	second, _ := f.list.ByIndex(2)
	if first.FindWord(nev.Meta.WordID) == nil {
		t.Fatal("verdict for a boundary segment must be ignored")
	}
	if second.FindWord(per.Meta.WordID) != nil {
		t.Fatal("expected real-range word to be removed")
	}
	if out.OutOfRange != 1 || out.Removed != 1 || out.Unresolved != 1 {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestFeedbackTextCorrection(t *testing.T) {
	f := newFixture(t, "She gave up on it.")
	gave := f.addWord(t, 1, "gave", "give", vocab.VERB)
	batch := f.list.Batches(8, 0)[0]

	out := f.svc.ApplyFeedback(context.Background(), batch, FeedbackResponse{Words: []Verdict{
		{WordID: gave.Meta.WordID, ShouldKeep: boolPtr(true), Text: "gave up", Lemma: "give up"},
	}})
	if out.Corrected != 1 {
		t.Fatalf("expected one correction, got %+v", out)
	}
	if gave.Text != "gave up" || gave.Meta.StartPos != 4 || gave.Meta.EndPos != 11 || gave.Lemma != "give up" {
		t.Fatalf("unexpected corrected word %+v", gave)
	}
	seg, _ := f.list.ByIndex(1)
	if seg.CleanText()[gave.Meta.StartPos:gave.Meta.EndPos] != gave.Text {
		t.Fatal("corrected offsets must slice the clean text")
	}
}

func TestFeedbackUnlocatableTextKeepsStaleSpan(t *testing.T) {
	f := newFixture(t, "She gave up on it.")
	gave := f.addWord(t, 1, "gave", "give", vocab.VERB)
	batch := f.list.Batches(8, 0)[0]

	out := f.svc.ApplyFeedback(context.Background(), batch, FeedbackResponse{Words: []Verdict{
		{WordID: gave.Meta.WordID, ShouldKeep: boolPtr(true), Text: "surrendered", Lemma: "surrender", POS: "verb"},
	}})
	if out.Corrected != 0 || out.StaleText != 1 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if gave.Text != "gave" || gave.Meta.StartPos != 4 || gave.Meta.EndPos != 8 {
		t.Fatalf("text and offsets must be kept, got %+v", gave)
	}
	if gave.Lemma != "surrender" {
		t.Fatalf("lemma correction is still applied, got %q", gave.Lemma)
	}
}

func TestFeedbackAdmitsOnlyVerifiableNewWords(t *testing.T) {
	f := newFixture(t, "Damn, she is stubborn.", "She gave up.")
	f.addWord(t, 2, "gave", "give", vocab.VERB)
	batch := f.list.Batches(8, 0)[0]
	before := f.ids.Last()

	seg2 := 2
	out := f.svc.ApplyFeedback(context.Background(), batch, FeedbackResponse{NewWords: []ProposedWord{
		{Text: "stubborn", Lemma: "stubborn", POS: "ADJ"},
		{Text: "gave up", Lemma: "give up", POS: "VERB", Segment: &seg2},
		{Text: "Damn", Lemma: "damn", POS: "INTJ"},
		{Text: "gave", Lemma: "give", POS: "VERB"},
		{Text: "obstinate", Lemma: "obstinate", POS: "ADJ"},
	}})
	if out.Added != 2 || out.Rejected != 3 {
		t.Fatalf("unexpected outcome %+v", out)
	}

	first, _ := f.list.ByIndex(1)
	second, _ := f.list.ByIndex(2)
	if len(first.Candidates) != 1 || first.Candidates[0].Text != "stubborn" || first.Candidates[0].CEFR != vocab.B2 {
		t.Fatalf("unexpected first segment candidates %+v", first.Candidates)
	}
	if len(second.Candidates) != 2 || second.Candidates[1].Text != "gave up" {
		t.Fatalf("unexpected second segment candidates %+v", second.Candidates)
	}
	for _, seg := range []*segments.Segment{first, second} {
		for _, w := range seg.Candidates {
			if seg.CleanText()[w.Meta.StartPos:w.Meta.EndPos] != w.Text {
				t.Fatalf("offsets of %q do not slice the clean text", w.Text)
			}
		}
	}
	if f.ids.Last() != before+2 {
		t.Fatalf("expected two fresh ids, last went from %d to %d", before, f.ids.Last())
	}
}

func TestFeedbackReaddedWordGetsFreshID(t *testing.T) {
	f := newFixture(t, "She persevered anyway.")
	per := f.addWord(t, 1, "persevered", "persevere", vocab.VERB)
	batch := f.list.Batches(8, 0)[0]

	out := f.svc.ApplyFeedback(context.Background(), batch, FeedbackResponse{
		Words:    []Verdict{{WordID: per.Meta.WordID, ShouldKeep: boolPtr(false)}},
		NewWords: []ProposedWord{{Text: "persevered", Lemma: "persevere", POS: "VERB"}},
	})
	if out.Removed != 1 || out.Added != 1 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	seg, _ := f.list.ByIndex(1)
	if len(seg.Candidates) != 1 {
		t.Fatalf("expected one candidate, got %+v", seg.Candidates)
	}
	readded := seg.Candidates[0]
	if readded.Text != "persevered" || readded.Meta.WordID == per.Meta.WordID {
		t.Fatalf("re-added word must carry a new id, got %d (removed %d)", readded.Meta.WordID, per.Meta.WordID)
	}
	if seg.FindWord(per.Meta.WordID) != nil {
		t.Fatal("removed id must not resolve any more")
	}
}

func TestFeedbackRetriesSchemaFailures(t *testing.T) {
	f := newFixture(t, "She persevered anyway.")
	per := f.addWord(t, 1, "persevered", "persevere", vocab.VERB)
	f.comp.responses = []string{
		"I cannot comply",
		`{"words":[{"word_id":0,"should_keep":true}]}`,
		"```json\n{\"words\":[{\"word_id\":1,\"should_keep\":true}],\"new_words\":[]}\n```",
	}
	out, err := f.svc.Feedback(context.Background(), f.list.Batches(8, 0)[0])
	if err != nil {
		t.Fatalf("Feedback returned error: %v", err)
	}
	if f.comp.calls != 3 || out.Kept != 1 || per.Meta.WordID != 1 {
		t.Fatalf("unexpected calls=%d outcome=%+v", f.comp.calls, out)
	}
	if !strings.Contains(f.comp.users[0], `"word_id": 1`) || !strings.Contains(f.comp.systems[0], "CEFR A2") {
		t.Fatalf("request missing candidate or ceiling:\n%s\n%s", f.comp.systems[0], f.comp.users[0])
	}
}

func TestFeedbackExhaustsRetries(t *testing.T) {
	f := newFixture(t, "She persevered anyway.")
	per := f.addWord(t, 1, "persevered", "persevere", vocab.VERB)
	f.comp.responses = []string{`{"words":[{"word_id":1}]}`, `{"words":[{"word_id":1}]}`, `{"words":[{"word_id":1}]}`}

	_, err := f.svc.Feedback(context.Background(), f.list.Batches(8, 0)[0])
	if !errors.Is(err, ErrExhausted) || !errors.Is(err, ErrSchema) {
		t.Fatalf("expected exhausted schema error, got %v", err)
	}
	seg, _ := f.list.ByIndex(1)
	if seg.FindWord(per.Meta.WordID) == nil {
		t.Fatal("failed chain must leave candidates untouched")
	}
}

func TestEnrichSkipsEmptyBatchAndAppliesAcrossFetch(t *testing.T) {
	f := newFixture(t, "Nevertheless, it worked.", "Fine.", "She persevered anyway.")
	out, err := f.svc.Enrich(context.Background(), f.list.Batches(1, 0)[1])
	if err != nil || !out.Skipped || f.comp.calls != 0 {
		t.Fatalf("expected skip without a call, got %+v err=%v calls=%d", out, err, f.comp.calls)
	}

	nev := f.addWord(t, 1, "Nevertheless", "nevertheless", vocab.ADV)
	batch := f.list.Batches(1, 1)[1]
	f.comp.responses = []string{`{"words":[{"word_id":1,"translation":"然而","usage_context":"转折","lexical_features":["formal","bogus"]},{"word_id":42,"translation":"x"}]}`}
	out, err = f.svc.Enrich(context.Background(), batch)
	if err != nil {
		t.Fatalf("Enrich returned error: %v", err)
	}
	if out.Requested != 1 || out.Enriched != 1 || out.Unresolved != 1 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if nev.Translation != "然而" || nev.UsageContext != "转折" || len(nev.LexicalFeatures) != 1 || nev.LexicalFeatures[0] != vocab.FeatureFormal {
		t.Fatalf("unexpected enrichment %+v", nev)
	}
}

func TestTranslateAppliesByIndexInRealRange(t *testing.T) {
	f := newFixture(t, "Hello.", "[music]", "Goodbye.")
	f.comp.responses = []string{`{"translations":[{"index":1,"translation":"你好"},{"index":3,"translation":"再见"}]}`}
	batch := f.list.Batches(2, 1)[0]

	out, err := f.svc.Translate(context.Background(), batch)
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if out.Requested != 1 || out.Translated != 1 || out.Unresolved != 1 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	first, _ := f.list.ByIndex(1)
	third, _ := f.list.ByIndex(3)
	if first.Translation != "你好" || third.Translation != "" {
		t.Fatalf("unexpected translations %q %q", first.Translation, third.Translation)
	}
	if strings.Contains(f.comp.users[0], "Goodbye") {
		t.Fatal("translation request must only carry real-range lines")
	}
}

func TestResponseCacheShortCircuitsCompleter(t *testing.T) {
	f := newFixture(t, "Hello.")
	cache := newMemoryCache()
	f.svc = New(f.comp, extract.New(testLexicon(), f.ids, vocab.A2), WithCache(cache, "openrouter", "demo"))
	f.comp.responses = []string{`{"translations":[{"index":1,"translation":"你好"}]}`}
	batch := f.list.Batches(8, 0)[0]

	if _, err := f.svc.Translate(context.Background(), batch); err != nil {
		t.Fatalf("first Translate: %v", err)
	}
	if _, err := f.svc.Translate(context.Background(), batch); err != nil {
		t.Fatalf("second Translate: %v", err)
	}
	if f.comp.calls != 1 {
		t.Fatalf("expected the second call to hit the cache, got %d calls", f.comp.calls)
	}
	for _, chain := range cache.chains {
		if chain != ChainTranslate {
			t.Fatalf("unexpected cached chain %q", chain)
		}
	}
}

func TestCallStopsOnCancelledContext(t *testing.T) {
	f := newFixture(t, "Hello.")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.svc.Translate(ctx, f.list.Batches(8, 0)[0]); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if f.comp.calls != 0 {
		t.Fatalf("expected no calls, got %d", f.comp.calls)
	}
}

func TestRelocate(t *testing.T) {
	cases := []struct {
		clean    string
		oldStart int
		text     string
		want     int
		ok       bool
	}{
		{"She gave up on it.", 4, "gave up", 4, true},
		{"up and up and up", 7, "up", 7, true},
		{"up and up and up", 13, "up", 14, true},
		{"short", 0, "much longer text", 0, false},
		{"She gave up.", 4, "took", 0, false},
		{"He was resolutely resolute.", 7, "resolute", 18, true},
		{"She said it resolutely.", 12, "resolute", 0, false},
	}
	for _, tc := range cases {
		got, ok := Relocate(tc.clean, tc.oldStart, tc.text)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Fatalf("Relocate(%q, %d, %q) = %d, %v; want %d, %v", tc.clean, tc.oldStart, tc.text, got, ok, tc.want, tc.ok)
		}
	}
}

func TestCacheKeyIsStable(t *testing.T) {
	a := CacheKey("openrouter", "m", "sys", "user")
	if a != CacheKey("openrouter", "m", "sys", "user") {
		t.Fatal("cache key must be deterministic")
	}
	if a == CacheKey("anthropic", "m", "sys", "user") || a == CacheKey("openrouter", "m", "sy", "suser") {
		t.Fatal("cache key must separate its parts")
	}
}

func boolPtr(v bool) *bool { return &v }
