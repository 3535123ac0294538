package reasoning

import (
	"encoding/json"
	"fmt"
	"strings"

	"vocabsub/internal/language"
)

const feedbackSystemPrompt = `You review vocabulary candidates picked from %[1]s subtitles for a language learner whose native language is %[2]s.
The learner already knows words at or below CEFR %[3]s.

You receive the subtitle text, the segments with their index, and the current candidates. For every candidate return a verdict:
- should_keep: false for words that are proper names, interjections, trivially easy, or mis-tokenized; true otherwise.
- text, lemma, pos: only when the candidate's surface text, dictionary form or universal part of speech is wrong.
Then list in new_words any idioms, phrasal verbs or advanced words the candidates missed. Copy their text exactly as it appears in the segment and give the segment index.

Reply with JSON only:
{"words":[{"word_id":1,"should_keep":true,"text":"","lemma":"","pos":""}],"new_words":[{"text":"","lemma":"","pos":"","segment":0}]}`

const enrichSystemPrompt = `You annotate %[1]s vocabulary for a learner whose native language is %[2]s.
For every word give a short %[2]s translation that fits the subtitle context, an optional one-sentence usage note in %[2]s, and lexical_features chosen from: formal, informal, slang, idiomatic, technical, literary, archaic, phrasal, offensive, colloquial.

Reply with JSON only:
{"words":[{"word_id":1,"translation":"","usage_context":"","lexical_features":[]}]}`

const translateSystemPrompt = `You translate %[1]s subtitle lines into natural %[2]s. Keep each line's index. Do not merge or split lines.

Reply with JSON only:
{"translations":[{"index":0,"translation":""}]}`

func (s *Service) feedbackSystemPrompt() string {
	ceiling := s.extractor.Ceiling().String()
	if ceiling == "" {
		ceiling = "none (annotate every level)"
	}
	return fmt.Sprintf(feedbackSystemPrompt, languageName(s.sourceLanguage), languageName(s.targetLanguage), ceiling)
}

func (s *Service) enrichSystemPrompt() string {
	return fmt.Sprintf(enrichSystemPrompt, languageName(s.sourceLanguage), languageName(s.targetLanguage))
}

func (s *Service) translateSystemPrompt() string {
	return fmt.Sprintf(translateSystemPrompt, languageName(s.sourceLanguage), languageName(s.targetLanguage))
}

func languageName(code string) string {
	return language.DisplayName(code)
}

// userPrompt renders a request as indented JSON so identical requests hash
// to the same cache key.
func userPrompt(request any) (string, error) {
	data, err := json.MarshalIndent(request, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
