package segments

import (
	"strings"

	"vocabsub/internal/vocab"
)

// Segment is one subtitle event as seen by the pipeline.
type Segment struct {
	Index       int
	StartMs     int64
	EndMs       int64
	Plaintext   string
	Translation string
	Candidates  []*vocab.Word
}

// cue delimiters: [door slams], (laughs), ♪ humming ♪
var cuePairs = []struct{ open, close string }{
	{"[", "]"},
	{"(", ")"},
	{"♪", "♪"},
}

// CleanText returns Plaintext with every bracketed cue span (brackets
// included) overwritten by spaces. The result has the same byte length as
// Plaintext, so offsets into one are offsets into the other.
func (s *Segment) CleanText() string {
	return CleanText(s.Plaintext)
}

// CleanText blanks bracketed cue spans in text. Unterminated openers are
// left untouched. Applying it twice yields the same result.
func CleanText(text string) string {
	if text == "" {
		return text
	}
	out := []byte(text)
	for i := 0; i < len(text); {
		matched := false
		for _, pair := range cuePairs {
			if !strings.HasPrefix(text[i:], pair.open) {
				continue
			}
			end := strings.Index(text[i+len(pair.open):], pair.close)
			if end < 0 {
				continue
			}
			stop := i + len(pair.open) + end + len(pair.close)
			for j := i; j < stop; j++ {
				out[j] = ' '
			}
			i = stop
			matched = true
			break
		}
		if !matched {
			i++
		}
	}
	return string(out)
}

// FindWord returns the candidate with the given word id.
func (s *Segment) FindWord(wordID int) *vocab.Word {
	for _, w := range s.Candidates {
		if w.Meta.WordID == wordID {
			return w
		}
	}
	return nil
}

// RemoveWord drops the candidate with the given word id and reports whether
// it was present.
func (s *Segment) RemoveWord(wordID int) bool {
	for i, w := range s.Candidates {
		if w.Meta.WordID == wordID {
			s.Candidates = append(s.Candidates[:i], s.Candidates[i+1:]...)
			return true
		}
	}
	return false
}

// HasText reports whether a candidate already carries exactly text.
func (s *Segment) HasText(text string) bool {
	for _, w := range s.Candidates {
		if w.Text == text {
			return true
		}
	}
	return false
}
