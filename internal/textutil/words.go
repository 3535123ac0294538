package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// WholeWordAt reports whether s[start:start+len(sub)] is sub and is not part
// of a longer word. A word edge of sub may not touch a letter, digit or mark
// in s.
func WholeWordAt(s, sub string, start int) bool {
	end := start + len(sub)
	if sub == "" || start < 0 || end > len(s) || s[start:end] != sub {
		return false
	}
	if first, _ := utf8.DecodeRuneInString(sub); isWordRune(first) && start > 0 {
		if prev, _ := utf8.DecodeLastRuneInString(s[:start]); isWordRune(prev) {
			return false
		}
	}
	if last, _ := utf8.DecodeLastRuneInString(sub); isWordRune(last) && end < len(s) {
		if next, _ := utf8.DecodeRuneInString(s[end:]); isWordRune(next) {
			return false
		}
	}
	return true
}

// IndexWord returns the byte offset of the first whole-word occurrence of sub
// in s at or after from, or -1.
func IndexWord(s, sub string, from int) int {
	if sub == "" || from < 0 {
		return -1
	}
	for from <= len(s)-len(sub) {
		idx := strings.Index(s[from:], sub)
		if idx < 0 {
			return -1
		}
		if start := from + idx; WholeWordAt(s, sub, start) {
			return start
		}
		from += idx + 1
	}
	return -1
}
