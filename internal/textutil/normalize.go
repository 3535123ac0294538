package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// FoldKey returns the lookup key used for lemmas and surface forms: NFC
// normalized, case folded and trimmed. Curly apostrophes collapse to ASCII so
// "don’t" and "don't" share a key.
func FoldKey(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	value = apostropheReplacer.Replace(value)
	return folder.String(norm.NFC.String(value))
}

// NFC returns value in Unicode normalization form C.
func NFC(value string) string {
	return norm.NFC.String(value)
}

var apostropheReplacer = strings.NewReplacer("’", "'", "‘", "'", "ʼ", "'")

// NormalizeApostrophes maps typographic apostrophes to ASCII without changing
// anything else about value. Byte length may shrink.
func NormalizeApostrophes(value string) string {
	return apostropheReplacer.Replace(value)
}

// CollapseWhitespace joins all whitespace runs into single spaces.
func CollapseWhitespace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// Snippet returns a single-line preview of value limited to limit runes.
func Snippet(value string, limit int) string {
	clean := CollapseWhitespace(value)
	if clean == "" {
		return "<empty>"
	}
	runes := []rune(clean)
	if limit > 0 && len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return clean
}
