package subtitles

import (
	"regexp"
	"strings"
)

var adPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)opensubtitles`),
	regexp.MustCompile(`(?i)subtitles? by`),
	regexp.MustCompile(`(?i)synced? and corrected`),
	regexp.MustCompile(`(?i)advertise (your|yours?) product`),
	regexp.MustCompile(`(?i)http(s)?://`),
	regexp.MustCompile(`(?i)\bwww\.`),
	regexp.MustCompile(`(?i)\bsubscene\b`),
	regexp.MustCompile(`(?i)\byts\b`),
	regexp.MustCompile(`(?i)\byify\b`),
}

var markupPattern = regexp.MustCompile(`\{[^}]*\}|</?[a-zA-Z][^>]*>`)

// CleanStats reports the effects of subtitle cleanup operations.
type CleanStats struct {
	RemovedCues  int
	RemovedEmpty int
}

// CleanEvents removes advertisement and empty cues from doc's speech events
// and renumbers what remains. ASS comments are kept.
func CleanEvents(doc *Document) CleanStats {
	var stats CleanStats
	kept := doc.Events[:0]
	for _, ev := range doc.Events {
		if doc.Format == FormatASS && !strings.EqualFold(ev.Kind, "Dialogue") {
			kept = append(kept, ev)
			continue
		}
		payload := visibleText(ev.Text)
		switch {
		case payload == "":
			stats.RemovedEmpty++
			continue
		case isAdvertisement(payload):
			stats.RemovedCues++
			continue
		}
		kept = append(kept, ev)
	}
	doc.Events = kept
	doc.Renumber()
	return stats
}

func isAdvertisement(payload string) bool {
	payload = strings.ToLower(payload)
	for _, pattern := range adPatterns {
		if pattern.MatchString(payload) {
			return true
		}
	}
	return false
}

// visibleText strips markup and line-break escapes for cleanup heuristics.
func visibleText(styled string) string {
	text := markupPattern.ReplaceAllString(styled, "")
	text = strings.NewReplacer(`\N`, " ", `\n`, " ", `\h`, " ", "\n", " ").Replace(text)
	return strings.Join(strings.Fields(text), " ")
}
