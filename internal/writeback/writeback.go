package writeback

import (
	"fmt"
	"sort"
	"strings"

	"vocabsub/internal/segments"
	"vocabsub/internal/subtitles"
	"vocabsub/internal/vocab"
)

// Mode selects how annotations land in the document.
type Mode string

const (
	// ModeEvents adds a separate annotation event per annotated line.
	ModeEvents Mode = "events"
	// ModeInPlace splices the annotation right after each word.
	ModeInPlace Mode = "inplace"
)

// ParseMode accepts the configured mode names.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ModeEvents:
		return ModeEvents, nil
	case ModeInPlace, "in-place", "in_place":
		return ModeInPlace, nil
	}
	return "", fmt.Errorf("unknown writeback mode %q", value)
}

const (
	assSmall     = `{\fscx80\fscy80}`
	assReset     = `{\fscx100\fscy100}`
	assEventTags = `{\an2\fscx75\fscy75}`
)

// Report summarizes one writeback pass.
type Report struct {
	Segments    int
	Annotated   int
	Skipped     int
	Translated  int
	AddedEvents int
}

// Apply writes every segment's accepted words and sentence translation into
// doc. Segments are matched to events by index, so doc must not have been
// renumbered since the segments were built.
func Apply(doc *subtitles.Document, list *segments.List, mode Mode) (Report, error) {
	if doc == nil || list == nil {
		return Report{}, fmt.Errorf("writeback: document and segments are required")
	}
	var report Report
	extra := make(map[int][]subtitles.Event)
	for _, seg := range list.Segments() {
		ev, ok := doc.EventByIndex(seg.Index)
		if !ok {
			report.Skipped += len(seg.Candidates)
			continue
		}
		words := annotatedWords(seg)
		translation := sanitize(seg.Translation)
		if len(words) == 0 && translation == "" {
			continue
		}
		report.Segments++
		if translation != "" {
			report.Translated++
		}
		switch mode {
		case ModeInPlace:
			applied, skipped := inPlace(doc.Format, ev, words, translation)
			report.Annotated += applied
			report.Skipped += skipped + len(seg.Candidates) - len(words)
		default:
			report.Annotated += len(words)
			report.Skipped += len(seg.Candidates) - len(words)
			if added, ok := annotationEvent(doc.Format, ev, words, translation); ok {
				extra[ev.Index] = append(extra[ev.Index], added)
			} else if doc.Format == subtitles.FormatSRT {
				ev.Text += "\n" + summaryLine(words, translation, "\n")
			}
		}
	}
	if len(extra) > 0 {
		events := make([]subtitles.Event, 0, len(doc.Events)+len(extra))
		for _, ev := range doc.Events {
			events = append(events, ev)
			added := extra[ev.Index]
			events = append(events, added...)
			report.AddedEvents += len(added)
		}
		doc.Events = events
	}
	return report, nil
}

// annotatedWords returns the words that have something to show, in reading
// order.
func annotatedWords(seg *segments.Segment) []*vocab.Word {
	out := make([]*vocab.Word, 0, len(seg.Candidates))
	for _, w := range seg.Candidates {
		if w == nil || Label(w) == "" {
			continue
		}
		out = append(out, w)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Meta.StartPos < out[j].Meta.StartPos })
	return out
}

// Label is the annotation shown for a word: its translation when enriched,
// otherwise its CEFR level.
func Label(w *vocab.Word) string {
	if t := sanitize(w.Translation); t != "" {
		return t
	}
	if w.CEFR.Known() {
		return w.CEFR.String()
	}
	return ""
}

// sanitize keeps model text from opening override blocks or breaking lines.
func sanitize(value string) string {
	value = strings.NewReplacer("{", "(", "}", ")", "\r", " ", "\n", " ", `\N`, " ").Replace(value)
	return strings.Join(strings.Fields(value), " ")
}

func inPlace(format subtitles.Format, ev *subtitles.Event, words []*vocab.Word, translation string) (int, int) {
	m := Map(ev.Text)
	reps := make([]Replacement, 0, len(words))
	for _, w := range words {
		original, ok := m.Slice(w.Meta.StartPos, w.Meta.EndPos)
		if !ok {
			reps = append(reps, Replacement{Start: -1})
			continue
		}
		var text string
		if format == subtitles.FormatASS {
			text = original + assSmall + "(" + Label(w) + ")" + assReset
		} else {
			text = original + " (" + Label(w) + ")"
		}
		reps = append(reps, Replacement{Start: w.Meta.StartPos, End: w.Meta.EndPos, Text: text})
	}
	out, applied, skipped := m.Apply(reps)
	if translation != "" {
		if format == subtitles.FormatASS {
			out += `\N` + assSmall + translation + assReset
		} else {
			out += "\n" + translation
		}
	}
	ev.Text = out
	return applied, skipped
}

// annotationEvent builds the extra ASS Dialogue line shown alongside ev.
// SRT has no overlapping cues, so it reports false there.
func annotationEvent(format subtitles.Format, ev *subtitles.Event, words []*vocab.Word, translation string) (subtitles.Event, bool) {
	if format != subtitles.FormatASS {
		return subtitles.Event{}, false
	}
	fields := make(map[string]string, len(ev.Fields))
	for k, v := range ev.Fields {
		fields[k] = v
	}
	return subtitles.Event{
		Index:   ev.Index,
		StartMs: ev.StartMs,
		EndMs:   ev.EndMs,
		Kind:    "Dialogue",
		Text:    assEventTags + summaryLine(words, translation, `\N`),
		Fields:  fields,
	}, true
}

// summaryLine lists "word: label" pairs, then the sentence translation on
// its own line.
func summaryLine(words []*vocab.Word, translation, newline string) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		parts = append(parts, sanitize(w.Text)+": "+Label(w))
	}
	line := strings.Join(parts, " · ")
	switch {
	case line == "":
		return translation
	case translation == "":
		return line
	}
	return line + newline + translation
}
