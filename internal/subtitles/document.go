package subtitles

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

// Format is a subtitle container format.
type Format string

const (
	FormatSRT Format = "srt"
	FormatASS Format = "ass"
)

// Event is one timed subtitle line.
type Event struct {
	Index   int
	StartMs int64
	EndMs   int64
	// Text is the styled line. SRT multi-line cues are joined with "\n".
	Text string

	// ASS only. Kind is "Dialogue" or "Comment"; Fields holds every column of
	// the [Events] Format line except Text, keyed by lower-case name.
	Kind   string
	Fields map[string]string
}

// Field returns an ASS column value or "".
func (e Event) Field(name string) string {
	if e.Fields == nil {
		return ""
	}
	return e.Fields[strings.ToLower(name)]
}

// Document is a parsed subtitle file.
type Document struct {
	Format Format
	Events []Event

	// ASS only: everything before the [Events] section, the column order of
	// the Format line, and any sections after the events.
	Header      []string
	EventFormat []string
	Trailer     []string
}

// Speech returns the events that carry dialogue: every SRT cue and ASS
// Dialogue lines.
func (d *Document) Speech() []Event {
	out := make([]Event, 0, len(d.Events))
	for _, ev := range d.Events {
		if d.Format == FormatASS && !strings.EqualFold(ev.Kind, "Dialogue") {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// EventByIndex returns the event with the given index.
func (d *Document) EventByIndex(index int) (*Event, bool) {
	for i := range d.Events {
		if d.Events[i].Index == index {
			return &d.Events[i], true
		}
	}
	return nil, false
}

// Renumber assigns consecutive indices starting at 1 in file order.
func (d *Document) Renumber() {
	for i := range d.Events {
		d.Events[i].Index = i + 1
	}
}

// DetectFormat picks a format from the file extension, falling back to
// sniffing the content.
func DetectFormat(path string, data []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".srt":
		return FormatSRT, nil
	case ".ass", ".ssa":
		return FormatASS, nil
	}
	head := data
	if len(head) > 4096 {
		head = head[:4096]
	}
	switch {
	case bytes.Contains(head, []byte("[Script Info]")), bytes.Contains(head, []byte("[Events]")):
		return FormatASS, nil
	case bytes.Contains(head, []byte("-->")):
		return FormatSRT, nil
	}
	return "", fmt.Errorf("unrecognized subtitle format for %q", path)
}

// Parse decodes data in the given format.
func Parse(data []byte, format Format) (*Document, error) {
	switch format {
	case FormatSRT:
		return ParseSRT(data)
	case FormatASS:
		return ParseASS(data)
	default:
		return nil, fmt.Errorf("unsupported subtitle format %q", format)
	}
}

// Encode renders doc in its own format.
func Encode(doc *Document) ([]byte, error) {
	switch doc.Format {
	case FormatSRT:
		return EncodeSRT(doc), nil
	case FormatASS:
		return EncodeASS(doc)
	default:
		return nil, fmt.Errorf("unsupported subtitle format %q", doc.Format)
	}
}

func normalizeNewlines(data []byte) string {
	text := string(data)
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
