package subtitles

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var defaultEventFormat = []string{"Layer", "Start", "End", "Style", "Name", "MarginL", "MarginR", "MarginV", "Effect", "Text"}

// ParseASS decodes Advanced SubStation content. Every line outside the
// [Events] section is preserved verbatim.
func ParseASS(data []byte) (*Document, error) {
	doc := &Document{Format: FormatASS}
	lines := strings.Split(normalizeNewlines(data), "\n")

	section := "header"
	for n, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			switch {
			case strings.EqualFold(trimmed, "[Events]"):
				section = "events"
				continue
			case section == "events":
				section = "trailer"
			}
		}
		switch section {
		case "header":
			doc.Header = append(doc.Header, line)
		case "trailer":
			doc.Trailer = append(doc.Trailer, line)
		case "events":
			if err := doc.parseEventLine(trimmed); err != nil {
				return nil, fmt.Errorf("ass line %d: %w", n+1, err)
			}
		}
	}
	if doc.EventFormat == nil {
		doc.EventFormat = append([]string(nil), defaultEventFormat...)
	}
	doc.Header = trimTrailingBlank(doc.Header)
	doc.Trailer = trimTrailingBlank(doc.Trailer)
	return doc, nil
}

func (d *Document) parseEventLine(line string) error {
	key, value, ok := strings.Cut(line, ":")
	if !ok || line == "" || strings.HasPrefix(line, ";") {
		return nil
	}
	key = strings.TrimSpace(key)
	value = strings.TrimLeft(value, " ")
	if strings.EqualFold(key, "Format") {
		fields := strings.Split(value, ",")
		d.EventFormat = make([]string, 0, len(fields))
		for _, f := range fields {
			d.EventFormat = append(d.EventFormat, strings.TrimSpace(f))
		}
		if !strings.EqualFold(d.EventFormat[len(d.EventFormat)-1], "Text") {
			return errors.New("event format must end with Text")
		}
		return nil
	}
	if !strings.EqualFold(key, "Dialogue") && !strings.EqualFold(key, "Comment") {
		return nil
	}
	format := d.EventFormat
	if format == nil {
		format = defaultEventFormat
		d.EventFormat = append([]string(nil), defaultEventFormat...)
	}
	values := strings.SplitN(value, ",", len(format))
	if len(values) != len(format) {
		return fmt.Errorf("%s has %d fields, format expects %d", key, len(values), len(format))
	}
	ev := Event{
		Index:  len(d.Events) + 1,
		Kind:   key,
		Fields: make(map[string]string, len(format)),
		Text:   values[len(values)-1],
	}
	for i, name := range format[:len(format)-1] {
		lower := strings.ToLower(name)
		switch lower {
		case "start":
			ms, err := parseASSTimestamp(values[i])
			if err != nil {
				return err
			}
			ev.StartMs = ms
		case "end":
			ms, err := parseASSTimestamp(values[i])
			if err != nil {
				return err
			}
			ev.EndMs = ms
		default:
			ev.Fields[lower] = strings.TrimSpace(values[i])
		}
	}
	d.Events = append(d.Events, ev)
	return nil
}

// EncodeASS renders doc with its header, the events in order and the trailer.
func EncodeASS(doc *Document) ([]byte, error) {
	format := doc.EventFormat
	if len(format) == 0 {
		format = defaultEventFormat
	}
	var b strings.Builder
	for _, line := range doc.Header {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(doc.Header) > 0 {
		b.WriteString("\n")
	}
	b.WriteString("[Events]\n")
	b.WriteString("Format: " + strings.Join(format, ", ") + "\n")
	for _, ev := range doc.Events {
		if strings.ContainsAny(ev.Text, "\n") {
			return nil, fmt.Errorf("event %d: text contains a raw newline", ev.Index)
		}
		kind := ev.Kind
		if kind == "" {
			kind = "Dialogue"
		}
		values := make([]string, 0, len(format))
		for _, name := range format {
			switch strings.ToLower(name) {
			case "start":
				values = append(values, formatASSTimestamp(ev.StartMs))
			case "end":
				values = append(values, formatASSTimestamp(ev.EndMs))
			case "text":
				values = append(values, ev.Text)
			default:
				values = append(values, ev.Field(name))
			}
		}
		b.WriteString(kind + ": " + strings.Join(values, ",") + "\n")
	}
	if len(doc.Trailer) > 0 {
		b.WriteString("\n")
		for _, line := range doc.Trailer {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return []byte(b.String()), nil
}

// parseASSTimestamp parses "H:MM:SS.cc" into milliseconds.
func parseASSTimestamp(value string) (int64, error) {
	value = strings.TrimSpace(value)
	hms := strings.Split(value, ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	secText, fracText, _ := strings.Cut(hms[2], ".")
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(secText)
	if errH != nil || errM != nil || errS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	var frac int64
	if fracText != "" {
		f, err := strconv.Atoi(fracText)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		switch len(fracText) {
		case 1:
			frac = int64(f) * 100
		case 2:
			frac = int64(f) * 10
		default:
			frac = int64(f)
			for i := len(fracText); i > 3; i-- {
				frac /= 10
			}
		}
	}
	return int64(hours*3600+minutes*60+seconds)*1000 + frac, nil
}

func formatASSTimestamp(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	s := ms / 1000 % 60
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, ms%1000/10)
}

func trimTrailingBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
