package subtitles

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSRT decodes SubRip content. Cues are numbered 1..n in file order;
// the numbers in the file are ignored. Blocks without a timing line are
// skipped.
func ParseSRT(data []byte) (*Document, error) {
	doc := &Document{Format: FormatSRT}
	for n, block := range splitBlocks(normalizeNewlines(data)) {
		lines := strings.Split(block, "\n")
		timing := -1
		for i, line := range lines {
			if strings.Contains(line, "-->") {
				timing = i
				break
			}
			if i >= 1 {
				break
			}
		}
		if timing < 0 {
			continue
		}
		start, end, err := parseSRTTiming(lines[timing])
		if err != nil {
			return nil, fmt.Errorf("srt block %d: %w", n+1, err)
		}
		text := make([]string, 0, len(lines)-timing-1)
		for _, line := range lines[timing+1:] {
			text = append(text, strings.TrimRight(line, " \t"))
		}
		doc.Events = append(doc.Events, Event{
			Index:   len(doc.Events) + 1,
			StartMs: start,
			EndMs:   end,
			Text:    strings.Join(text, "\n"),
		})
	}
	return doc, nil
}

// EncodeSRT renders doc as SubRip with consecutive cue numbers.
func EncodeSRT(doc *Document) []byte {
	var b strings.Builder
	n := 0
	for _, ev := range doc.Events {
		if strings.TrimSpace(ev.Text) == "" {
			continue
		}
		if n > 0 {
			b.WriteString("\n")
		}
		n++
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n", n, formatSRTTimestamp(ev.StartMs), formatSRTTimestamp(ev.EndMs), ev.Text)
	}
	return []byte(b.String())
}

func parseSRTTiming(line string) (int64, int64, error) {
	parts := strings.SplitN(line, "-->", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid timing line %q", line)
	}
	start, err := parseSRTTimestamp(parts[0])
	if err != nil {
		return 0, 0, err
	}
	// Some files append position coordinates after the end time.
	endFields := strings.Fields(parts[1])
	if len(endFields) == 0 {
		return 0, 0, fmt.Errorf("invalid timing line %q", line)
	}
	end, err := parseSRTTimestamp(endFields[0])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// parseSRTTimestamp parses "HH:MM:SS,mmm" (or with a period) into milliseconds.
func parseSRTTimestamp(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return int64(hours*3600+minutes*60+seconds)*1000 + int64(millis), nil
}

func formatSRTTimestamp(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	s := ms / 1000 % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000)
}

func splitBlocks(content string) []string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil
	}
	raw := strings.Split(trimmed, "\n\n")
	blocks := make([]string, 0, len(raw))
	for _, block := range raw {
		block = strings.Trim(block, "\n")
		if strings.TrimSpace(block) != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}
