package subtitles

import "fmt"

// Validate reports problems that make annotation unreliable. An empty slice
// means the document is usable.
func Validate(doc *Document) []string {
	var issues []string
	speech := doc.Speech()
	if len(speech) == 0 {
		return append(issues, "empty_subtitle_file")
	}
	var prevStart int64 = -1
	for _, ev := range speech {
		if ev.EndMs < ev.StartMs {
			issues = append(issues, fmt.Sprintf("negative_duration: event %d ends before it starts", ev.Index))
		}
		if ev.StartMs < prevStart {
			issues = append(issues, fmt.Sprintf("out_of_order: event %d starts before the previous event", ev.Index))
		}
		prevStart = ev.StartMs
	}
	return issues
}
