package segments

import "vocabsub/internal/vocab"

// UnknownLevel is the CEFR bucket for words without a resolved level.
const UnknownLevel = "unknown"

// Statistics summarizes a list for reporting.
type Statistics struct {
	Segments  int            `json:"segments"`
	Annotated int            `json:"annotated_segments"`
	Words     int            `json:"words"`
	Enriched  int            `json:"enriched_words"`
	ByCEFR    map[string]int `json:"by_cefr"`
	ByPOS     map[string]int `json:"by_pos"`
	ByExam    map[string]int `json:"by_exam"`
}

// Statistics counts segments and candidates by level, tag and exam.
func (l *List) Statistics() Statistics {
	stats := Statistics{
		Segments: len(l.segments),
		ByCEFR:   make(map[string]int),
		ByPOS:    make(map[string]int),
		ByExam:   make(map[string]int),
	}
	for _, s := range l.segments {
		if len(s.Candidates) > 0 {
			stats.Annotated++
		}
		for _, w := range s.Candidates {
			stats.Words++
			if w.Enriched() {
				stats.Enriched++
			}
			level := UnknownLevel
			if w.CEFR.Known() {
				level = w.CEFR.String()
			}
			stats.ByCEFR[level]++
			if w.POS != "" {
				stats.ByPOS[string(w.POS)]++
			}
			for _, exam := range w.Exams {
				stats.ByExam[exam]++
			}
		}
	}
	return stats
}

// Levels lists the CEFR buckets in display order.
func Levels() []string {
	out := make([]string, 0, 7)
	for _, level := range vocab.Levels() {
		out = append(out, level.String())
	}
	return append(out, UnknownLevel)
}
