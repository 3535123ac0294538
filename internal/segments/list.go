package segments

import (
	"sort"
	"strings"

	"vocabsub/internal/vocab"
)

// List is the run's ordered segment collection. It is owned by a single
// goroutine and is not safe for concurrent mutation.
type List struct {
	segments []*Segment
}

// NewList builds a list sorted by segment index. Nil entries are dropped.
func NewList(segs []*Segment) *List {
	l := &List{segments: make([]*Segment, 0, len(segs))}
	for _, s := range segs {
		if s != nil {
			l.segments = append(l.segments, s)
		}
	}
	l.Sort()
	return l
}

// Sort restores index order after external mutation.
func (l *List) Sort() {
	sort.SliceStable(l.segments, func(i, j int) bool {
		return l.segments[i].Index < l.segments[j].Index
	})
}

// Len returns the number of segments.
func (l *List) Len() int { return len(l.segments) }

// Segments returns the backing slice in index order.
func (l *List) Segments() []*Segment { return l.segments }

// ByIndex finds a segment by its Index.
func (l *List) ByIndex(index int) (*Segment, bool) {
	pos := sort.Search(len(l.segments), func(i int) bool {
		return l.segments[i].Index >= index
	})
	if pos < len(l.segments) && l.segments[pos].Index == index {
		return l.segments[pos], true
	}
	return nil, false
}

// FindWord locates a word id anywhere in the list.
func (l *List) FindWord(wordID int) (*Segment, *vocab.Word) {
	for _, s := range l.segments {
		if w := s.FindWord(wordID); w != nil {
			return s, w
		}
	}
	return nil, nil
}

// Range is an inclusive span of segment indices.
type Range struct {
	First int
	Last  int
}

// Contains reports whether index falls inside r.
func (r Range) Contains(index int) bool {
	return index >= r.First && index <= r.Last
}

// Batch is one context window: Fetch is what the reasoning service may read,
// Real is what this batch is allowed to mutate.
type Batch struct {
	Number int
	Fetch  []*Segment
	Real   Range
}

// RealSegments returns the fetched segments inside the real range.
func (b Batch) RealSegments() []*Segment {
	out := make([]*Segment, 0, len(b.Fetch))
	for _, s := range b.Fetch {
		if b.Real.Contains(s.Index) {
			out = append(out, s)
		}
	}
	return out
}

// Text joins the clean text of every fetched segment, one per line.
func (b Batch) Text() string {
	lines := make([]string, 0, len(b.Fetch))
	for _, s := range b.Fetch {
		lines = append(lines, strings.TrimSpace(s.CleanText()))
	}
	return strings.Join(lines, "\n")
}

// Words returns every candidate in the fetch range.
func (b Batch) Words() []*vocab.Word {
	var out []*vocab.Word
	for _, s := range b.Fetch {
		out = append(out, s.Candidates...)
	}
	return out
}

// Batches partitions the list into consecutive windows of contextWindow
// segments. Each window's fetch range extends extraLen segments either side,
// clamped to the list. Every segment lands in exactly one real range.
func (l *List) Batches(contextWindow, extraLen int) []Batch {
	n := len(l.segments)
	if n == 0 {
		return nil
	}
	if contextWindow <= 0 {
		contextWindow = n
	}
	if extraLen < 0 {
		extraLen = 0
	}
	batches := make([]Batch, 0, (n+contextWindow-1)/contextWindow)
	for start := 0; start < n; start += contextWindow {
		end := min(start+contextWindow, n) - 1
		fetchStart := max(start-extraLen, 0)
		fetchEnd := min(end+extraLen, n-1)
		fetch := make([]*Segment, fetchEnd-fetchStart+1)
		copy(fetch, l.segments[fetchStart:fetchEnd+1])
		batches = append(batches, Batch{
			Number: len(batches) + 1,
			Fetch:  fetch,
			Real: Range{
				First: l.segments[start].Index,
				Last:  l.segments[end].Index,
			},
		})
	}
	return batches
}
