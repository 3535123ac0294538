package writeback

import (
	"sort"
	"strings"
)

// Mapping relates byte offsets of a plaintext rendering to the styled line
// it came from.
type Mapping struct {
	Plain  string
	styled string
	// toStyled[i] is the styled offset of plain byte i; width[i] is how many
	// styled bytes that plain byte stands for.
	toStyled []int
	width    []int
}

// Replacement substitutes the plaintext span [Start, End) with Text.
type Replacement struct {
	Start int
	End   int
	Text  string
}

var escapes = map[string]struct{}{`\N`: {}, `\n`: {}, `\h`: {}}

// Map walks styled once and records where every plaintext byte lives.
func Map(styled string) Mapping {
	m := Mapping{
		styled:   styled,
		toStyled: make([]int, 0, len(styled)),
		width:    make([]int, 0, len(styled)),
	}
	var plain strings.Builder
	plain.Grow(len(styled))
	for i := 0; i < len(styled); {
		if n := controlSpan(styled[i:]); n > 0 {
			i += n
			continue
		}
		if i+1 < len(styled) && styled[i] == '\\' {
			if _, ok := escapes[styled[i:i+2]]; ok {
				plain.WriteByte(' ')
				m.toStyled = append(m.toStyled, i)
				m.width = append(m.width, 2)
				i += 2
				continue
			}
		}
		c := styled[i]
		if c == '\n' {
			c = ' '
		}
		plain.WriteByte(c)
		m.toStyled = append(m.toStyled, i)
		m.width = append(m.width, 1)
		i++
	}
	m.Plain = plain.String()
	return m
}

// Plaintext returns the plaintext rendering of a styled line.
func Plaintext(styled string) string {
	return Map(styled).Plain
}

// controlSpan returns the length of an override block or markup tag at the
// start of s, or 0. Unterminated blocks are ordinary text.
func controlSpan(s string) int {
	switch s[0] {
	case '{':
		if end := strings.IndexByte(s, '}'); end > 0 {
			return end + 1
		}
	case '<':
		if len(s) < 3 {
			return 0
		}
		j := 1
		if s[j] == '/' {
			j++
		}
		if j >= len(s) || !isASCIILetter(s[j]) {
			return 0
		}
		if end := strings.IndexByte(s, '>'); end > 0 {
			return end + 1
		}
	}
	return 0
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// StyledSpan converts the plaintext span [start, end) into a styled span.
func (m Mapping) StyledSpan(start, end int) (int, int, bool) {
	if start < 0 || end > len(m.toStyled) || start >= end {
		return 0, 0, false
	}
	return m.toStyled[start], m.toStyled[end-1] + m.width[end-1], true
}

// Slice returns the styled text covering the plaintext span [start, end).
func (m Mapping) Slice(start, end int) (string, bool) {
	s, e, ok := m.StyledSpan(start, end)
	if !ok {
		return "", false
	}
	return m.styled[s:e], true
}

// Apply substitutes every replacement into the styled line, highest start
// first so earlier offsets stay valid. Replacements that cannot be mapped or
// that overlap one already applied are skipped.
func (m Mapping) Apply(reps []Replacement) (string, int, int) {
	ordered := make([]Replacement, len(reps))
	copy(ordered, reps)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Start > ordered[j].Start })

	out := m.styled
	applied, skipped := 0, 0
	floor := len(m.toStyled) + 1
	for _, r := range ordered {
		s, e, ok := m.StyledSpan(r.Start, r.End)
		if !ok || r.End > floor {
			skipped++
			continue
		}
		out = out[:s] + r.Text + out[e:]
		floor = r.Start
		applied++
	}
	return out, applied, skipped
}
