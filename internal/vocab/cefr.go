package vocab

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CEFR is a vocabulary difficulty level. The zero value means "unknown".
type CEFR int

const (
	CEFRUnknown CEFR = iota
	A1
	A2
	B1
	B2
	C1
	C2
)

var cefrNames = [...]string{"", "A1", "A2", "B1", "B2", "C1", "C2"}

// Levels returns every known level from easiest to hardest.
func Levels() []CEFR {
	return []CEFR{A1, A2, B1, B2, C1, C2}
}

func (c CEFR) String() string {
	if c < CEFRUnknown || int(c) >= len(cefrNames) {
		return ""
	}
	return cefrNames[c]
}

// Known reports whether c carries a level.
func (c CEFR) Known() bool {
	return c > CEFRUnknown && int(c) < len(cefrNames)
}

// SuppressedBy reports whether a learner whose known ceiling is ceiling
// already knows words at level c. Unknown levels are never suppressed.
func (c CEFR) SuppressedBy(ceiling CEFR) bool {
	if !c.Known() || !ceiling.Known() {
		return false
	}
	return c <= ceiling
}

// ParseCEFR parses "B2" or "b2".
func ParseCEFR(value string) (CEFR, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	switch normalized {
	case "":
		return CEFRUnknown, false
	}
	for i := 1; i < len(cefrNames); i++ {
		if cefrNames[i] == normalized {
			return CEFR(i), true
		}
	}
	return CEFRUnknown, false
}

// MarshalJSON writes the level name, or null when unknown.
func (c CEFR) MarshalJSON() ([]byte, error) {
	if !c.Known() {
		return []byte("null"), nil
	}
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts a level name or null.
func (c *CEFR) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = CEFRUnknown
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("cefr: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		*c = CEFRUnknown
		return nil
	}
	level, ok := ParseCEFR(raw)
	if !ok {
		return fmt.Errorf("cefr: unknown level %q", raw)
	}
	*c = level
	return nil
}
