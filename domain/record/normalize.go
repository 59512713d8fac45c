package record

import "strings"

// DefaultNullSentinel replaces missing/blank/null-like cell values
const DefaultNullSentinel = "---"

// DefaultNullIndicators are the folded tokens treated as null. The empty
// string covers blank cells.
var DefaultNullIndicators = []string{"NAN", "NONE", "NA", "NULL", ""}

// Normalizer converts raw cell values into canonical display strings
type Normalizer struct {
	sentinel   string
	indicators map[string]struct{}
}

// NewNormalizer creates a normalizer. Indicators are folded (upper-cased,
// spaces stripped) once at construction so matching is a set lookup.
func NewNormalizer(sentinel string, indicators []string) *Normalizer {
	if sentinel == "" {
		sentinel = DefaultNullSentinel
	}
	if indicators == nil {
		indicators = DefaultNullIndicators
	}
	set := make(map[string]struct{}, len(indicators))
	for _, ind := range indicators {
		set[fold(ind)] = struct{}{}
	}
	return &Normalizer{sentinel: sentinel, indicators: set}
}

// NewDefaultNormalizer creates a normalizer with the default sentinel and
// indicator set.
func NewDefaultNormalizer() *Normalizer {
	return NewNormalizer(DefaultNullSentinel, DefaultNullIndicators)
}

// Sentinel returns the configured null sentinel
func (n *Normalizer) Sentinel() string {
	return n.sentinel
}

// Normalize returns the display string for one raw cell value. The value is
// trimmed; if its folded form matches a null indicator the sentinel is
// returned, otherwise the trimmed (not folded) value.
func (n *Normalizer) Normalize(value string) string {
	trimmed := strings.TrimSpace(value)
	if _, null := n.indicators[fold(trimmed)]; null {
		return n.sentinel
	}
	return trimmed
}

// NormalizeAbsent returns the display string for a cell that does not exist
// in the row (column index out of range).
func (n *Normalizer) NormalizeAbsent() string {
	return n.sentinel
}

// IsNull reports whether a raw value would normalize to the sentinel
func (n *Normalizer) IsNull(value string) bool {
	_, ok := n.indicators[fold(value)]
	return ok
}

// fold upper-cases and strips all spaces, the canonical form used for
// null-indicator matching only. Returned values are never folded.
func fold(s string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), " ", "")
}
