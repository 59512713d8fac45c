package record

import (
	"fmt"
	"strconv"
	"strings"
)

// ClassKey is the placeholder key injected into every FieldDict
const ClassKey = "class"

// Transform rewrites a normalized field value. Transforms are registered per
// placeholder key by the caller; the processor itself never special-cases
// field names.
type Transform func(value string) string

// Processor turns one StudentRecord into a FieldDict using the field mapping
// and the normalizer
type Processor struct {
	mapping    FieldMapping
	normalizer *Normalizer
	columns    map[string]int // resolved once per mapping
	transforms map[string]Transform

	// OnWarning, when set, receives recoverable per-cell findings such as an
	// out-of-range column index.
	OnWarning func(msg string)
}

// NewProcessor creates a processor. Column addresses are resolved up front;
// an unresolvable address is an error here rather than a silent bad index
// during the batch.
func NewProcessor(mapping FieldMapping, normalizer *Normalizer) (*Processor, error) {
	if normalizer == nil {
		normalizer = NewDefaultNormalizer()
	}
	columns := make(map[string]int, mapping.Len())
	for _, entry := range mapping.Entries() {
		idx, err := ColumnIndex(entry.Address)
		if err != nil {
			return nil, err
		}
		columns[entry.Key] = idx
	}
	return &Processor{
		mapping:    mapping,
		normalizer: normalizer,
		columns:    columns,
		transforms: make(map[string]Transform),
	}, nil
}

// SetTransform registers a transform for one placeholder key. Sentinel values
// are never transformed.
func (p *Processor) SetTransform(key string, t Transform) {
	p.transforms[key] = t
}

// Process builds the FieldDict for one record. The output key set is always
// the mapping keys plus ClassKey: a missing cell becomes the sentinel, never
// a missing key.
func (p *Processor) Process(rec StudentRecord, className string) *FieldDict {
	dict := NewFieldDict(p.mapping.Len() + 1)

	for _, entry := range p.mapping.Entries() {
		idx := p.columns[entry.Key]
		raw, ok := rec.Row.Cell(idx)

		var value string
		if !ok {
			value = p.normalizer.NormalizeAbsent()
			p.warnf("row %d: column %s (%q) is out of range, substituting %q",
				rec.RowNumber, entry.Address, entry.Key, value)
		} else {
			value = p.normalizer.Normalize(raw)
		}

		if t, has := p.transforms[entry.Key]; has && value != p.normalizer.Sentinel() {
			value = t(value)
		}
		dict.Set(entry.Key, value)
	}

	dict.Set(ClassKey, strings.ReplaceAll(className, "_", " "))
	return dict
}

func (p *Processor) warnf(format string, args ...interface{}) {
	if p.OnWarning != nil {
		p.OnWarning(fmt.Sprintf(format, args...))
	}
}

// PercentTransform formats a numeric value as a two-decimal percentage.
// Non-numeric values pass through unchanged.
func PercentTransform(value string) string {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}
	return fmt.Sprintf("%.2f%%", f)
}

// SuffixTransform appends a fixed suffix, e.g. "!" after a remark
func SuffixTransform(suffix string) Transform {
	return func(value string) string {
		return value + suffix
	}
}
