package record

import (
	"testing"

	"github.com/unnatikoppikar/SchoolReportGenerator/internal/errors"
)

func sampleMapping() FieldMapping {
	return NewFieldMapping([]MappingEntry{
		{Key: "name", Address: "B"},
		{Key: "score", Address: "C"},
	})
}

// TestProcessScenario tests the documented end-to-end mapping scenario:
// two real records come through normalized, the all-blank row is the
// extractor's business and never reaches the processor
func TestProcessScenario(t *testing.T) {
	p, err := NewProcessor(sampleMapping(), NewDefaultNormalizer())
	if err != nil {
		t.Fatal(err)
	}

	tbl := table(
		Row{"1", "Alice", "92"},
		Row{"2", "Bob", ""},
		Row{"", "", ""},
	)
	records := NewExtractor(tbl, 0).All()
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	want := []map[string]string{
		{"name": "Alice", "score": "92", "class": "5 A"},
		{"name": "Bob", "score": "---", "class": "5 A"},
	}
	for i, rec := range records {
		dict := p.Process(rec, "5_A")
		for key, wantValue := range want[i] {
			got, ok := dict.Get(key)
			if !ok {
				t.Errorf("record %d: key %q missing", i, key)
				continue
			}
			if got != wantValue {
				t.Errorf("record %d: %s = %q, want %q", i, key, got, wantValue)
			}
		}
	}
}

// TestProcessKeySetComplete tests that the output key set is always the
// mapping keys plus class, even for rows shorter than the mapping needs
func TestProcessKeySetComplete(t *testing.T) {
	mapping := NewFieldMapping([]MappingEntry{
		{Key: "name", Address: "B"},
		{Key: "grade", Address: "Z"}, // far beyond the row
	})
	p, err := NewProcessor(mapping, NewDefaultNormalizer())
	if err != nil {
		t.Fatal(err)
	}

	var warnings []string
	p.OnWarning = func(msg string) { warnings = append(warnings, msg) }

	dict := p.Process(StudentRecord{RowNumber: 5, Row: Row{"1", "Alice"}}, "5_A")

	if dict.Len() != 3 {
		t.Fatalf("dict has %d keys, want 3 (mapping keys + class)", dict.Len())
	}
	if v, _ := dict.Get("grade"); v != DefaultNullSentinel {
		t.Errorf("out-of-range column = %q, want sentinel", v)
	}
	if len(warnings) != 1 {
		t.Errorf("got %d warnings, want 1 for the out-of-range column", len(warnings))
	}
}

// TestProcessKeyOrder tests that dict keys keep mapping order, class last
func TestProcessKeyOrder(t *testing.T) {
	p, err := NewProcessor(sampleMapping(), nil)
	if err != nil {
		t.Fatal(err)
	}

	dict := p.Process(StudentRecord{RowNumber: 1, Row: Row{"1", "Alice", "92"}}, "5_A")
	keys := dict.Keys()
	want := []string{"name", "score", "class"}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}

// TestProcessClassUnderscores tests underscore to space replacement
func TestProcessClassUnderscores(t *testing.T) {
	p, _ := NewProcessor(sampleMapping(), nil)

	dict := p.Process(StudentRecord{RowNumber: 1, Row: Row{"", "A", "1"}}, "grade_5_section_B")
	if v, _ := dict.Get(ClassKey); v != "grade 5 section B" {
		t.Errorf("class = %q, want underscores replaced", v)
	}
}

// TestProcessorRejectsBadAddress tests that a malformed mapping address
// fails at construction, before the batch
func TestProcessorRejectsBadAddress(t *testing.T) {
	mapping := NewFieldMapping([]MappingEntry{{Key: "name", Address: "B2"}})
	_, err := NewProcessor(mapping, nil)
	if err == nil {
		t.Fatal("expected error for address \"B2\"")
	}
	if !errors.HasCode(err, errors.CodeInvalidColumnAddress) {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.CodeInvalidColumnAddress)
	}
}

// TestProcessTransforms tests per-field transform hooks; sentinel values
// must pass through untransformed
func TestProcessTransforms(t *testing.T) {
	mapping := NewFieldMapping([]MappingEntry{
		{Key: "percentage", Address: "A"},
		{Key: "remark", Address: "B"},
	})
	p, err := NewProcessor(mapping, NewDefaultNormalizer())
	if err != nil {
		t.Fatal(err)
	}
	p.SetTransform("percentage", PercentTransform)
	p.SetTransform("remark", SuffixTransform("!"))

	dict := p.Process(StudentRecord{RowNumber: 1, Row: Row{"87.5", "Good"}}, "c")
	if v, _ := dict.Get("percentage"); v != "87.50%" {
		t.Errorf("percentage = %q, want \"87.50%%\"", v)
	}
	if v, _ := dict.Get("remark"); v != "Good!" {
		t.Errorf("remark = %q, want \"Good!\"", v)
	}

	// null cells keep the bare sentinel
	dict = p.Process(StudentRecord{RowNumber: 2, Row: Row{"nan", ""}}, "c")
	if v, _ := dict.Get("percentage"); v != DefaultNullSentinel {
		t.Errorf("null percentage = %q, want sentinel untouched", v)
	}
	if v, _ := dict.Get("remark"); v != DefaultNullSentinel {
		t.Errorf("null remark = %q, want sentinel untouched", v)
	}
}
