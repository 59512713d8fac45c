package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unnatikoppikar/SchoolReportGenerator/domain/record"
)

func summaryDict(pairs ...string) *record.FieldDict {
	d := record.NewFieldDict(len(pairs) / 2)
	for i := 0; i+1 < len(pairs); i += 2 {
		d.Set(pairs[i], pairs[i+1])
	}
	return d
}

// TestSummarizeFields tests that numeric fields get stats, text fields are
// skipped, and sentinel values do not count
func TestSummarizeFields(t *testing.T) {
	mapping := record.NewFieldMapping([]record.MappingEntry{
		{Key: "name", Address: "A"},
		{Key: "score", Address: "B"},
		{Key: "attendance", Address: "C"},
	})

	dicts := []*record.FieldDict{
		summaryDict("name", "Alice", "score", "90", "attendance", "---"),
		summaryDict("name", "Bob", "score", "70", "attendance", "40"),
		summaryDict("name", "Chitra", "score", "80", "attendance", "42"),
	}

	summaries := summarizeFields(mapping, "---", dicts)
	require.Len(t, summaries, 2, "name is text, score and attendance are numeric")

	score := summaries[0]
	assert.Equal(t, "score", score.Field)
	assert.Equal(t, 3, score.Count)
	assert.InDelta(t, 80.0, score.Mean, 0.001)
	assert.InDelta(t, 80.0, score.Median, 0.001)
	assert.InDelta(t, 70.0, score.Min, 0.001)
	assert.InDelta(t, 90.0, score.Max, 0.001)

	attendance := summaries[1]
	assert.Equal(t, "attendance", attendance.Field)
	assert.Equal(t, 2, attendance.Count, "sentinel values are excluded")
	assert.InDelta(t, 41.0, attendance.Mean, 0.001)
}

// TestSummarizeFieldsMixedValues tests that one non-numeric value removes
// the whole field from the summary
func TestSummarizeFieldsMixedValues(t *testing.T) {
	mapping := record.NewFieldMapping([]record.MappingEntry{{Key: "score", Address: "A"}})
	dicts := []*record.FieldDict{
		summaryDict("score", "90"),
		summaryDict("score", "absent"),
	}

	assert.Empty(t, summarizeFields(mapping, "---", dicts))
}

// TestSummarizeFieldsAllSentinel tests that a field with only null values
// produces no summary
func TestSummarizeFieldsAllSentinel(t *testing.T) {
	mapping := record.NewFieldMapping([]record.MappingEntry{{Key: "score", Address: "A"}})
	dicts := []*record.FieldDict{
		summaryDict("score", "---"),
		summaryDict("score", "---"),
	}

	assert.Empty(t, summarizeFields(mapping, "---", dicts))
}
