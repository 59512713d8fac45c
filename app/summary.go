package app

import (
	"strconv"

	"github.com/montanaflynn/stats"

	"github.com/unnatikoppikar/SchoolReportGenerator/domain/record"
	"github.com/unnatikoppikar/SchoolReportGenerator/domain/run"
)

// summarizeFields computes per-field summary statistics across all processed
// records. A field is summarized when every non-sentinel value it produced
// parses as a number; text fields are left out.
func summarizeFields(mapping record.FieldMapping, sentinel string, dicts []*record.FieldDict) []run.FieldSummary {
	var summaries []run.FieldSummary

	for _, entry := range mapping.Entries() {
		values := make([]float64, 0, len(dicts))
		numeric := true

		for _, dict := range dicts {
			v, ok := dict.Get(entry.Key)
			if !ok || v == sentinel {
				continue
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				numeric = false
				break
			}
			values = append(values, f)
		}

		if !numeric || len(values) == 0 {
			continue
		}

		mean, _ := stats.Mean(values)
		median, _ := stats.Median(values)
		min, _ := stats.Min(values)
		max, _ := stats.Max(values)

		summaries = append(summaries, run.FieldSummary{
			Field:  entry.Key,
			Count:  len(values),
			Mean:   mean,
			Median: median,
			Min:    min,
			Max:    max,
		})
	}

	return summaries
}
