package record

import (
	"fmt"
	"os"
)

// ValidationInput carries everything the validator inspects before a run
type ValidationInput struct {
	SpreadsheetPath string
	MappingPath     string
	Table           RawTable
	Mapping         FieldMapping
	SkipRows        int
}

// Validate checks mapping and file integrity before any record is processed.
// All findings are accumulated, not fail-fast; an empty report is the only
// "safe to proceed" signal.
func Validate(in ValidationInput) []string {
	var report []string

	if in.SpreadsheetPath != "" {
		if _, err := os.Stat(in.SpreadsheetPath); err != nil {
			report = append(report, fmt.Sprintf("spreadsheet file not found: %s", in.SpreadsheetPath))
		}
	}
	if in.MappingPath != "" {
		if _, err := os.Stat(in.MappingPath); err != nil {
			report = append(report, fmt.Sprintf("mapping file not found: %s", in.MappingPath))
		}
	}

	if in.Table.DataRowCount(in.SkipRows) == 0 {
		report = append(report, fmt.Sprintf("spreadsheet has no data after skipping %d header row(s)", in.SkipRows))
	}

	if in.Mapping.Len() == 0 {
		report = append(report, "mapping file is empty")
	}

	columns := in.Table.ColumnCount()
	for _, entry := range in.Mapping.Entries() {
		idx, err := ColumnIndex(entry.Address)
		if err != nil {
			report = append(report, fmt.Sprintf("invalid column address %q for %q", entry.Address, entry.Key))
			continue
		}
		if idx >= columns {
			report = append(report, fmt.Sprintf("column %q for %q exceeds data columns (%d columns available)",
				entry.Address, entry.Key, columns))
		}
	}

	return report
}
