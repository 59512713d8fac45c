package record

import "strings"

// Row is one spreadsheet row of raw cell values
type Row []string

// IsBlank reports whether every cell in the row is empty after trimming.
// Blank rows are not records; the extractor drops them.
func (r Row) IsBlank() bool {
	for _, cell := range r {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Cell returns the value at the given column index, and whether the index is
// within the row. Rows are ragged: a short row simply lacks trailing cells.
func (r Row) Cell(index int) (string, bool) {
	if index < 0 || index >= len(r) {
		return "", false
	}
	return r[index], true
}

// RawTable is the raw grid of the first non-empty sheet, header rows included
type RawTable struct {
	SheetName string
	Rows      []Row
}

// IsEmpty reports whether the table carries no rows at all
func (t RawTable) IsEmpty() bool {
	return len(t.Rows) == 0
}

// ColumnCount returns the widest row's cell count. Sheets exported from varied
// sources are ragged, so the widest row decides how many columns exist.
func (t RawTable) ColumnCount() int {
	max := 0
	for _, row := range t.Rows {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

// DataRowCount returns the number of rows remaining after skipping the first
// skip header rows.
func (t RawTable) DataRowCount(skip int) int {
	if skip >= len(t.Rows) {
		return 0
	}
	return len(t.Rows) - skip
}
