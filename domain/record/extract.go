package record

// StudentRecord is one non-blank data row together with its position in the
// source sheet. RowNumber is the 1-based row in the sheet, header rows
// included, so warnings point at the cell a user would find in the file.
type StudentRecord struct {
	RowNumber int
	Row       Row
}

// Extractor streams the data rows of a RawTable: the first skip rows are
// dropped, fully-blank rows are skipped without terminating the stream.
// A blank row mid-table never truncates the batch.
type Extractor struct {
	table RawTable
	skip  int
	pos   int
}

// NewExtractor creates an extractor over table. A skip of at least the row
// count yields an empty stream, not an error.
func NewExtractor(table RawTable, skip int) *Extractor {
	if skip < 0 {
		skip = 0
	}
	return &Extractor{table: table, skip: skip, pos: skip}
}

// Next returns the next non-blank record, or false when the table is
// exhausted. Single pass; use Reset to traverse again.
func (e *Extractor) Next() (StudentRecord, bool) {
	for e.pos < len(e.table.Rows) {
		row := e.table.Rows[e.pos]
		e.pos++
		if row.IsBlank() {
			continue
		}
		return StudentRecord{RowNumber: e.pos, Row: row}, true
	}
	return StudentRecord{}, false
}

// Reset rewinds the extractor to the first data row
func (e *Extractor) Reset() {
	e.pos = e.skip
}

// All collects every remaining record. Convenient for callers that do not
// need streaming.
func (e *Extractor) All() []StudentRecord {
	var records []StudentRecord
	for {
		rec, ok := e.Next()
		if !ok {
			return records
		}
		records = append(records, rec)
	}
}
