package excel

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/unnatikoppikar/SchoolReportGenerator/domain/record"
	"github.com/unnatikoppikar/SchoolReportGenerator/internal"
	"github.com/unnatikoppikar/SchoolReportGenerator/internal/errors"
)

// Reader loads spreadsheet workbooks into raw tables
type Reader struct {
	logger *internal.Logger
}

// NewReader creates a workbook reader
func NewReader(logger *internal.Logger) *Reader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Reader{logger: logger}
}

// Load opens the workbook and returns the grid of the first sheet that has at
// least one row and one column, iterating sheets in stored order. Exports
// from varied sources often carry blank leading sheets, so the data sheet is
// auto-detected rather than named by the caller.
//
// If no sheet qualifies the returned table is empty; the validator reports
// that as "no data", it is not an error here.
func (r *Reader) Load(ctx context.Context, path string) (record.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return record.RawTable{}, err
	}
	if _, err := os.Stat(path); err != nil {
		return record.RawTable{}, errors.SpreadsheetLoad(fmt.Sprintf("spreadsheet file not found: %s", path), err)
	}

	start := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return record.RawTable{}, errors.SpreadsheetLoad(fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return record.RawTable{}, errors.SpreadsheetLoad(fmt.Sprintf("failed to read sheet %q", sheet), err)
		}
		table := toTable(sheet, rows)
		if !table.IsEmpty() && table.ColumnCount() > 0 {
			r.logger.Info("loaded sheet %q from %s (%d rows, %d columns) in %s",
				sheet, path, len(table.Rows), table.ColumnCount(), time.Since(start).Round(time.Millisecond))
			return table, nil
		}
		r.logger.Debug("sheet %q is empty, trying next", sheet)
	}

	r.logger.Warn("no sheet with data found in %s", path)
	return record.RawTable{}, nil
}

func toTable(sheet string, rows [][]string) record.RawTable {
	table := record.RawTable{SheetName: sheet, Rows: make([]record.Row, len(rows))}
	for i, row := range rows {
		table.Rows[i] = record.Row(row)
	}
	return table
}
