package ports

import (
	"context"

	"github.com/unnatikoppikar/SchoolReportGenerator/domain/record"
)

// TableSource loads the raw grid of the first non-empty sheet of a
// spreadsheet. Loading happens once per run; the returned table is read-only
// for the run's duration.
type TableSource interface {
	Load(ctx context.Context, path string) (record.RawTable, error)
}

// MappingSource loads the placeholder-key → column-address table from a
// declarative file, preserving insertion order.
type MappingSource interface {
	Load(path string) (record.FieldMapping, error)
}
