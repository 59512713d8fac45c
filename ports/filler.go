package ports

import (
	"context"

	"github.com/unnatikoppikar/SchoolReportGenerator/domain/record"
)

// TemplateFiller renders one record's field dict into a document at
// outputPath. The core treats it as an opaque file-producing capability; a
// malformed placeholder surfaces as an error for that record only.
type TemplateFiller interface {
	// Fill renders the template with data and writes the document, returning
	// the path actually written.
	Fill(ctx context.Context, data *record.FieldDict, outputPath string) (string, error)

	// Placeholders lists the placeholder keys the template references, for
	// pre-run validation against the field mapping.
	Placeholders() ([]string, error)
}
