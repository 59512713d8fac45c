package ports

import "context"

// ConversionResult is the outcome of one document-to-PDF conversion
type ConversionResult struct {
	Success bool
	PDFPath string // set on success
	Message string // error message on failure
	Detail  string // optional diagnostic detail
}

// PDFConverter converts a rendered document into a PDF in outputDir. The
// converter is typically a single shared engine instance: callers must not
// invoke Convert concurrently, and every call runs under the configured
// per-conversion timeout.
type PDFConverter interface {
	// Available probes the conversion capability before a batch starts
	Available(ctx context.Context) error

	// Convert produces a PDF next to the document's basename in outputDir.
	// Failures and timeouts are reported in the result, not as an error, so
	// one bad record cannot abort a batch.
	Convert(ctx context.Context, documentPath, outputDir string) ConversionResult

	// Close releases the underlying engine
	Close() error
}
