package testkit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/unnatikoppikar/SchoolReportGenerator/domain/record"
	"github.com/unnatikoppikar/SchoolReportGenerator/ports"
)

// FakeFiller implements ports.TemplateFiller without touching a real
// template. It writes one "key=value" line per field so tests can assert on
// the rendered content.
type FakeFiller struct {
	FailNames map[string]bool // display basenames that should fail to fill

	mu     sync.Mutex
	Filled []string
}

func (f *FakeFiller) Fill(ctx context.Context, data *record.FieldDict, outputPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	base := strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath))
	if f.FailNames[base] {
		return "", fmt.Errorf("fake filler: refusing to fill %s", base)
	}

	var b strings.Builder
	for _, key := range data.Keys() {
		v, _ := data.Get(key)
		fmt.Fprintf(&b, "%s=%s\n", key, v)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(outputPath, []byte(b.String()), 0o644); err != nil {
		return "", err
	}

	f.mu.Lock()
	f.Filled = append(f.Filled, outputPath)
	f.mu.Unlock()
	return outputPath, nil
}

func (f *FakeFiller) Placeholders() ([]string, error) {
	return nil, nil
}

// FakeConverter implements ports.PDFConverter in memory. Conversions for
// basenames listed in TimeoutNames report a timeout; FailNames a plain
// failure. It also records whether two Convert calls ever overlapped, so
// tests can assert the single-slot invariant.
type FakeConverter struct {
	Unavailable  error
	FailNames    map[string]bool
	TimeoutNames map[string]bool
	Delay        time.Duration // per-conversion latency, to provoke overlap

	mu         sync.Mutex
	inFlight   int
	Overlapped bool
	Converted  []string
}

func (c *FakeConverter) Available(ctx context.Context) error {
	return c.Unavailable
}

func (c *FakeConverter) Convert(ctx context.Context, documentPath, outputDir string) ports.ConversionResult {
	c.mu.Lock()
	c.inFlight++
	if c.inFlight > 1 {
		c.Overlapped = true
	}
	c.mu.Unlock()
	if c.Delay > 0 {
		time.Sleep(c.Delay)
	}
	defer func() {
		c.mu.Lock()
		c.inFlight--
		c.mu.Unlock()
	}()

	stem := strings.TrimSuffix(filepath.Base(documentPath), filepath.Ext(documentPath))
	if c.TimeoutNames[stem] {
		return ports.ConversionResult{Success: false, Message: "conversion timed out after 60s"}
	}
	if c.FailNames[stem] {
		return ports.ConversionResult{Success: false, Message: "conversion failed", Detail: "fake engine error"}
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return ports.ConversionResult{Success: false, Message: err.Error()}
	}
	pdfPath := filepath.Join(outputDir, stem+".pdf")
	if err := os.WriteFile(pdfPath, []byte("%PDF-1.4 fake\n"), 0o644); err != nil {
		return ports.ConversionResult{Success: false, Message: err.Error()}
	}

	c.mu.Lock()
	c.Converted = append(c.Converted, pdfPath)
	c.mu.Unlock()
	return ports.ConversionResult{Success: true, PDFPath: pdfPath}
}

func (c *FakeConverter) Close() error {
	return nil
}
