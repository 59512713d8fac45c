package chrome

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/unnatikoppikar/SchoolReportGenerator/ports"
)

// A4 paper size in inches
const (
	paperWidth  = 8.27
	paperHeight = 11.69
	marginInch  = 0.4
)

// Converter renders HTML documents to PDF through a headless Chrome
// instance. The browser is started once and reused for every conversion in a
// batch; it is a single shared engine, so callers serialize Convert calls.
type Converter struct {
	chromePath string
	timeout    time.Duration
	noSandbox  bool

	mu            sync.Mutex
	started       bool
	closed        bool
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// Config holds converter settings
type Config struct {
	ChromePath string        // empty means auto-detect
	Timeout    time.Duration // per-conversion budget
	NoSandbox  bool          // required when running as root, e.g. in containers
}

// ErrClosed is returned when using a converter after Close
var ErrClosed = errors.New("chrome: converter is closed")

// NewConverter creates a converter. The browser is not started until
// Available or the first Convert call.
func NewConverter(cfg Config) *Converter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Converter{
		chromePath: cfg.ChromePath,
		timeout:    cfg.Timeout,
		noSandbox:  cfg.NoSandbox,
	}
}

// Available starts the browser if necessary and reports whether a working
// conversion engine exists. Called once before a batch; a failure here means
// no record should be attempted.
func (c *Converter) Available(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.ensureStarted()
}

// Convert renders the document at documentPath into outputDir, naming the
// PDF after the document's basename. Failures, including a per-conversion
// timeout, are reported in the result so the batch can continue.
func (c *Converter) Convert(ctx context.Context, documentPath, outputDir string) ports.ConversionResult {
	if _, err := os.Stat(documentPath); err != nil {
		return failure(fmt.Sprintf("document not found: %s", documentPath), err)
	}
	if err := c.ensureStarted(); err != nil {
		return failure("conversion engine not available", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return failure(fmt.Sprintf("cannot create output directory %s", outputDir), err)
	}

	abs, err := filepath.Abs(documentPath)
	if err != nil {
		return failure("cannot resolve document path", err)
	}

	// The tab context descends from the browser context so the engine is
	// reused; the per-conversion timeout is layered on top of the tab.
	tabCtx, tabCancel := chromedp.NewContext(c.browserCtx)
	defer tabCancel()
	tabCtx, timeoutCancel := context.WithTimeout(tabCtx, c.timeout)
	defer timeoutCancel()

	stop := context.AfterFunc(ctx, timeoutCancel) // caller cancellation still applies
	defer stop()

	var buf []byte
	err = chromedp.Run(tabCtx,
		chromedp.Navigate("file://"+abs),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(marginInch).
				WithMarginRight(marginInch).
				WithMarginBottom(marginInch).
				WithMarginLeft(marginInch).
				WithPrintBackground(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		if errors.Is(tabCtx.Err(), context.DeadlineExceeded) {
			return failure(fmt.Sprintf("conversion timed out after %s", c.timeout), err)
		}
		return failure("conversion failed", err)
	}

	stem := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	pdfPath := filepath.Join(outputDir, stem+".pdf")
	if err := os.WriteFile(pdfPath, buf, 0o644); err != nil {
		return failure(fmt.Sprintf("cannot write %s", pdfPath), err)
	}

	return ports.ConversionResult{Success: true, PDFPath: pdfPath}
}

// Close shuts the browser down. Idempotent.
func (c *Converter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.started {
		c.browserCancel()
		c.allocCancel()
	}
	return nil
}

// ensureStarted launches the browser on first use so that creation is cheap
// and availability is probed explicitly.
func (c *Converter) ensureStarted() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.started {
		return nil
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("no-first-run", true),
	)
	if c.chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.chromePath))
	}
	if c.noSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start eagerly so a missing Chrome binary surfaces here, not mid-batch.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return fmt.Errorf("starting browser: %w", err)
	}

	c.allocCancel = allocCancel
	c.browserCtx = browserCtx
	c.browserCancel = browserCancel
	c.started = true
	return nil
}

func failure(message string, err error) ports.ConversionResult {
	res := ports.ConversionResult{Success: false, Message: message}
	if err != nil {
		res.Detail = err.Error()
	}
	return res
}
