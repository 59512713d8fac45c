package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/unnatikoppikar/SchoolReportGenerator/domain/record"
	"github.com/unnatikoppikar/SchoolReportGenerator/domain/run"
	"github.com/unnatikoppikar/SchoolReportGenerator/internal"
	"github.com/unnatikoppikar/SchoolReportGenerator/internal/errors"
	"github.com/unnatikoppikar/SchoolReportGenerator/ports"
)

// NameKey is the placeholder key used to derive output filenames when the
// mapping provides it
const NameKey = "name"

// FillerFactory builds a template filler for a run's template file
type FillerFactory func(templatePath string) (ports.TemplateFiller, error)

// ValidationError aggregates the validator's findings. The run never starts
// when any finding exists.
type ValidationError struct {
	Findings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(e.Findings, "\n  - "))
}

// RunParams describes one generation run
type RunParams struct {
	SpreadsheetPath string
	MappingPath     string
	TemplatePath    string
	ClassName       string
	OutputDir       string
	WorkDir         string

	SkipRows       int
	NullSentinel   string
	NullIndicators []string
	Workers        int

	// Transforms are optional per-field value rewrites, keyed by placeholder
	// key (e.g. a percentage formatter). Never hardcoded in the processor.
	Transforms map[string]record.Transform
}

// Generator sequences the whole batch: extract records, build field dicts,
// fill templates and convert to PDF, tracking each record's outcome
// independently. Filling may fan out across workers; access to the shared
// conversion engine is serialized through a single-slot semaphore.
type Generator struct {
	source    ports.TableSource
	mappings  ports.MappingSource
	fillers   FillerFactory
	converter ports.PDFConverter
	logger    *internal.Logger

	convertSlot *semaphore.Weighted
}

// NewGenerator wires the orchestrator with its collaborators
func NewGenerator(source ports.TableSource, mappings ports.MappingSource, fillers FillerFactory, converter ports.PDFConverter, logger *internal.Logger) *Generator {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Generator{
		source:      source,
		mappings:    mappings,
		fillers:     fillers,
		converter:   converter,
		logger:      logger,
		convertSlot: semaphore.NewWeighted(1),
	}
}

// Run executes one generation run. Setup-phase failures (mapping load,
// validation, converter availability) abort before any record is touched.
// Per-record failures land in the report and never abort the batch.
// Cancellation takes effect after the in-flight record completes; output
// already produced stays valid.
func (g *Generator) Run(ctx context.Context, params RunParams) (*run.Report, error) {
	mapping, table, err := g.loadInputs(ctx, params)
	if err != nil {
		return nil, err
	}

	findings := record.Validate(record.ValidationInput{
		SpreadsheetPath: params.SpreadsheetPath,
		MappingPath:     params.MappingPath,
		Table:           table,
		Mapping:         mapping,
		SkipRows:        params.SkipRows,
	})
	if len(findings) > 0 {
		return nil, &ValidationError{Findings: findings}
	}

	if err := g.converter.Available(ctx); err != nil {
		return nil, errors.ConverterUnavailable(err)
	}

	filler, err := g.fillers(params.TemplatePath)
	if err != nil {
		return nil, err
	}

	normalizer := record.NewNormalizer(params.NullSentinel, params.NullIndicators)
	processor, err := record.NewProcessor(mapping, normalizer)
	if err != nil {
		return nil, err
	}
	processor.OnWarning = func(msg string) { g.logger.Warn("%s", msg) }
	for key, t := range params.Transforms {
		processor.SetTransform(key, t)
	}

	records := record.NewExtractor(table, params.SkipRows).All()
	g.logger.Info("processing %d record(s) for class %s", len(records), params.ClassName)

	report := &run.Report{
		RunID:     run.NewID(),
		ClassName: params.ClassName,
		StartedAt: time.Now(),
		Outcomes:  make([]run.RecordOutcome, len(records)),
	}
	dicts := make([]*record.FieldDict, len(records))

	workers := params.Workers
	if workers < 1 {
		workers = 1
	}

	group, groupCtx := errgroup.WithContext(context.Background())
	group.SetLimit(workers)

	for i, rec := range records {
		// Stop dispatching once the caller cancels; records already handed to
		// the group run to completion.
		if ctx.Err() != nil {
			report.Cancelled = true
			for j := i; j < len(records); j++ {
				report.Outcomes[j] = run.RecordOutcome{
					RowNumber: records[j].RowNumber,
					Status:    run.RecordSkipped,
					Error:     "run cancelled",
				}
			}
			break
		}

		i, rec := i, rec
		group.Go(func() error {
			dict := processor.Process(rec, params.ClassName)
			dicts[i] = dict
			report.Outcomes[i] = g.processRecord(groupCtx, filler, rec, dict, params)
			return nil
		})
	}

	_ = group.Wait()

	report.Summary = summarizeFields(mapping, normalizer.Sentinel(), collected(dicts))
	report.CompletedAt = time.Now()
	g.logger.Info("run %s finished: %d succeeded, %d failed", report.RunID, report.Succeeded(), report.Failed())

	if err := writeReport(report, params.OutputDir); err != nil {
		g.logger.Warn("could not write run report: %v", err)
	}
	return report, nil
}

// Validate loads the inputs and returns the validator's findings without
// producing any output. Also cross-checks the template's placeholders
// against the mapping keys when a template is given.
func (g *Generator) Validate(ctx context.Context, params RunParams) ([]string, error) {
	mapping, table, err := g.loadInputs(ctx, params)
	if err != nil {
		return nil, err
	}

	findings := record.Validate(record.ValidationInput{
		SpreadsheetPath: params.SpreadsheetPath,
		MappingPath:     params.MappingPath,
		Table:           table,
		Mapping:         mapping,
		SkipRows:        params.SkipRows,
	})

	if params.TemplatePath != "" {
		filler, err := g.fillers(params.TemplatePath)
		if err != nil {
			findings = append(findings, err.Error())
		} else if placeholders, err := filler.Placeholders(); err == nil {
			for _, p := range placeholders {
				if p == record.ClassKey {
					continue
				}
				if _, ok := mapping.Address(p); !ok {
					findings = append(findings, fmt.Sprintf("template references %q but the mapping has no such key", p))
				}
			}
		}
	}

	return findings, nil
}

func (g *Generator) loadInputs(ctx context.Context, params RunParams) (record.FieldMapping, record.RawTable, error) {
	mapping, err := g.mappings.Load(params.MappingPath)
	if err != nil {
		return record.FieldMapping{}, record.RawTable{}, err
	}

	table, err := g.source.Load(ctx, params.SpreadsheetPath)
	if err != nil {
		return record.FieldMapping{}, record.RawTable{}, err
	}
	return mapping, table, nil
}

// processRecord fills and converts one record. Every failure is captured in
// the outcome; nothing propagates.
func (g *Generator) processRecord(ctx context.Context, filler ports.TemplateFiller, rec record.StudentRecord, dict *record.FieldDict, params RunParams) run.RecordOutcome {
	start := time.Now()
	name := displayName(dict, rec, params.NullSentinel)
	outcome := run.RecordOutcome{RowNumber: rec.RowNumber, DisplayName: name}

	g.logger.Info("generating report card for %s (row %d)", name, rec.RowNumber)

	workPath := filepath.Join(params.WorkDir, SanitizeFilename(name)+".html")
	docPath, err := filler.Fill(ctx, dict, workPath)
	if err != nil {
		outcome.Status = run.RecordFailed
		outcome.Error = fmt.Sprintf("template fill failed: %v", err)
		outcome.Duration = time.Since(start).Milliseconds()
		return outcome
	}
	outcome.DocumentPath = docPath

	// The conversion engine is a single shared resource; one conversion at a
	// time regardless of worker count.
	if err := g.convertSlot.Acquire(ctx, 1); err != nil {
		outcome.Status = run.RecordFailed
		outcome.Error = fmt.Sprintf("conversion not attempted: %v", err)
		outcome.Duration = time.Since(start).Milliseconds()
		return outcome
	}
	res := g.converter.Convert(ctx, docPath, params.OutputDir)
	g.convertSlot.Release(1)

	outcome.Duration = time.Since(start).Milliseconds()
	if !res.Success {
		outcome.Status = run.RecordFailed
		outcome.Error = res.Message
		if res.Detail != "" && res.Detail != res.Message {
			outcome.Error += " (" + res.Detail + ")"
		}
		g.logger.Error("row %d (%s): %s", rec.RowNumber, name, outcome.Error)
		return outcome
	}

	outcome.Status = run.RecordSucceeded
	outcome.PDFPath = res.PDFPath
	return outcome
}

// displayName picks the record's human name for filenames and logs: the
// mapped "name" field when present and non-null, the row number otherwise.
// A record with a null name is still processed; only its filename falls back.
func displayName(dict *record.FieldDict, rec record.StudentRecord, sentinel string) string {
	if sentinel == "" {
		sentinel = record.DefaultNullSentinel
	}
	if v, ok := dict.Get(NameKey); ok && v != "" && v != sentinel {
		return v
	}
	return fmt.Sprintf("row_%d", rec.RowNumber)
}

func collected(dicts []*record.FieldDict) []*record.FieldDict {
	out := make([]*record.FieldDict, 0, len(dicts))
	for _, d := range dicts {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}

// writeReport persists the run report as JSON alongside the PDFs
func writeReport(report *run.Report, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(outputDir, fmt.Sprintf("run_report_%s.json", report.RunID))
	return os.WriteFile(path, data, 0o644)
}
