package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/unnatikoppikar/SchoolReportGenerator/adapters/chrome"
	"github.com/unnatikoppikar/SchoolReportGenerator/adapters/excel"
	"github.com/unnatikoppikar/SchoolReportGenerator/adapters/mapping"
	"github.com/unnatikoppikar/SchoolReportGenerator/adapters/template"
	"github.com/unnatikoppikar/SchoolReportGenerator/app"
	"github.com/unnatikoppikar/SchoolReportGenerator/domain/record"
	"github.com/unnatikoppikar/SchoolReportGenerator/domain/run"
	"github.com/unnatikoppikar/SchoolReportGenerator/internal"
	"github.com/unnatikoppikar/SchoolReportGenerator/internal/config"
	"github.com/unnatikoppikar/SchoolReportGenerator/internal/testkit"
	"github.com/unnatikoppikar/SchoolReportGenerator/ports"
	"github.com/unnatikoppikar/SchoolReportGenerator/ui"
)

func main() {
	// .env is optional; real env vars win
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "reportgen",
		Short: "Generate per-student report card PDFs from a spreadsheet and a field mapping",
	}

	rootCmd.AddCommand(
		newGenerateCmd(),
		newValidateCmd(),
		newServeCmd(),
		newSampleCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runFlags are the per-invocation overrides shared by generate and validate
type runFlags struct {
	excelPath    string
	mappingPath  string
	templatePath string
	className    string
	outputDir    string
	workDir      string
	skipRows     int
	workers      int
	timeout      time.Duration
	percentKeys  []string
	remarkKeys   []string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.excelPath, "excel", "", "path to the spreadsheet (.xlsx)")
	cmd.Flags().StringVar(&f.mappingPath, "mapping", "", "path to the mapping JSON (default mappings/<class>_mapping.json)")
	cmd.Flags().StringVar(&f.templatePath, "template", "", "report template (.html or .md)")
	cmd.Flags().StringVar(&f.className, "class", "", "class name, underscores become spaces in output")
	cmd.Flags().StringVar(&f.outputDir, "outdir", "", "directory for PDFs and the run report")
	cmd.Flags().StringVar(&f.workDir, "workdir", "", "directory for intermediate filled documents")
	cmd.Flags().IntVar(&f.skipRows, "skip-rows", -1, "leading header rows to skip (default from config)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "parallel fill workers; conversion stays serialized")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "per-conversion timeout (default from config)")
	cmd.Flags().StringSliceVar(&f.percentKeys, "percent-field", nil, "mapping keys formatted as percentages")
	cmd.Flags().StringSliceVar(&f.remarkKeys, "remark-field", nil, "mapping keys suffixed with '!'")
}

// params merges flags over the environment configuration
func (f *runFlags) params(cfg *config.Config) app.RunParams {
	p := app.RunParams{
		SpreadsheetPath: f.excelPath,
		MappingPath:     f.mappingPath,
		TemplatePath:    f.templatePath,
		ClassName:       f.className,
		OutputDir:       f.outputDir,
		WorkDir:         f.workDir,
		SkipRows:        cfg.Processing.SkipRows,
		NullSentinel:    cfg.Processing.NullSentinel,
		NullIndicators:  cfg.Processing.NullIndicators,
		Workers:         cfg.Processing.Workers,
		Transforms:      map[string]record.Transform{},
	}
	if p.TemplatePath == "" {
		p.TemplatePath = cfg.Paths.TemplateFile
	}
	if p.MappingPath == "" && f.className != "" {
		p.MappingPath = filepath.Join("mappings", strings.ReplaceAll(f.className, " ", "_")+"_mapping.json")
	}
	if p.OutputDir == "" {
		p.OutputDir = fmt.Sprintf("%s report_cards", f.className)
	}
	if p.WorkDir == "" {
		p.WorkDir = cfg.Paths.WorkDir
	}
	if f.skipRows >= 0 {
		p.SkipRows = f.skipRows
	}
	if f.workers > 0 {
		p.Workers = f.workers
	}
	for _, key := range f.percentKeys {
		p.Transforms[key] = record.PercentTransform
	}
	for _, key := range f.remarkKeys {
		p.Transforms[key] = record.SuffixTransform("!")
	}
	return p
}

func newGenerateCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate report card PDFs for a class",
		Long: `Generate one PDF per non-blank student row.

The spreadsheet's first non-empty sheet is used; header rows are skipped per
--skip-rows. A failed record is reported and the batch continues.

Example: reportgen generate --excel input_files/5A.xlsx --class 5_A --template input_files/card.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if flags.excelPath == "" || flags.className == "" {
				return fmt.Errorf("--excel and --class are required")
			}
			if f := flags.timeout; f > 0 {
				cfg.Converter.Timeout = f
			}

			converter := chrome.NewConverter(chrome.Config{
				ChromePath: cfg.Converter.ChromePath,
				Timeout:    cfg.Converter.Timeout,
				NoSandbox:  cfg.Converter.NoSandbox,
			})
			defer converter.Close()

			generator := newGenerator(cfg, logger, converter)
			report, err := generator.Run(cmd.Context(), flags.params(cfg))
			if err != nil {
				return err
			}

			fmt.Printf("run %s: %d succeeded, %d failed (%d record(s))\n",
				report.RunID, report.Succeeded(), report.Failed(), len(report.Outcomes))
			for _, o := range report.Outcomes {
				if o.Status == run.RecordFailed {
					fmt.Printf("  row %d (%s): %s\n", o.RowNumber, o.DisplayName, o.Error)
				}
			}
			if report.Failed() > 0 {
				os.Exit(1)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newValidateCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check spreadsheet, mapping and template integrity without producing output",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if flags.excelPath == "" {
				return fmt.Errorf("--excel is required")
			}

			// validation never converts, so no real engine is needed
			generator := newGenerator(cfg, logger, &testkit.FakeConverter{})
			findings, err := generator.Validate(cmd.Context(), flags.params(cfg))
			if err != nil {
				return err
			}
			if len(findings) == 0 {
				fmt.Println("ok: safe to proceed")
				return nil
			}
			for _, finding := range findings {
				fmt.Printf("  - %s\n", finding)
			}
			os.Exit(1)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the generation pipeline over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			converter := chrome.NewConverter(chrome.Config{
				ChromePath: cfg.Converter.ChromePath,
				Timeout:    cfg.Converter.Timeout,
				NoSandbox:  cfg.Converter.NoSandbox,
			})
			defer converter.Close()

			generator := newGenerator(cfg, logger, converter)
			return ui.NewServer(generator, cfg, logger).ListenAndServe()
		},
	}
}

func newSampleCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a demo workbook, mapping and template to try the pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			workbook := filepath.Join(dir, "input_files", "class_5A.xlsx")
			mappingFile := filepath.Join(dir, "mappings", "5_A_mapping.json")
			templateFile := filepath.Join(dir, "input_files", "report_card.md")

			if err := testkit.WriteWorkbook(workbook, testkit.SampleClassbook()); err != nil {
				return err
			}
			if err := testkit.WriteMappingFile(mappingFile, testkit.SampleMapping()); err != nil {
				return err
			}
			if err := os.WriteFile(templateFile, []byte(testkit.SampleTemplate), 0o644); err != nil {
				return err
			}

			fmt.Printf("wrote %s, %s and %s\n", workbook, mappingFile, templateFile)
			fmt.Printf("try: reportgen generate --excel %s --class 5_A --template %s\n", workbook, templateFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "target directory for the sample files")
	return cmd
}

func setup() (*config.Config, *internal.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, internal.NewDefaultLogger(), nil
}

func newGenerator(cfg *config.Config, logger *internal.Logger, converter ports.PDFConverter) *app.Generator {
	return app.NewGenerator(
		excel.NewReader(logger),
		mapping.NewLoader(),
		func(templatePath string) (ports.TemplateFiller, error) {
			return template.NewFiller(templatePath)
		},
		converter,
		logger,
	)
}
