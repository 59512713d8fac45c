package testkit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/unnatikoppikar/SchoolReportGenerator/domain/record"
)

// SheetSpec describes one sheet of a generated workbook
type SheetSpec struct {
	Name string
	Rows [][]string
}

// WriteWorkbook writes an .xlsx workbook with the given sheets in order.
// Used by tests and the `sample` command; never by the processing pipeline.
func WriteWorkbook(path string, sheets []SheetSpec) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			// rename the default sheet so sheet order matches the given order
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return err
			}
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return err
			}
		}
		for r, row := range sheet.Rows {
			cells := make([]interface{}, len(row))
			for c, v := range row {
				cells[c] = v
			}
			axis := fmt.Sprintf("A%d", r+1)
			if err := f.SetSheetRow(sheet.Name, axis, &cells); err != nil {
				return err
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// WriteMappingFile writes a flat JSON mapping preserving entry order
func WriteMappingFile(path string, entries []record.MappingEntry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out := "{\n"
	for i, e := range entries {
		out += fmt.Sprintf("  %q: %q", e.Key, e.Address)
		if i < len(entries)-1 {
			out += ","
		}
		out += "\n"
	}
	out += "}\n"
	return os.WriteFile(path, []byte(out), 0o644)
}

// SampleClassbook returns a demo workbook: a blank leading sheet (exports
// often carry one), then a data sheet with four header rows, students with
// null-like cells, and one fully blank row in the middle.
func SampleClassbook() []SheetSpec {
	return []SheetSpec{
		{Name: "Cover"},
		{
			Name: "Class 5A",
			Rows: [][]string{
				{"Greenfield Public School"},
				{"Annual Report Cards"},
				{"Academic Year 2025-26"},
				{"Roll No", "Name", "Score", "Percentage", "Remark"},
				{"1", "Alice Kumar", "92", "92.0", "Excellent"},
				{"2", "Bob Verma", "", "NA", "Keep it up"},
				{"", "", "", "", ""},
				{"3", "Chitra Rao", "78", "78.0", "none"},
				{"4", "Dev Patel", "85", "85.0", "Good work"},
			},
		},
	}
}

// SampleMapping returns the mapping that matches SampleClassbook
func SampleMapping() []record.MappingEntry {
	return []record.MappingEntry{
		{Key: "roll", Address: "A"},
		{Key: "name", Address: "B"},
		{Key: "score", Address: "C"},
		{Key: "percentage", Address: "D"},
		{Key: "remark", Address: "E"},
	}
}

// SampleTemplate is a Markdown report card template matching SampleMapping
const SampleTemplate = `# Report Card

**School:** Greenfield Public School

| | |
|---|---|
| Name | {{.name}} |
| Class | {{.class}} |
| Roll No | {{.roll}} |
| Score | {{.score}} |
| Percentage | {{.percentage}} |
| Remark | {{.remark}} |
`
