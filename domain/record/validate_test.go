package record

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestValidateCleanInput tests that a consistent setup yields an empty report
func TestValidateCleanInput(t *testing.T) {
	dir := t.TempDir()

	report := Validate(ValidationInput{
		SpreadsheetPath: touch(t, dir, "data.xlsx"),
		MappingPath:     touch(t, dir, "map.json"),
		Table:           table(Row{"h"}, Row{"1", "Alice"}),
		Mapping:         NewFieldMapping([]MappingEntry{{Key: "name", Address: "B"}}),
		SkipRows:        1,
	})
	if len(report) != 0 {
		t.Errorf("report = %v, want empty", report)
	}
}

// TestValidateAccumulatesAllFindings tests that validation is not fail-fast
func TestValidateAccumulatesAllFindings(t *testing.T) {
	report := Validate(ValidationInput{
		SpreadsheetPath: "/nonexistent/data.xlsx",
		MappingPath:     "/nonexistent/map.json",
		Table:           RawTable{},
		Mapping:         FieldMapping{},
		SkipRows:        4,
	})
	// missing spreadsheet, missing mapping, no data, empty mapping
	if len(report) != 4 {
		t.Fatalf("report has %d findings, want 4: %v", len(report), report)
	}
}

// TestValidateColumnOutOfRange tests the column-count check
func TestValidateColumnOutOfRange(t *testing.T) {
	dir := t.TempDir()
	report := Validate(ValidationInput{
		SpreadsheetPath: touch(t, dir, "data.xlsx"),
		MappingPath:     touch(t, dir, "map.json"),
		Table:           table(Row{"h", "h"}, Row{"1", "Alice"}),
		Mapping: NewFieldMapping([]MappingEntry{
			{Key: "name", Address: "B"}, // fits
			{Key: "score", Address: "C"}, // exceeds the 2 columns
		}),
		SkipRows: 1,
	})
	if len(report) != 1 {
		t.Fatalf("report = %v, want exactly one finding", report)
	}
	if !strings.Contains(report[0], "score") || !strings.Contains(report[0], "\"C\"") {
		t.Errorf("finding should name the key and address: %q", report[0])
	}
}

// TestValidateEmptyAfterSkip tests that a table fully consumed by the skip
// count is reported as having no data
func TestValidateEmptyAfterSkip(t *testing.T) {
	dir := t.TempDir()
	report := Validate(ValidationInput{
		SpreadsheetPath: touch(t, dir, "data.xlsx"),
		MappingPath:     touch(t, dir, "map.json"),
		Table:           table(Row{"h1"}, Row{"h2"}),
		Mapping:         NewFieldMapping([]MappingEntry{{Key: "name", Address: "A"}}),
		SkipRows:        4,
	})
	if len(report) != 1 {
		t.Fatalf("report = %v, want one finding", report)
	}
	if !strings.Contains(report[0], "no data") {
		t.Errorf("finding = %q, want a no-data message", report[0])
	}
}

// TestValidateBadAddress tests that a malformed address is reported rather
// than panicking or being silently ignored
func TestValidateBadAddress(t *testing.T) {
	dir := t.TempDir()
	report := Validate(ValidationInput{
		SpreadsheetPath: touch(t, dir, "data.xlsx"),
		MappingPath:     touch(t, dir, "map.json"),
		Table:           table(Row{"h"}, Row{"1"}),
		Mapping:         NewFieldMapping([]MappingEntry{{Key: "name", Address: "7"}}),
		SkipRows:        1,
	})
	if len(report) != 1 {
		t.Fatalf("report = %v, want one finding", report)
	}
	if !strings.Contains(report[0], "invalid column address") {
		t.Errorf("finding = %q", report[0])
	}
}
