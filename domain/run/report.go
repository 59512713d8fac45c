package run

import (
	"time"

	"github.com/google/uuid"
)

// ID uniquely identifies a generation run
type ID string

// NewID generates a new run identifier
func NewID() ID {
	return ID(uuid.New().String())
}

func (id ID) String() string {
	return string(id)
}

// RecordStatus is the outcome of one record within a batch
type RecordStatus string

const (
	RecordSucceeded RecordStatus = "succeeded"
	RecordFailed    RecordStatus = "failed"
	RecordSkipped   RecordStatus = "skipped" // run was cancelled before this record
)

// RecordOutcome captures the result of one record. A failed record never
// aborts the batch; its outcome simply lands here.
type RecordOutcome struct {
	RowNumber    int          `json:"row_number"`
	DisplayName  string       `json:"display_name"`
	Status       RecordStatus `json:"status"`
	DocumentPath string       `json:"document_path,omitempty"`
	PDFPath      string       `json:"pdf_path,omitempty"`
	Error        string       `json:"error,omitempty"`
	Duration     int64        `json:"duration_ms"`
}

// FieldSummary holds summary statistics for one numeric mapping field
type FieldSummary struct {
	Field  string  `json:"field"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Report enumerates every record's outcome for a run
type Report struct {
	RunID       ID              `json:"run_id"`
	ClassName   string          `json:"class_name"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt time.Time       `json:"completed_at"`
	Outcomes    []RecordOutcome `json:"outcomes"`
	Summary     []FieldSummary  `json:"summary,omitempty"`
	Cancelled   bool            `json:"cancelled,omitempty"`
}

// Succeeded returns the number of successfully converted records
func (r *Report) Succeeded() int {
	return r.countStatus(RecordSucceeded)
}

// Failed returns the number of failed records
func (r *Report) Failed() int {
	return r.countStatus(RecordFailed)
}

func (r *Report) countStatus(status RecordStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}
