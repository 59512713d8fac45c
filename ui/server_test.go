package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unnatikoppikar/SchoolReportGenerator/adapters/excel"
	"github.com/unnatikoppikar/SchoolReportGenerator/adapters/mapping"
	"github.com/unnatikoppikar/SchoolReportGenerator/app"
	"github.com/unnatikoppikar/SchoolReportGenerator/domain/record"
	"github.com/unnatikoppikar/SchoolReportGenerator/domain/run"
	"github.com/unnatikoppikar/SchoolReportGenerator/internal/config"
	"github.com/unnatikoppikar/SchoolReportGenerator/internal/testkit"
	"github.com/unnatikoppikar/SchoolReportGenerator/ports"
)

type serverFixture struct {
	server          *Server
	spreadsheetPath string
	mappingPath     string
}

func newFixture(t *testing.T) *serverFixture {
	t.Helper()
	dir := t.TempDir()

	spreadsheet := filepath.Join(dir, "class.xlsx")
	require.NoError(t, testkit.WriteWorkbook(spreadsheet, testkit.SampleClassbook()))
	mappingPath := filepath.Join(dir, "mapping.json")
	require.NoError(t, testkit.WriteMappingFile(mappingPath, testkit.SampleMapping()))

	cfg := &config.Config{
		Processing: config.ProcessingConfig{
			SkipRows:       4,
			NullSentinel:   "---",
			NullIndicators: []string{"NAN", "NONE", "NA", "NULL", ""},
			Workers:        1,
		},
		Converter: config.ConverterConfig{Timeout: time.Minute},
		Server:    config.ServerConfig{Port: "0"},
		Paths: config.PathConfig{
			OutputDir: filepath.Join(dir, "out"),
			WorkDir:   filepath.Join(dir, "work"),
		},
	}

	generator := app.NewGenerator(
		excel.NewReader(nil),
		mapping.NewLoader(),
		func(templatePath string) (ports.TemplateFiller, error) {
			return &testkit.FakeFiller{}, nil
		},
		&testkit.FakeConverter{},
		nil,
	)

	return &serverFixture{
		server:          NewServer(generator, cfg, nil),
		spreadsheetPath: spreadsheet,
		mappingPath:     mappingPath,
	}
}

func (f *serverFixture) post(t *testing.T, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/runs", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, req)
	return rec
}

func (f *serverFixture) runBody(t *testing.T) map[string]interface{} {
	t.Helper()
	return map[string]interface{}{
		"spreadsheet_path": f.spreadsheetPath,
		"mapping_path":     f.mappingPath,
		"template_path":    "card.html",
		"class_name":       "Class_5A",
	}
}

// TestCreateRun tests a full run over HTTP, then fetching it back by ID
func TestCreateRun(t *testing.T) {
	f := newFixture(t)

	rec := f.post(t, f.runBody(t))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var report run.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "Class_5A", report.ClassName)
	assert.Len(t, report.Outcomes, 4, "sample classbook holds 4 students and one blank row")
	assert.Equal(t, 4, report.Succeeded())

	// the stored report is retrievable by ID
	getReq := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/runs/%s", report.RunID), nil)
	getRec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(getRec, getReq)
	require.Equal(t, http.StatusOK, getRec.Code)

	var fetched run.Report
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &fetched))
	assert.Equal(t, report.RunID, fetched.RunID)
}

// TestCreateRunMissingFields tests the required-field check
func TestCreateRunMissingFields(t *testing.T) {
	f := newFixture(t)

	body := f.runBody(t)
	delete(body, "class_name")
	rec := f.post(t, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestCreateRunInvalidJSON tests malformed request bodies
func TestCreateRunInvalidJSON(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/runs", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestCreateRunValidationFindings tests that validator findings come back as
// a 422 with the finding list, not a bare 500
func TestCreateRunValidationFindings(t *testing.T) {
	f := newFixture(t)

	body := f.runBody(t)
	body["spreadsheet_path"] = filepath.Join(t.TempDir(), "missing.xlsx")
	rec := f.post(t, body)
	require.Equal(t, http.StatusInternalServerError, rec.Code, "missing spreadsheet fails at load, before validation")

	// a mapping column past the sheet's width is a validation finding
	badMapping := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, testkit.WriteMappingFile(badMapping, append(testkit.SampleMapping(),
		record.MappingEntry{Key: "extra", Address: "ZZ"})))

	body = f.runBody(t)
	body["mapping_path"] = badMapping
	rec = f.post(t, body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	var resp struct {
		Error    string   `json:"error"`
		Findings []string `json:"findings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Findings)
}

// TestGetRunNotFound tests the 404 path
func TestGetRunNotFound(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/runs/no-such-run", nil)
	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestListRuns tests that completed runs accumulate in the listing
func TestListRuns(t *testing.T) {
	f := newFixture(t)

	require.Equal(t, http.StatusCreated, f.post(t, f.runBody(t)).Code)
	require.Equal(t, http.StatusCreated, f.post(t, f.runBody(t)).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var reports []run.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reports))
	assert.Len(t, reports, 2)
}

// TestHealthz tests the liveness endpoint
func TestHealthz(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
