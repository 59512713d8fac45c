package ui

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/unnatikoppikar/SchoolReportGenerator/app"
	"github.com/unnatikoppikar/SchoolReportGenerator/domain/run"
	"github.com/unnatikoppikar/SchoolReportGenerator/internal"
	"github.com/unnatikoppikar/SchoolReportGenerator/internal/config"
)

// Server exposes the generation pipeline over HTTP so any frontend can drive
// runs. The portable desktop UI is not part of this repository; this is the
// programmatic surface.
type Server struct {
	generator *app.Generator
	cfg       *config.Config
	logger    *internal.Logger

	mu      sync.RWMutex
	reports map[run.ID]*run.Report
}

// NewServer creates the HTTP server around a generator
func NewServer(generator *app.Generator, cfg *config.Config, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Server{
		generator: generator,
		cfg:       cfg,
		logger:    logger,
		reports:   make(map[run.ID]*run.Report),
	}
}

// Router builds the chi router
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/runs", func(r chi.Router) {
		r.Post("/", s.handleCreateRun)
		r.Get("/", s.handleListRuns)
		r.Get("/{runID}", s.handleGetRun)
	})
	return r
}

// ListenAndServe starts the server on the configured port
func (s *Server) ListenAndServe() error {
	addr := ":" + s.cfg.Server.Port
	s.logger.Info("listening on %s", addr)
	return http.ListenAndServe(addr, s.Router())
}

// runRequest is the POST /api/runs payload. Processing settings fall back to
// the server's configuration when omitted.
type runRequest struct {
	SpreadsheetPath string `json:"spreadsheet_path"`
	MappingPath     string `json:"mapping_path"`
	TemplatePath    string `json:"template_path"`
	ClassName       string `json:"class_name"`
	OutputDir       string `json:"output_dir,omitempty"`
	SkipRows        *int   `json:"skip_rows,omitempty"`
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.SpreadsheetPath == "" || req.MappingPath == "" || req.TemplatePath == "" || req.ClassName == "" {
		writeError(w, http.StatusBadRequest, "spreadsheet_path, mapping_path, template_path and class_name are required")
		return
	}

	params := app.RunParams{
		SpreadsheetPath: req.SpreadsheetPath,
		MappingPath:     req.MappingPath,
		TemplatePath:    req.TemplatePath,
		ClassName:       req.ClassName,
		OutputDir:       req.OutputDir,
		WorkDir:         s.cfg.Paths.WorkDir,
		SkipRows:        s.cfg.Processing.SkipRows,
		NullSentinel:    s.cfg.Processing.NullSentinel,
		NullIndicators:  s.cfg.Processing.NullIndicators,
		Workers:         s.cfg.Processing.Workers,
	}
	if params.OutputDir == "" {
		params.OutputDir = s.cfg.Paths.OutputDir
	}
	if req.SkipRows != nil {
		params.SkipRows = *req.SkipRows
	}

	report, err := s.generator.Run(r.Context(), params)
	if err != nil {
		if verr, ok := err.(*app.ValidationError); ok {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":    "validation failed",
				"findings": verr.Findings,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.mu.Lock()
	s.reports[report.RunID] = report
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, report)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := run.ID(chi.URLParam(r, "runID"))

	s.mu.RLock()
	report, ok := s.reports[id]
	s.mu.RUnlock()

	if !ok {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	out := make([]*run.Report, 0, len(s.reports))
	for _, report := range s.reports {
		out = append(out, report)
	}
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
