package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/textfetch/textfetch/internal/extract"
	"github.com/textfetch/textfetch/internal/history"
	"github.com/textfetch/textfetch/internal/observability"
	"github.com/textfetch/textfetch/internal/types"
)

// Server is the web shell: it collects a URL from the user, invokes the
// extractor, and renders the result or the failure message. It also exposes
// the extraction history for browsing and export.
type Server struct {
	mux       *http.ServeMux
	httpSrv   *http.Server
	port      int
	extractor *extract.Extractor
	store     history.Store
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewServer creates a new web shell server.
func NewServer(port int, extractor *extract.Extractor, store history.Store, logger *slog.Logger) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		port:      port,
		extractor: extractor,
		store:     store,
		logger:    logger.With("component", "server"),
	}

	s.registerRoutes()
	return s
}

// SetMetrics attaches a metrics collector. Optional.
func (s *Server) SetMetrics(m *observability.Metrics) {
	s.metrics = m
}

// Start runs the server until Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("web shell starting", "addr", addr)

	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// Handler exposes the route mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	// Form UI
	s.mux.HandleFunc("GET /{$}", s.handleIndex)

	// Health
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	// Extraction
	s.mux.HandleFunc("POST /api/extract", s.handleExtract)

	// History
	s.mux.HandleFunc("GET /api/records", s.handleListRecords)
	s.mux.HandleFunc("GET /api/records/{id}", s.handleGetRecord)
	s.mux.HandleFunc("DELETE /api/records/{id}", s.handleDeleteRecord)

	// Stats and export
	s.mux.HandleFunc("GET /api/stats", s.handleStats)
	s.mux.HandleFunc("GET /api/export/{format}", s.handleExport)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"backend": s.store.Name(),
	})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if body.URL == "" {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
		return
	}

	res := s.extractor.Extract(r.Context(), body.URL)

	if res.OK {
		rec := types.NewRecord(newRecordID(), s.extractor.Mode(), res)
		if err := s.store.Append(rec); err != nil {
			// History is best-effort; the extraction itself succeeded.
			s.logger.Warn("failed to store record", "url", res.URL, "error", err)
		} else if s.metrics != nil {
			s.metrics.RecordsStored.Add(1)
		}
	}

	s.jsonResponse(w, http.StatusOK, res)
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 10)
	if perPage > 100 {
		perPage = 100
	}

	records, total, err := s.store.List(page, perPage)
	if err != nil {
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if records == nil {
		records = []*types.Record{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"records":  records,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, err := s.store.Get(id)
	if errors.Is(err, history.ErrNotFound) {
		s.jsonResponse(w, http.StatusNotFound, map[string]string{"error": "record not found"})
		return
	}
	if err != nil {
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := s.store.Delete(id)
	if errors.Is(err, history.ErrNotFound) {
		s.jsonResponse(w, http.StatusNotFound, map[string]string{"error": "record not found"})
		return
	}
	if err != nil {
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if s.metrics != nil {
		s.metrics.RecordsDeleted.Add(1)
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats()
	if err != nil {
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	out := map[string]any{"history": stats}
	if s.metrics != nil {
		out["counters"] = s.metrics.Snapshot()
	}
	s.jsonResponse(w, http.StatusOK, out)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.PathValue("format")

	valid := false
	for _, f := range history.ExportFormats {
		if f == format {
			valid = true
			break
		}
	}
	if !valid {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid format"})
		return
	}

	// Export everything; List pages from 1 so ask for one large page.
	records, total, err := s.store.List(1, 1<<20)
	if err != nil {
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	contentTypes := map[string]string{
		"json": "application/json",
		"csv":  "text/csv",
		"md":   "text/markdown",
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=textfetch_history.%s", format))

	if err := history.Export(w, format, records); err != nil {
		s.logger.Error("export failed", "format", format, "records", total, "error", err)
	}
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func newRecordID() string {
	return fmt.Sprintf("rec-%d", time.Now().UnixNano())
}
