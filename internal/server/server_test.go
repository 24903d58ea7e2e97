package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/textfetch/textfetch/internal/config"
	"github.com/textfetch/textfetch/internal/extract"
	"github.com/textfetch/textfetch/internal/fetcher"
	"github.com/textfetch/textfetch/internal/history"
	"github.com/textfetch/textfetch/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func newTestServer(t *testing.T) (*Server, history.Store) {
	t.Helper()

	cfg := config.DefaultConfig()
	f, err := fetcher.NewHTTPFetcher(cfg, testLogger)
	if err != nil {
		t.Fatalf("create fetcher: %v", err)
	}
	t.Cleanup(func() { f.Close() })

	strategy, err := extract.NewStrategy(&cfg.Extractor)
	if err != nil {
		t.Fatalf("create strategy: %v", err)
	}
	ex := extract.New(f, strategy, &cfg.Extractor, testLogger)

	store, err := history.NewFileStore(filepath.Join(t.TempDir(), "history.json"), testLogger)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewServer(0, ex, store, testLogger), store
}

func doRequest(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = httptest.NewRequest(method, path, bytes.NewReader(data))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)
	return w
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "ok" || resp["backend"] != "file" {
		t.Errorf("unexpected health response: %v", resp)
	}
}

func TestIndexPage(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, http.MethodGet, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("unexpected content type: %s", ct)
	}
	if !strings.Contains(w.Body.String(), "textfetch") {
		t.Error("index page missing application name")
	}
}

func TestExtractEndpoint(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><head><title>Test Page</title></head><body><p>Hello <b>World</b></p></body></html>"))
	}))
	defer backend.Close()

	srv, store := newTestServer(t)

	w := doRequest(t, srv, http.MethodPost, "/api/extract", map[string]string{"url": backend.URL})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var res types.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.OK {
		t.Fatalf("expected success, got failure: %s", res.Message)
	}
	if !strings.Contains(res.Text, "Hello World") {
		t.Errorf("unexpected text: %q", res.Text)
	}
	if res.Title != "Test Page" {
		t.Errorf("unexpected title: %q", res.Title)
	}

	// Successful extractions land in history.
	records, total, err := store.List(1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(records) != 1 {
		t.Fatalf("expected one stored record, got %d", total)
	}
	if records[0].URL != backend.URL {
		t.Errorf("unexpected record URL: %q", records[0].URL)
	}
}

func TestExtractEndpointFailureNotStored(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer backend.Close()

	srv, store := newTestServer(t)

	w := doRequest(t, srv, http.MethodPost, "/api/extract", map[string]string{"url": backend.URL})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var res types.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.OK {
		t.Fatal("expected failure for 404 upstream")
	}
	if !strings.Contains(res.Message, "404") {
		t.Errorf("message should name the status code: %q", res.Message)
	}

	_, total, err := store.List(1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 0 {
		t.Errorf("failures must not be stored, got %d records", total)
	}
}

func TestExtractEndpointBadRequests(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, http.MethodPost, "/api/extract", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing url: expected 400, got %d", w.Code)
	}

	r := httptest.NewRequest(http.MethodPost, "/api/extract", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, r)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid JSON: expected 400, got %d", rec.Code)
	}
}

func TestRecordEndpoints(t *testing.T) {
	srv, store := newTestServer(t)

	rec := &types.Record{
		ID:         "rec-test",
		URL:        "https://example.com",
		Text:       "Hello",
		Mode:       "strip",
		StatusCode: 200,
		Bytes:      5,
		CreatedAt:  time.Now(),
	}
	if err := store.Append(rec); err != nil {
		t.Fatalf("append: %v", err)
	}

	w := doRequest(t, srv, http.MethodGet, "/api/records", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	var listResp struct {
		Records []*types.Record `json:"records"`
		Total   int             `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if listResp.Total != 1 || len(listResp.Records) != 1 {
		t.Fatalf("unexpected list response: %+v", listResp)
	}

	w = doRequest(t, srv, http.MethodGet, "/api/records/rec-test", nil)
	if w.Code != http.StatusOK {
		t.Errorf("get: expected 200, got %d", w.Code)
	}

	w = doRequest(t, srv, http.MethodGet, "/api/records/rec-missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get missing: expected 404, got %d", w.Code)
	}

	w = doRequest(t, srv, http.MethodDelete, "/api/records/rec-test", nil)
	if w.Code != http.StatusOK {
		t.Errorf("delete: expected 200, got %d", w.Code)
	}

	w = doRequest(t, srv, http.MethodDelete, "/api/records/rec-test", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("double delete: expected 404, got %d", w.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv, store := newTestServer(t)

	store.Append(&types.Record{ID: "rec-1", URL: "https://example.com", Bytes: 50, CreatedAt: time.Now()})

	w := doRequest(t, srv, http.MethodGet, "/api/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		History history.Stats `json:"history"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.History.Records != 1 || resp.History.Bytes != 50 {
		t.Errorf("unexpected stats: %+v", resp.History)
	}
}

func TestExportEndpoint(t *testing.T) {
	srv, store := newTestServer(t)

	store.Append(&types.Record{ID: "rec-1", URL: "https://example.com", Text: "Hello", CreatedAt: time.Now()})

	w := doRequest(t, srv, http.MethodGet, "/api/export/csv", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("unexpected content type: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "textfetch_history.csv") {
		t.Errorf("unexpected disposition: %s", cd)
	}
	if !strings.Contains(w.Body.String(), "rec-1") {
		t.Error("export missing record")
	}

	w = doRequest(t, srv, http.MethodGet, "/api/export/xml", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown format, got %d", w.Code)
	}
}
