package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// Metrics tracks operational metrics for the extractor.
type Metrics struct {
	// Extraction metrics
	ExtractionsTotal  atomic.Int64
	ExtractionsFailed atomic.Int64

	// Failure class metrics
	FetchesFailed atomic.Int64
	HTTPErrors    atomic.Int64
	DecodeErrors  atomic.Int64

	// Transfer metrics
	BytesDownloaded atomic.Int64

	// ExtractDurationMillis accumulates total extraction wall time.
	ExtractDurationMillis atomic.Int64

	// History metrics
	RecordsStored  atomic.Int64
	RecordsDeleted atomic.Int64

	logger *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger.With("component", "metrics"),
	}
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	metrics := []struct {
		name  string
		help  string
		value int64
	}{
		{"textfetch_extractions_total", "Total extractions attempted", m.ExtractionsTotal.Load()},
		{"textfetch_extractions_failed_total", "Total failed extractions", m.ExtractionsFailed.Load()},
		{"textfetch_fetches_failed_total", "Total network-level fetch failures", m.FetchesFailed.Load()},
		{"textfetch_http_errors_total", "Total non-success HTTP responses", m.HTTPErrors.Load()},
		{"textfetch_decode_errors_total", "Total body decode failures", m.DecodeErrors.Load()},
		{"textfetch_bytes_downloaded_total", "Total bytes downloaded", m.BytesDownloaded.Load()},
		{"textfetch_extract_duration_millis_total", "Total extraction wall time in milliseconds", m.ExtractDurationMillis.Load()},
		{"textfetch_records_stored_total", "Total history records stored", m.RecordsStored.Load()},
		{"textfetch_records_deleted_total", "Total history records deleted", m.RecordsDeleted.Load()},
	}

	for _, metric := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", metric.name)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}
}

// StartServer starts the metrics HTTP server.
func (m *Metrics) StartServer(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, m)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	addr := fmt.Sprintf(":%d", port)
	m.logger.Info("metrics server starting", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			m.logger.Error("metrics server error", "error", err)
		}
	}()

	return nil
}

// Snapshot returns all metrics as a map.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"extractions_total":  m.ExtractionsTotal.Load(),
		"extractions_failed": m.ExtractionsFailed.Load(),
		"fetches_failed":     m.FetchesFailed.Load(),
		"http_errors":        m.HTTPErrors.Load(),
		"decode_errors":      m.DecodeErrors.Load(),
		"bytes_downloaded":   m.BytesDownloaded.Load(),
		"extract_millis":     m.ExtractDurationMillis.Load(),
		"records_stored":     m.RecordsStored.Load(),
		"records_deleted":    m.RecordsDeleted.Load(),
	}
}
