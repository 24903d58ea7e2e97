package fetcher

import (
	"compress/gzip"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/textfetch/textfetch/internal/config"
	"github.com/textfetch/textfetch/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func newFetcher(t *testing.T, mutate func(*config.Config)) *HTTPFetcher {
	t.Helper()

	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}

	f, err := NewHTTPFetcher(cfg, testLogger)
	if err != nil {
		t.Fatalf("create fetcher: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func fetch(t *testing.T, f *HTTPFetcher, url string) (*types.Response, error) {
	t.Helper()
	req, err := types.NewRequest(url)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	return f.Fetch(context.Background(), req)
}

func TestFetchPlainBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer server.Close()

	f := newFetcher(t, nil)
	resp, err := fetch(t, f, server.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if string(resp.Body) != "<html><body>hello</body></html>" {
		t.Errorf("unexpected body: %q", resp.Body)
	}
	if resp.ContentType != "text/html" {
		t.Errorf("unexpected content type: %q", resp.ContentType)
	}
}

func TestFetchGzipBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		gz.Write([]byte("compressed content"))
		gz.Close()
	}))
	defer server.Close()

	f := newFetcher(t, nil)
	resp, err := fetch(t, f, server.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if string(resp.Body) != "compressed content" {
		t.Errorf("expected decompressed body, got %q", resp.Body)
	}
}

func TestFetchBrotliBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "br")
		bw := brotli.NewWriter(w)
		bw.Write([]byte("brotli content"))
		bw.Close()
	}))
	defer server.Close()

	f := newFetcher(t, nil)
	resp, err := fetch(t, f, server.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if string(resp.Body) != "brotli content" {
		t.Errorf("expected decompressed body, got %q", resp.Body)
	}
}

func TestFetchNonSuccessStatusIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("gone"))
	}))
	defer server.Close()

	f := newFetcher(t, nil)
	resp, err := fetch(t, f, server.URL)
	if err != nil {
		t.Fatalf("expected response for 404, got error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	if resp.IsSuccess() {
		t.Error("404 must not be a success")
	}
}

func TestFetchConnectionRefused(t *testing.T) {
	f := newFetcher(t, nil)
	_, err := fetch(t, f, "http://127.0.0.1:1")

	if err == nil {
		t.Fatal("expected error for refused connection")
	}
	var fetchErr *types.FetchError
	if !errors.As(err, &fetchErr) {
		t.Errorf("expected *types.FetchError, got %T", err)
	}
}

func TestFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte("late"))
	}))
	defer server.Close()

	f := newFetcher(t, func(cfg *config.Config) {
		cfg.Fetcher.RequestTimeout = 20 * time.Millisecond
	})

	_, err := fetch(t, f, server.URL)
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestFetchMaxBodySize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 1000; i++ {
			w.Write([]byte("0123456789"))
		}
	}))
	defer server.Close()

	f := newFetcher(t, func(cfg *config.Config) {
		cfg.Fetcher.MaxBodySize = 100
	})

	resp, err := fetch(t, f, server.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(resp.Body) != 100 {
		t.Errorf("expected body capped at 100 bytes, got %d", len(resp.Body))
	}
}

func TestFetchRedirect(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("final"))
	}))
	defer target.Close()

	redirector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusFound)
	}))
	defer redirector.Close()

	f := newFetcher(t, nil)
	resp, err := fetch(t, f, redirector.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(resp.Body) != "final" {
		t.Errorf("expected redirect followed, got %q", resp.Body)
	}
	if resp.FinalURL != target.URL {
		t.Errorf("expected FinalURL %q, got %q", target.URL, resp.FinalURL)
	}
}

func TestResponseTextDecodesCharset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write([]byte("caf\xe9"))
	}))
	defer server.Close()

	f := newFetcher(t, nil)
	resp, err := fetch(t, f, server.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	text, err := resp.Text()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if text != "café" {
		t.Errorf("expected %q, got %q", "café", text)
	}
}

func TestFetchRedirectDisabled(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("final"))
	}))
	defer target.Close()

	redirector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusFound)
	}))
	defer redirector.Close()

	f := newFetcher(t, func(cfg *config.Config) {
		cfg.Fetcher.FollowRedirects = false
	})

	resp, err := fetch(t, f, redirector.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Errorf("expected 302 when redirects disabled, got %d", resp.StatusCode)
	}
}
