// Package textfetch provides a public API for embedding textfetch as a library.
//
// Example usage:
//
//	client, err := textfetch.New(
//	    textfetch.WithTimeout(5*time.Second),
//	    textfetch.WithNormalize(true),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	res := client.Extract(context.Background(), "https://example.com")
//	if res.OK {
//	    fmt.Println(res.Text)
//	} else {
//	    fmt.Println("failed:", res.Message)
//	}
package textfetch

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/textfetch/textfetch/internal/config"
	"github.com/textfetch/textfetch/internal/extract"
	"github.com/textfetch/textfetch/internal/fetcher"
	"github.com/textfetch/textfetch/internal/types"
)

// Result is the outcome of a single extraction.
type Result = types.Result

// Client is the high-level API for fetching page text.
type Client struct {
	cfg       *config.Config
	fetcher   *fetcher.HTTPFetcher
	extractor *extract.Extractor
}

// Option configures a Client.
type Option func(*config.Config)

// WithTimeout sets the request timeout. Defaults to 10s.
func WithTimeout(d time.Duration) Option {
	return func(c *config.Config) { c.Fetcher.RequestTimeout = d }
}

// WithMode sets the extraction mode: strip, selector, or xpath.
func WithMode(mode string) Option {
	return func(c *config.Config) { c.Extractor.Mode = mode }
}

// WithXPath sets the expression for xpath mode.
func WithXPath(expr string) Option {
	return func(c *config.Config) {
		c.Extractor.Mode = "xpath"
		c.Extractor.XPath = expr
	}
}

// WithNormalize collapses whitespace in the extracted text.
func WithNormalize(on bool) Option {
	return func(c *config.Config) { c.Extractor.Normalize = on }
}

// WithUserAgent sets a custom User-Agent.
func WithUserAgent(ua string) Option {
	return func(c *config.Config) { c.Fetcher.UserAgents = []string{ua} }
}

// WithMaxBodySize caps the response body size in bytes.
func WithMaxBodySize(n int64) Option {
	return func(c *config.Config) { c.Fetcher.MaxBodySize = n }
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := config.DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	f, err := fetcher.NewHTTPFetcher(cfg, logger)
	if err != nil {
		return nil, err
	}

	strategy, err := extract.NewStrategy(&cfg.Extractor)
	if err != nil {
		return nil, err
	}

	return &Client{
		cfg:       cfg,
		fetcher:   f,
		extractor: extract.New(f, strategy, &cfg.Extractor, logger),
	}, nil
}

// Extract fetches the URL and returns either its text content or a
// description of the failure. It never panics; all errors surface as the
// Result's failure variant.
func (c *Client) Extract(ctx context.Context, url string) *Result {
	return c.extractor.Extract(ctx, url)
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.fetcher.Close()
}
