package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/textfetch/textfetch/internal/config"
	"github.com/textfetch/textfetch/internal/fetcher"
	"github.com/textfetch/textfetch/internal/observability"
	"github.com/textfetch/textfetch/internal/types"
)

// Strategy turns a decoded HTML document into extracted text.
type Strategy interface {
	// Name returns the strategy identifier.
	Name() string

	// Extract returns the text content of the document.
	Extract(html string) (string, error)
}

// NewStrategy returns the strategy for the given extractor configuration.
func NewStrategy(cfg *config.ExtractorConfig) (Strategy, error) {
	switch cfg.Mode {
	case "", "strip":
		return StripStrategy{}, nil
	case "selector":
		return SelectorStrategy{}, nil
	case "xpath":
		return XPathStrategy{Expr: cfg.XPath}, nil
	default:
		return nil, fmt.Errorf("unknown extraction mode %q", cfg.Mode)
	}
}

// Extractor fetches a page and produces its text content as a Result.
// Every failure is reported as the Result's failure variant; Extract
// never panics and never returns an error to the caller.
type Extractor struct {
	fetcher  fetcher.Fetcher
	strategy Strategy
	cfg      *config.ExtractorConfig
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// New creates an Extractor using the given fetcher and strategy.
func New(f fetcher.Fetcher, strategy Strategy, cfg *config.ExtractorConfig, logger *slog.Logger) *Extractor {
	return &Extractor{
		fetcher:  f,
		strategy: strategy,
		cfg:      cfg,
		logger:   logger.With("component", "extractor"),
	}
}

// SetMetrics attaches a metrics collector. Optional.
func (e *Extractor) SetMetrics(m *observability.Metrics) {
	e.metrics = m
}

// Extract performs one blocking fetch of the URL and returns either the
// extracted text or a description of what went wrong. Each invocation is
// independent: one outbound request, no retained state, no retries.
func (e *Extractor) Extract(ctx context.Context, rawURL string) *types.Result {
	start := time.Now()
	if e.metrics != nil {
		e.metrics.ExtractionsTotal.Add(1)
	}

	if rawURL == "" {
		return e.failure(rawURL, fmt.Sprintf("invalid URL: %v", types.ErrEmptyURL))
	}

	req, err := types.NewRequest(rawURL)
	if err != nil {
		return e.failure(rawURL, fmt.Sprintf("invalid URL: %v", err))
	}

	resp, err := e.fetcher.Fetch(ctx, req)
	if err != nil {
		if e.metrics != nil {
			e.metrics.FetchesFailed.Add(1)
		}
		return e.failure(rawURL, fmt.Sprintf("network error: %v", unwrapFetch(err)))
	}
	if e.metrics != nil {
		e.metrics.BytesDownloaded.Add(resp.ContentLength)
	}

	if !resp.IsSuccess() {
		if e.metrics != nil {
			e.metrics.HTTPErrors.Add(1)
		}
		return e.failureWithStatus(rawURL, resp.StatusCode,
			fmt.Sprintf("http error: %d %s for %s", resp.StatusCode, http.StatusText(resp.StatusCode), rawURL))
	}

	body, err := resp.Text()
	if err != nil {
		if e.metrics != nil {
			e.metrics.DecodeErrors.Add(1)
		}
		return e.failureWithStatus(rawURL, resp.StatusCode, fmt.Sprintf("decode error: %v", err))
	}

	text, err := e.strategy.Extract(body)
	if err != nil {
		extractErr := &types.ExtractError{URL: rawURL, Mode: e.strategy.Name(), Err: err}
		return e.failureWithStatus(rawURL, resp.StatusCode, extractErr.Error())
	}

	if e.cfg.Normalize {
		text = NormalizeWhitespace(text)
	}
	if e.cfg.MaxTextSize > 0 && len(text) > e.cfg.MaxTextSize {
		text = text[:e.cfg.MaxTextSize]
	}

	res := types.Success(rawURL, text)
	res.Title = PageTitle(body)
	res.StatusCode = resp.StatusCode
	res.Bytes = resp.ContentLength
	res.Duration = time.Since(start)
	if e.metrics != nil {
		e.metrics.ExtractDurationMillis.Add(res.Duration.Milliseconds())
	}

	e.logger.Debug("extraction complete",
		"url", rawURL,
		"mode", e.strategy.Name(),
		"status", resp.StatusCode,
		"text_len", len(text),
		"duration", res.Duration,
	)

	return res
}

// Mode returns the active strategy's identifier.
func (e *Extractor) Mode() string {
	return e.strategy.Name()
}

func (e *Extractor) failure(url, message string) *types.Result {
	return e.failureWithStatus(url, 0, message)
}

func (e *Extractor) failureWithStatus(url string, status int, message string) *types.Result {
	if e.metrics != nil {
		e.metrics.ExtractionsFailed.Add(1)
	}
	e.logger.Debug("extraction failed", "url", url, "reason", message)
	res := types.Failure(url, message)
	res.StatusCode = status
	return res
}

// unwrapFetch strips the FetchError envelope so failure messages carry the
// underlying cause without repeating the URL.
func unwrapFetch(err error) error {
	var fe *types.FetchError
	if errors.As(err, &fe) && fe.Err != nil {
		return fe.Err
	}
	return err
}
