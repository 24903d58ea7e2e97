package types

import (
	"time"
)

// Result is the tagged outcome of a single extraction: either the
// tag-stripped text of the page, or a human-readable failure message.
// OK distinguishes the two variants.
type Result struct {
	// OK is true for the success variant.
	OK bool `json:"ok"`

	// URL is the URL the extraction was requested for.
	URL string `json:"url"`

	// Text is the extracted page text. Only set on success.
	Text string `json:"text,omitempty"`

	// Title is the page <title>, captured best-effort. Only set on success.
	Title string `json:"title,omitempty"`

	// Message describes what went wrong. Only set on failure.
	Message string `json:"message,omitempty"`

	// StatusCode is the HTTP status of the response, where one was received.
	StatusCode int `json:"status_code,omitempty"`

	// Bytes is the size of the fetched body in bytes.
	Bytes int64 `json:"bytes,omitempty"`

	// Duration is how long the fetch and extraction took.
	Duration time.Duration `json:"duration,omitempty"`

	// ExtractedAt is when the extraction completed.
	ExtractedAt time.Time `json:"extracted_at"`
}

// Success creates the success variant of a Result.
func Success(url, text string) *Result {
	return &Result{
		OK:          true,
		URL:         url,
		Text:        text,
		ExtractedAt: time.Now(),
	}
}

// Failure creates the failure variant of a Result.
func Failure(url, message string) *Result {
	return &Result{
		OK:          false,
		URL:         url,
		Message:     message,
		ExtractedAt: time.Now(),
	}
}

// Record is a stored extraction kept in history for display and export.
// History never feeds back into fetching; each extraction always goes to
// the network.
type Record struct {
	ID         string        `json:"id" bson:"_id"`
	URL        string        `json:"url" bson:"url"`
	Title      string        `json:"title,omitempty" bson:"title,omitempty"`
	Text       string        `json:"text" bson:"text"`
	Mode       string        `json:"mode" bson:"mode"`
	StatusCode int           `json:"status_code" bson:"status_code"`
	Bytes      int64         `json:"bytes" bson:"bytes"`
	Duration   time.Duration `json:"duration" bson:"duration"`
	CreatedAt  time.Time     `json:"created_at" bson:"created_at"`
}

// NewRecord builds a Record from a successful Result.
func NewRecord(id, mode string, res *Result) *Record {
	return &Record{
		ID:         id,
		URL:        res.URL,
		Title:      res.Title,
		Text:       res.Text,
		Mode:       mode,
		StatusCode: res.StatusCode,
		Bytes:      res.Bytes,
		Duration:   res.Duration,
		CreatedAt:  res.ExtractedAt,
	}
}
