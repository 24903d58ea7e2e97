package types

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
)

// Response represents the result of fetching a request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Headers are the response HTTP headers.
	Headers http.Header

	// Body is the raw response body bytes.
	Body []byte

	// Request is a reference to the original request.
	Request *Request

	// ContentType is the MIME type of the response.
	ContentType string

	// ContentLength is the size of the response body in bytes.
	ContentLength int64

	// FinalURL is the URL after any redirects.
	FinalURL string

	// FetchDuration is how long the fetch took.
	FetchDuration time.Duration

	// FetchedAt is when this response was received.
	FetchedAt time.Time

	// text is the charset-decoded body (lazily computed).
	text        string
	textDecoded bool
}

// NewResponse creates a Response from an http.Response.
func NewResponse(req *Request, httpResp *http.Response, body []byte, duration time.Duration) *Response {
	return &Response{
		StatusCode:    httpResp.StatusCode,
		Headers:       httpResp.Header,
		Body:          body,
		Request:       req,
		ContentType:   httpResp.Header.Get("Content-Type"),
		ContentLength: int64(len(body)),
		FinalURL:      httpResp.Request.URL.String(),
		FetchDuration: duration,
		FetchedAt:     time.Now(),
	}
}

// Text returns the response body decoded to UTF-8 using the charset declared
// in the Content-Type header, or detected from the body itself. Bodies that
// cannot be decoded fall back to a raw byte-for-byte interpretation.
func (r *Response) Text() (string, error) {
	if r.textDecoded {
		return r.text, nil
	}

	reader, err := charset.NewReader(bytes.NewReader(r.Body), r.ContentType)
	if err != nil {
		return "", &DecodeError{URL: r.Request.URLString(), Err: err}
	}

	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", &DecodeError{URL: r.Request.URLString(), Err: err}
	}

	r.text = string(decoded)
	r.textDecoded = true
	return r.text, nil
}

// IsSuccess returns true if the response status is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsClientError returns true if the response status is 4xx.
func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

// IsServerError returns true if the response status is 5xx.
func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500 && r.StatusCode < 600
}
