// Package fetch retrieves remote resources with a single GET request.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds a single remote fetch.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is sent with every request.
const DefaultUserAgent = "go-cssbase64/1.0 (+https://github.com/alnah/go-cssbase64)"

// DefaultMaxBodySize caps how much of a response body is buffered (16MB).
const DefaultMaxBodySize int64 = 16 << 20

// ErrBodyTooLarge is the cause of an Error for a body over the size cap.
var ErrBodyTooLarge = errors.New("response body too large")

// Error describes a failed fetch. StatusCode is zero for transport errors.
type Error struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Result holds a successfully fetched body.
type Result struct {
	URL         string
	Body        []byte
	ContentType string
	StatusCode  int
}

// Fetcher issues GET requests through an http.Client.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
}

// New creates a Fetcher. A nil client gets a fresh one bounded by timeout;
// a non-positive timeout means DefaultTimeout.
func New(client *http.Client, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Fetcher{
		client:      client,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
}

// Get fetches rawURL and buffers the whole body. Any non-2xx status is an error.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*Result, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &Error{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to read response body", Cause: err}
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, &Error{URL: rawURL, Message: fmt.Sprintf("response body exceeds %d bytes", f.maxBodySize), Cause: ErrBodyTooLarge}
	}

	return &Result{
		URL:         rawURL,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}, nil
}
