// Package fetch retrieves raw JSON view payloads from the content
// endpoint. It performs a single GET per call with no retries: a failure
// is surfaced immediately and retry policy, if any, belongs to the
// caller.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// EnvDataURL selects the content endpoint origin. When unset the
	// fetcher falls back to DefaultBaseURL, which suits a local dev
	// proxy serving the same paths.
	EnvDataURL = "SOUNDVIEW_DATA_URL"

	// DefaultBaseURL is the local fallback origin used when no base URL
	// is configured.
	DefaultBaseURL = "http://localhost:3000"
)

// ResolveBaseURL returns the configured origin, or the explicit value if
// non-empty, or the environment override, or the local fallback.
// Trailing slashes are stripped so path joining stays predictable.
func ResolveBaseURL(configured string) string {
	base := configured
	if base == "" {
		base = os.Getenv(EnvDataURL)
	}
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimRight(base, "/")
}

// Fetcher performs HTTP GETs against the content endpoint and decodes
// the JSON bodies. Safe for concurrent use.
type Fetcher struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithLogger sets the fetcher's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// New creates a Fetcher for the given origin. An empty baseURL resolves
// through ResolveBaseURL (env override, then local fallback).
func New(baseURL string, opts ...Option) *Fetcher {
	f := &Fetcher{
		baseURL: ResolveBaseURL(baseURL),
		client:  &http.Client{},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// BaseURL returns the resolved origin the fetcher targets.
func (f *Fetcher) BaseURL() string {
	return f.baseURL
}

// Fetch GETs {base}/{path} and returns the raw JSON body.
//
// The request is built with the caller's context, so cancelling the
// context aborts the network operation. Non-2xx responses yield an
// *HTTPError, malformed bodies a *DecodeError, and empty or JSON-null
// bodies ErrNoData.
func (f *Fetcher) Fetch(ctx context.Context, path string) (json.RawMessage, error) {
	url := f.baseURL + "/" + strings.TrimLeft(path, "/")
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		f.logger.Warn().
			Str("url", url).
			Int("status", resp.StatusCode).
			Msg("content endpoint returned non-success status")
		return nil, &HTTPError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			URL:        url,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrNoData
	}

	var probe any
	if decodeErr := json.Unmarshal(trimmed, &probe); decodeErr != nil {
		return nil, &DecodeError{URL: url, Err: decodeErr}
	}

	f.logger.Debug().
		Str("url", url).
		Int("bytes", len(trimmed)).
		Dur("elapsed", time.Since(start)).
		Msg("fetched view payload")

	return json.RawMessage(trimmed), nil
}
