// Package remote fetches raw payloads over HTTP for ingestion.
//
// A fetched payload keeps the last segment of the URL path as its name, so
// the pipeline picks a decoder from the extension exactly as it does for
// local files:
//
//	f := remote.New(nil)
//	name, data, err := f.Fetch(ctx, "https://example.com/org/people.csv")
//	g, err := runner.Ingest(ctx, pipeline.Source{Name: name, Data: data}, opts)
//
// Server errors and network failures are retried with backoff; client errors
// are not.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/matzehuels/graphloom/pkg/cache"
	gerrors "github.com/matzehuels/graphloom/pkg/errors"
)

const (
	httpTimeout = 30 * time.Second

	// DefaultMaxBytes caps fetched payloads.
	DefaultMaxBytes = 32 << 20
)

// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
var ErrNetwork = errors.New("network error")

// Fetcher downloads payloads. The zero value is not usable; call New.
type Fetcher struct {
	http    *http.Client
	headers map[string]string

	// MaxBytes caps the payload size.
	MaxBytes int64
	// Backoff governs retries of network failures and 5xx responses.
	Backoff cache.Backoff
}

// New creates a Fetcher that sends headers with every request. Pass nil
// for no extra headers.
func New(headers map[string]string) *Fetcher {
	return &Fetcher{
		http:     &http.Client{Timeout: httpTimeout},
		headers:  headers,
		MaxBytes: DefaultMaxBytes,
		Backoff:  cache.DefaultBackoff,
	}
}

// IsURL reports whether s looks like an http or https URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch downloads rawURL and returns the payload with its name.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, []byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", nil, gerrors.New(gerrors.ErrCodeInvalidInput, "not an http(s) URL: %q", rawURL)
	}

	var data []byte
	err = f.Backoff.Do(ctx, func() error {
		var ferr error
		data, ferr = f.get(ctx, u.String())
		return ferr
	})
	if err != nil {
		return "", nil, err
	}
	return name(u), data, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()

	if err := checkStatus(rawURL, resp.StatusCode); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.MaxBytes+1))
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: read body: %v", ErrNetwork, err))
	}
	if int64(len(data)) > f.MaxBytes {
		return nil, gerrors.New(gerrors.ErrCodeInvalidInput, "payload at %s exceeds %d bytes", rawURL, f.MaxBytes)
	}
	return data, nil
}

func checkStatus(rawURL string, code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return gerrors.New(gerrors.ErrCodeNotFound, "nothing at %s", rawURL)
	case code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// name returns the last path segment of u, or "" for a bare host.
func name(u *url.URL) string {
	base := path.Base(u.Path)
	if base == "/" || base == "." {
		return ""
	}
	return base
}
