// Package fetch retrieves page content from a URL or the local filesystem.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	// DefaultTimeout bounds the single page fetch; there is no retry.
	DefaultTimeout = 60 * time.Second

	// maxBodySize caps how much of a page is read (some journal pages are
	// large, but a bookmarkable article is nowhere near this).
	maxBodySize = 16 << 20
)

// Fetcher fetches pages over HTTP.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// New creates a Fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  "instaporter (github.com/scholer/instaporter)",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Page fetches a URL and returns the body along with the final URL after
// redirects. The final URL is the base for relative-link rewriting, which is
// why it is reported separately from the requested one.
func (f *Fetcher) Page(ctx context.Context, pageURL string) (html, finalURL string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("fetching %s: status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", pageURL, err)
	}
	return string(body), resp.Request.URL.String(), nil
}

// File reads a local HTML file.
func File(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
