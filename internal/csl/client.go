package csl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the DOI resolver endpoint. Content negotiation against
	// doi.org follows redirects to the registration agency (Crossref,
	// DataCite, mEDRA) transparently.
	BaseURL = "https://doi.org"

	// AcceptCSLJSON requests a CSL-JSON body from the resolver.
	AcceptCSLJSON = "application/vnd.citationstyles.csl+json"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit keeps resolver traffic polite; Crossref asks clients to
	// stay well under 50 req/s, and this tool only ever needs one.
	RateLimit = 2.0
)

// ErrNoRecord is returned when the resolver has no CSL record for a DOI,
// either because the DOI is unknown or the response body was not CSL-JSON.
// Callers treat it as "no citation data", not as a failure.
var ErrNoRecord = errors.New("no citation record")

// ErrNetworkError wraps transport-level failures.
var ErrNetworkError = errors.New("network error")

// Client resolves DOIs to CSL-JSON records.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom resolver base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithUserAgent sets the User-Agent header sent to the resolver.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a DOI resolver client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		userAgent:  "instaporter (github.com/scholer/instaporter)",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve fetches the CSL-JSON record for a DOI. A missing record, a non-2xx
// status, or a body that does not parse as a JSON object all return
// ErrNoRecord; only transport failures surface as other errors.
func (c *Client) Resolve(ctx context.Context, doi string) (Record, error) {
	if doi == "" {
		return nil, fmt.Errorf("%w: empty DOI", ErrNoRecord)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := c.baseURL + "/" + url.PathEscape(doi)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", AcceptCSLJSON)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: resolver returned status %d for %s", ErrNoRecord, resp.StatusCode, doi)
	}

	var rec Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: parsing resolver response: %v", ErrNoRecord, err)
	}
	return rec, nil
}
