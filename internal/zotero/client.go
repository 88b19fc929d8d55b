package zotero

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Zotero web API base URL.
	BaseURL = "https://api.zotero.org"

	// APIVersion is the Zotero-API-Version header value.
	APIVersion = "3"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit per Zotero's API guidance.
	RateLimit = 5.0
)

// ErrCreateFailed is returned when the API accepted the request but did not
// report the item as successfully created.
var ErrCreateFailed = errors.New("zotero item creation failed")

// Client is a thin wrapper over the Zotero write API, scoped to one library.
type Client struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	baseURL     string
	apiKey      string
	libraryID   string
	libraryType string // "users" or "groups"
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// NewClient creates a Zotero client for the given library. libraryType is
// "users" or "groups" (the config's "user"/"group" shorthand is accepted).
func NewClient(libraryID, libraryType, apiKey string, opts ...ClientOption) *Client {
	switch libraryType {
	case "user", "":
		libraryType = "users"
	case "group":
		libraryType = "groups"
	}
	c := &Client{
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		limiter:     rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:     BaseURL,
		apiKey:      apiKey,
		libraryID:   libraryID,
		libraryType: libraryType,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ItemTemplate fetches an empty item template for the given type, e.g.
// "journalArticle". The template declares each field's shape and is the
// canonical input for MapRecord.
func (c *Client) ItemTemplate(ctx context.Context, itemType string) (Item, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := fmt.Sprintf("%s/items/new?itemType=%s", c.baseURL, url.QueryEscape(itemType))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching item template: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching item template: status %d", resp.StatusCode)
	}

	var template Item
	if err := json.NewDecoder(resp.Body).Decode(&template); err != nil {
		return nil, fmt.Errorf("parsing item template: %w", err)
	}
	return template, nil
}

// CreateResult reports the outcome of CreateItems. Keys index into the
// submitted batch by position ("0", "1", ...).
type CreateResult struct {
	Success map[string]string `json:"success"` // index -> item key
	Failed  map[string]struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"failed"`
}

// CreateItems submits items to the library. Returns the key of the first
// created item along with the full API result.
func (c *Client) CreateItems(ctx context.Context, items []Item) (string, *CreateResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", nil, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(items)
	if err != nil {
		return "", nil, fmt.Errorf("encoding items: %w", err)
	}

	reqURL := fmt.Sprintf("%s/%s/%s/items", c.baseURL, c.libraryType, c.libraryID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("creating items: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("creating items: status %d", resp.StatusCode)
	}

	var result CreateResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", nil, fmt.Errorf("parsing create response: %w", err)
	}

	key, ok := result.Success["0"]
	if !ok {
		return "", &result, fmt.Errorf("%w: %d failed", ErrCreateFailed, len(result.Failed))
	}
	return key, &result, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Zotero-API-Version", APIVersion)
	if c.apiKey != "" {
		req.Header.Set("Zotero-API-Key", c.apiKey)
	}
}
