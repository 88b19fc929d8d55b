// Package instapaper is a client for the Instapaper full API (version 1.1).
//
// The API is OAuth 1.0a with the xAuth extension: a username/password pair
// is exchanged directly for access tokens, with no browser authorization
// step. Every request is a signed POST with parameters in the body.
// Endpoint reference: www.instapaper.com/api/full
package instapaper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Instapaper API base URL.
	BaseURL = "https://www.instapaper.com/api/1.1/"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 60 * time.Second

	// RateLimit keeps burst submissions within what the service tolerates.
	RateLimit = 2.0
)

// Client is a rate-limited Instapaper API client.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
	signer     *signer
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
		if !strings.HasSuffix(u, "/") {
			u += "/"
		}
		c.baseURL = u
	}
}

// WithTokens seeds the client with previously obtained access tokens,
// skipping the xAuth exchange.
func WithTokens(t Tokens) ClientOption {
	return func(c *Client) {
		c.signer.token = t.Token
		c.signer.tokenSecret = t.TokenSecret
	}
}

// NewClient creates an Instapaper client with the given consumer (OAuth
// client) credentials.
func NewClient(consumerKey, consumerSecret string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		userAgent:  "instaporter (github.com/scholer/instaporter)",
		signer:     newSigner(consumerKey, consumerSecret),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login performs the xAuth exchange: username and password go out as
// x_auth_* body parameters on a signed request, and the access token pair
// comes back form-encoded. The client keeps the tokens for all later calls.
func (c *Client) Login(ctx context.Context, username, password string) (Tokens, error) {
	if username == "" {
		return Tokens{}, fmt.Errorf("%w: empty username", ErrAuthError)
	}
	form := url.Values{
		"x_auth_username": {username},
		"x_auth_password": {password},
		"x_auth_mode":     {"client_auth"},
	}
	body, err := c.post(ctx, "oauth/access_token", form)
	if err != nil {
		return Tokens{}, fmt.Errorf("%w: %v", ErrAuthError, err)
	}

	values, err := url.ParseQuery(strings.TrimSpace(string(body)))
	if err != nil {
		return Tokens{}, fmt.Errorf("%w: parsing token response: %v", ErrAuthError, err)
	}
	tokens := Tokens{
		Token:       values.Get("oauth_token"),
		TokenSecret: values.Get("oauth_token_secret"),
	}
	if tokens.Token == "" || tokens.TokenSecret == "" {
		return Tokens{}, fmt.Errorf("%w: token response missing oauth_token", ErrAuthError)
	}

	c.signer.token = tokens.Token
	c.signer.tokenSecret = tokens.TokenSecret
	return tokens, nil
}

// LoggedIn reports whether the client holds access tokens.
func (c *Client) LoggedIn() bool {
	return c.signer.token != ""
}

// VerifyCredentials returns the user the access tokens belong to.
func (c *Client) VerifyCredentials(ctx context.Context) (*User, error) {
	objects, err := c.postObjects(ctx, "account/verify_credentials", nil)
	if err != nil {
		return nil, err
	}
	var user User
	if err := unmarshalFirst(objects, "user", &user); err != nil {
		return nil, fmt.Errorf("%w: no user object in response", ErrAuthError)
	}
	return &user, nil
}

// post issues a signed POST to an endpoint and returns the raw body after
// the HTTP-level and body-level error checks. Instapaper never reads
// parameters from the query string, so everything goes in the body.
func (c *Client) post(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	if form == nil {
		form = url.Values{}
	}

	reqURL := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Authorization", c.signer.authorizationHeader(http.MethodPost, reqURL, form))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: truncate(string(body), 200)}
	}
	if err := checkBody(body); err != nil {
		return nil, err
	}
	return body, nil
}

// postObjects issues a POST and decodes the response as a typed object list.
func (c *Client) postObjects(ctx context.Context, endpoint string, form url.Values) ([]typedObject, error) {
	body, err := c.post(ctx, endpoint, form)
	if err != nil {
		return nil, err
	}
	objects, err := decodeObjects(body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", endpoint, err)
	}
	return objects, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
