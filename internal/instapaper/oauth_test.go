package instapaper

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestPercentEncode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unreserved passes through", "abcXYZ019-._~", "abcXYZ019-._~"},
		{"space", "a b", "a%20b"},
		{"plus is encoded", "a+b", "a%2Bb"},
		{"slash and colon", "https://x.org/", "https%3A%2F%2Fx.org%2F"},
		{"equals and ampersand", "a=1&b=2", "a%3D1%26b%3D2"},
		{"utf8 multibyte", "µ", "%C2%B5"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percentEncode(tt.input); got != tt.want {
				t.Errorf("percentEncode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBaseURI(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://www.instapaper.com/api/1.1/bookmarks/add", "https://www.instapaper.com/api/1.1/bookmarks/add"},
		{"https://x.org/path?a=1&b=2", "https://x.org/path"},
		{"https://x.org/path#frag", "https://x.org/path"},
	}
	for _, tt := range tests {
		if got := baseURI(tt.input); got != tt.want {
			t.Errorf("baseURI(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// fixedSigner returns a signer with deterministic nonce and clock.
func fixedSigner(token, tokenSecret string) *signer {
	s := newSigner("ckey", "csecret")
	s.token = token
	s.tokenSecret = tokenSecret
	s.nonce = func() string { return "deadbeef" }
	s.now = func() time.Time { return time.Unix(1424822400, 0) }
	return s
}

func TestAuthorizationHeader(t *testing.T) {
	s := fixedSigner("tok", "tsec")
	form := url.Values{"x_auth_username": {"user@example.org"}}

	header := s.authorizationHeader(http.MethodPost, BaseURL+"oauth/access_token", form)

	if !strings.HasPrefix(header, "OAuth ") {
		t.Fatalf("header = %q, want OAuth prefix", header)
	}
	for _, want := range []string{
		`oauth_consumer_key="ckey"`,
		`oauth_nonce="deadbeef"`,
		`oauth_signature_method="HMAC-SHA1"`,
		`oauth_timestamp="1424822400"`,
		`oauth_token="tok"`,
		`oauth_version="1.0"`,
		`oauth_signature="`,
	} {
		if !strings.Contains(header, want) {
			t.Errorf("header missing %s\nheader: %s", want, header)
		}
	}

	// Parameters appear in sorted order.
	params := strings.TrimPrefix(header, "OAuth ")
	keys := []string{}
	for _, p := range strings.Split(params, ", ") {
		keys = append(keys, strings.SplitN(p, "=", 2)[0])
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Errorf("parameters out of order: %v", keys)
		}
	}
}

func TestAuthorizationHeaderOmitsEmptyToken(t *testing.T) {
	s := fixedSigner("", "")
	header := s.authorizationHeader(http.MethodPost, BaseURL+"oauth/access_token", nil)
	if strings.Contains(header, "oauth_token=") {
		t.Errorf("header includes oauth_token before login: %s", header)
	}
}

func TestSignDeterministic(t *testing.T) {
	s := fixedSigner("tok", "tsec")
	form := url.Values{"url": {"https://example.org/article"}}

	first := s.authorizationHeader(http.MethodPost, BaseURL+"bookmarks/add", form)
	second := s.authorizationHeader(http.MethodPost, BaseURL+"bookmarks/add", form)
	if first != second {
		t.Errorf("signatures differ for identical inputs:\n%s\n%s", first, second)
	}
}

func TestSignSensitivity(t *testing.T) {
	base := fixedSigner("tok", "tsec")
	form := url.Values{"url": {"https://example.org/article"}}
	reference := base.authorizationHeader(http.MethodPost, BaseURL+"bookmarks/add", form)

	tests := []struct {
		name   string
		modify func() string
	}{
		{
			name: "token secret changes signature",
			modify: func() string {
				s := fixedSigner("tok", "other")
				return s.authorizationHeader(http.MethodPost, BaseURL+"bookmarks/add", form)
			},
		},
		{
			name: "body parameter changes signature",
			modify: func() string {
				s := fixedSigner("tok", "tsec")
				other := url.Values{"url": {"https://example.org/other"}}
				return s.authorizationHeader(http.MethodPost, BaseURL+"bookmarks/add", other)
			},
		},
		{
			name: "method changes signature",
			modify: func() string {
				s := fixedSigner("tok", "tsec")
				return s.authorizationHeader(http.MethodGet, BaseURL+"bookmarks/add", form)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.modify(); got == reference {
				t.Error("signature did not change")
			}
		})
	}
}

func TestRandomNonceUnique(t *testing.T) {
	a, b := randomNonce(), randomNonce()
	if len(a) != 32 {
		t.Errorf("nonce length = %d, want 32 hex chars", len(a))
	}
	if a == b {
		t.Error("two nonces are identical")
	}
}
