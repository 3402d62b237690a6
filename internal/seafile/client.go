package seafile

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"resty.dev/v3"
)

// Retry tuning for transient network/server failures. Seafile's own
// deployment guide recommends short client-side retries rather than long
// backoff, since the server fronts are typically load-balanced and a retry
// usually lands on a healthy instance.
const (
	retryCount       = 3
	retryWaitTime    = 500 * time.Millisecond
	retryMaxWaitTime = 5 * time.Second
)

// TokenSource supplies the bearer token used on every authenticated
// request. Defined at the consumer per "accept interfaces, return
// structs" — the caller (CLI/orchestrator) decides how the token is
// stored and refreshed.
type TokenSource interface {
	Token() (string, error)
}

// staticToken is a TokenSource that always returns the same token, used
// once a successful Login has produced one.
type staticToken string

func (t staticToken) Token() (string, error) { return string(t), nil }

// StaticToken wraps a literal bearer token as a TokenSource.
func StaticToken(token string) TokenSource {
	return staticToken(token)
}

// Client is the Remote Client (C3): an HTTP client against a
// Seafile-compatible server implementing the operation table in
// spec.md §4.3. A single instance is shared across operations within a
// cycle; the engine serializes calls for one library (spec.md §4.3
// "Connection reuse and concurrency").
type Client struct {
	http   *resty.Client
	token  TokenSource
	logger *slog.Logger
}

// NewClient creates a Client against baseURL, authenticating every request
// with the token returned by ts.
func NewClient(baseURL string, ts TokenSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	h := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetRetryCount(retryCount).
		SetRetryWaitTime(retryWaitTime).
		SetRetryMaxWaitTime(retryMaxWaitTime)

	return &Client{http: h, token: ts, logger: logger}
}

// Close releases the underlying HTTP client's idle connections.
func (c *Client) Close() error {
	c.http.Close()
	return nil
}

// request builds an authenticated request, attaching the bearer token
// unless skipAuth is set (used only by Login, which has no token yet).
func (c *Client) request(ctx context.Context, skipAuth bool) (*resty.Request, error) {
	r := c.http.R().SetContext(ctx)

	if skipAuth {
		return r, nil
	}

	tok, err := c.token.Token()
	if err != nil {
		return nil, err
	}

	r.SetHeader("Authorization", "Token "+tok)

	return r, nil
}

// unwrapQuotedString strips the surrounding double quotes Seafile wraps
// plain string responses in (download/upload link endpoints), per
// spec.md §4.3 "Response bodies that are a quoted URL string are unwrapped
// by stripping surrounding double quotes."
func unwrapQuotedString(body string) string {
	body = strings.TrimSpace(body)
	if len(body) >= 2 && strings.HasPrefix(body, `"`) && strings.HasSuffix(body, `"`) {
		return body[1 : len(body)-1]
	}

	return body
}
