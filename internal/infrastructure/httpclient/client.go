package httpclient

import (
	"context"
	"net/http"
	"time"
)

// DefaultUserAgent mimics a desktop browser; several ministry sites reject Go's default.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Client wraps an http.Client and stamps browser-like headers on every request.
type Client struct {
	client    *http.Client
	userAgent string
}

// New builds a client; a zero timeout leaves requests unbounded.
func New(userAgent string, timeout time.Duration) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		userAgent: userAgent,
	}
}

// Wrap reuses an existing http.Client (httptest servers in tests).
func Wrap(c *http.Client, userAgent string) *Client {
	if c == nil {
		return New(userAgent, 0)
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{client: c, userAgent: userAgent}
}

// Get issues a GET with browser headers.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	return c.client.Do(req)
}
