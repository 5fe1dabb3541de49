package util

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Getter fetches the raw body of a URL. Non-2xx responses are errors.
type Getter interface {
	GetBytes(ctx context.Context, url string, header http.Header) ([]byte, error)
}

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// Client is a small HTTP client with a request timeout, a dial (DNS + connect)
// timeout and an optional outbound rate limit.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient returns a Client. requestsPerSecond <= 0 disables rate limiting.
func NewClient(timeout, dialTimeout time.Duration, requestsPerSecond float64) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: dialTimeout, KeepAlive: 30 * time.Second}).DialContext

	limit := rate.Inf
	burst := 1
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
		if requestsPerSecond > 1 {
			burst = int(requestsPerSecond)
		}
	}
	return &Client{
		http:    &http.Client{Timeout: timeout, Transport: transport},
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (c *Client) GetBytes(ctx context.Context, url string, header http.Header) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}
