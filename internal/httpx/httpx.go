package httpx

import (
	"context"
	"net"
	"net/http"
	"sync/atomic"
	"time"
)

// Client is a small wrapper around http.Client with sane defaults and
// optional User-Agent rotation. Some market-data hosts throttle by
// agent string, so adapters can supply a pool to cycle through.
type Client struct {
	HTTP       *http.Client
	UserAgent  string
	UserAgents []string
	Headers    map[string]string

	next atomic.Uint32
}

func New(timeout time.Duration) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          200,
		MaxIdleConnsPerHost:   100,
		MaxConnsPerHost:       100,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   3 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 5 * time.Second,
	}
	return &Client{HTTP: &http.Client{Timeout: timeout, Transport: transport}, UserAgent: "stockanalyst/1.0"}
}

func (c *Client) userAgent() string {
	if len(c.UserAgents) > 0 {
		i := c.next.Add(1)
		return c.UserAgents[int(i)%len(c.UserAgents)]
	}
	return c.UserAgent
}

func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		if ua := c.userAgent(); ua != "" {
			req.Header.Set("User-Agent", ua)
		}
	}
	for k, v := range c.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	return c.HTTP.Do(req.WithContext(ctx))
}

// Get issues a GET for url with the client's default headers applied.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}
