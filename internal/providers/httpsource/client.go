// Package httpsource polls the scoreboard state document over HTTP.
package httpsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/scoreboard-overlay/internal/jsonval"
	"github.com/preston-bernstein/scoreboard-overlay/internal/providers"
)

// Config controls how the client reaches the state endpoint.
type Config struct {
	URL        string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client fetches the state document, bypassing every cache on the way.
type Client struct {
	url        string
	httpClient httpDoer
	now        func() time.Time
}

// NewClient constructs a state client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		url:        normalizeURL(cfg.URL),
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		now:        time.Now,
	}
}

// URL returns the endpoint the client polls.
func (c *Client) URL() string {
	return c.url
}

// FetchState retrieves and decodes the state document.
func (c *Client) FetchState(ctx context.Context) (jsonval.Value, error) {
	req, err := c.buildRequest(ctx)
	if err != nil {
		return jsonval.Undefined, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return jsonval.Undefined, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return jsonval.Undefined, &providers.StatusError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Message:    "httpsource: " + msg,
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return jsonval.Undefined, err
	}
	state, err := jsonval.Decode(raw)
	if err != nil {
		return jsonval.Undefined, fmt.Errorf("httpsource: decode state: %w", err)
	}
	return state, nil
}

func (c *Client) buildRequest(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set(cacheBustParam, strconv.FormatInt(c.now().UnixMilli(), 10))
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "application/json")
	return req, nil
}
