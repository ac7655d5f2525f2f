// Copyright 2025 The FlowStack Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// APIKeyHeader carries the account API key on every request.
	APIKeyHeader = "X-API-Key"

	DefaultTimeout   = 60 * time.Second
	DefaultUserAgent = "FlowStack-SDK"
)

// Client is a JSON client bound to one base URL. It never retries: a failed
// request is reported to the caller as-is.
type Client struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	userAgent   string
	limiter     *rate.Limiter
	errorPrefix string
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithRateLimit paces outgoing requests to r per second with the given burst.
// Requests wait for a token instead of failing.
func WithRateLimit(r float64, burst int) Option {
	return func(c *Client) {
		if r <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}
}

// WithErrorPrefix sets the service label used in status-line errors,
// e.g. "DataVault" gives "DataVault error: 500 Internal Server Error".
func WithErrorPrefix(prefix string) Option {
	return func(c *Client) {
		c.errorPrefix = prefix
	}
}

func New(baseURL string, opts ...Option) *Client {
	client := &Client{
		client:      &http.Client{Timeout: DefaultTimeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		userAgent:   DefaultUserAgent,
		errorPrefix: "API",
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// BaseURL returns the base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL joins endpoint onto the base URL.
func (c *Client) URL(endpoint string) string {
	endpoint = strings.TrimLeft(endpoint, "/")
	if endpoint == "" {
		return c.baseURL
	}
	return c.baseURL + "/" + endpoint
}

// NewRequest builds an authenticated request. A non-nil body is encoded as JSON.
func (c *Client) NewRequest(ctx context.Context, method, endpoint string, query url.Values, body any) (*http.Request, error) {
	target := c.URL(endpoint)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}
	return req, nil
}

// Do sends req once. Transport failures come back as *ConnectionError.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, &ConnectionError{Service: c.errorPrefix, URL: req.URL.String(), Err: err}
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ConnectionError{Service: c.errorPrefix, URL: req.URL.String(), Err: err}
	}
	return resp, nil
}

// DoJSON sends a request and decodes a 2xx JSON response into out (when
// non-nil). Any other status is returned as *APIError.
func (c *Client) DoJSON(ctx context.Context, method, endpoint string, query url.Values, body, out any) error {
	req, err := c.NewRequest(ctx, method, endpoint, query, body)
	if err != nil {
		return err
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ConnectionError{Service: c.errorPrefix, URL: req.URL.String(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(c.errorPrefix, resp, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", c.errorPrefix, err)
	}
	return nil
}
