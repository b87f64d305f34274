// Package provider fetches raw catalog payloads from the remote data provider.
package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/blackwell-systems/cardctl/internal/logging"
)

const userAgent = "cardctl"

// maxErrorBody caps how much of a failed response is kept in StatusError.
const maxErrorBody = 512

// Client issues plain GET requests. It never retries.
type Client struct {
	http *http.Client
}

// New creates a Client. A zero timeout leaves the transport default in place.
func New(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Fetch performs a single GET and returns the body as text. Every failure
// wraps ErrNetwork.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: GET %s: %v", ErrNetwork, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(url, resp); err != nil {
		return "", err
	}

	dr := newDigestReader(resp.Body)
	body, err := io.ReadAll(dr)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", ErrNetwork, url, err)
	}
	if !utf8.Valid(body) {
		return "", fmt.Errorf("%w: %s: body is not valid UTF-8", ErrNetwork, url)
	}

	logging.FromContext(ctx).Debug("fetched payload",
		"url", url,
		"bytes", dr.size,
		"sha256", dr.sum(),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return string(body), nil
}

// checkStatus returns a *StatusError for non-2xx responses.
func checkStatus(url string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{URL: url, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}
