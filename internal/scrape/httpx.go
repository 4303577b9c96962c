// Package scrape fetches raw provider payloads. Each provider has a Fetcher;
// all of them share the retrying HTTP client in this file.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultMaxAttempts = 3
	defaultBackoff     = 500 * time.Millisecond
)

// retryableStatuses are transient server/ratelimit responses worth retrying.
var retryableStatuses = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// AuthError signals an expired or rejected credential (401/403). Not retried
// here; the caller decides whether to refresh the session and try again.
type AuthError struct {
	StatusCode int
	URL        string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication rejected with status %d for %s", e.StatusCode, e.URL)
}

// HTTPClient wraps http.Client with bounded retries and exponential backoff.
type HTTPClient struct {
	client      *http.Client
	maxAttempts int
	backoff     time.Duration
}

func NewHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:      &http.Client{Timeout: timeout},
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
	}
}

// Do executes the request and returns the response body. Transient failures
// are retried with doubling backoff; 401/403 returns *AuthError immediately.
// Requests with a body must set GetBody (http.NewRequest does this for
// bytes.Reader bodies).
func (c *HTTPClient) Do(ctx context.Context, req *http.Request) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			delay := c.backoff << (attempt - 2)
			slog.Debug("Retrying request", "url", req.URL.String(), "attempt", attempt, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, fmt.Errorf("failed to rewind request body: %w", err)
				}
				req.Body = body
			}
		}

		body, retry, err := c.doOnce(req.WithContext(ctx))
		if err == nil {
			return body, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", c.maxAttempts, lastErr)
}

func (c *HTTPClient) doOnce(req *http.Request) (body []byte, retry bool, err error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		return nil, false, &AuthError{StatusCode: resp.StatusCode, URL: req.URL.String()}
	case retryableStatuses[resp.StatusCode]:
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("transient status %d from %s", resp.StatusCode, req.URL.String())
	case resp.StatusCode != http.StatusOK:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
		return nil, false, fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, req.URL.String(), string(b))
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}
	return body, false, nil
}

// NewJSONRequest builds a request with a replayable JSON body.
func NewJSONRequest(method, url string, payload []byte) (*http.Request, error) {
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}
