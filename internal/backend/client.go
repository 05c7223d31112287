// Package backend talks to the upstream analytics service. It performs a
// single attempt per query plus an optional connectivity probe. Retry policy
// lives with the caller, not here.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Error is a structured application error returned by a reachable upstream:
// an HTTP error status with a JSON error body. It is distinct from a
// connectivity failure, which never surfaces as an Error.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream error (status %d): %s", e.StatusCode, e.Message)
}

// IsUnreachable reports whether err represents a network-level failure
// (connection refused, timeout, DNS) rather than a structured upstream error.
func IsUnreachable(err error) bool {
	if err == nil {
		return false
	}
	var appErr *Error
	return !errors.As(err, &appErr)
}

// Client calls the upstream analytics endpoint. The endpoint is injected
// configuration; nothing here is a module-level constant.
type Client struct {
	baseURL    string
	queryPath  string
	probePath  string
	httpClient *http.Client
	probes     singleflight.Group
}

// NewClient builds a client for the upstream at baseURL with a bounded
// per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		queryPath: "/api/query",
		probePath: "/health",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the configured upstream address.
func (c *Client) BaseURL() string { return c.baseURL }

// Ask posts the natural-language question and returns the raw response body.
// A non-2xx status with a decodable error body becomes a *Error; anything
// network-level comes back as the transport's error, which IsUnreachable
// recognizes.
func (c *Client) Ask(ctx context.Context, question string) ([]byte, error) {
	payload, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return nil, fmt.Errorf("encode question: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.queryPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("upstream responded")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage(body, resp.StatusCode),
		}
	}
	return body, nil
}

// upstreamMessage pulls the error string out of the upstream's JSON error
// body, falling back to a generic message when the body is not decodable.
func upstreamMessage(body []byte, status int) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return fmt.Sprintf("upstream returned status %d", status)
}

// Probe checks upstream connectivity. Overlapping calls share one in-flight
// probe via singleflight, so a burst of queries costs a single round trip.
func (c *Client) Probe(ctx context.Context) error {
	_, err, _ := c.probes.Do("probe", func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.probePath, nil)
		if err != nil {
			return nil, fmt.Errorf("build probe request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("probe: %w", err)
		}
		// Any answer at all means the upstream is reachable; the probe is a
		// connectivity check, not a health verdict.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, nil
	})
	return err
}
