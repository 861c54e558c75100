// Package reviewclient submits code to the review server's
// POST /ai/get-review endpoint.
package reviewclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrFetchReview is the single failure reported to callers. Transport
// failures and non-2xx answers both wrap it; the cause stays available
// through errors.Unwrap for logging.
var ErrFetchReview = errors.New("could not fetch review")

// Request is the JSON body posted to the review endpoint.
type Request struct {
	Code string `json:"code"`
}

// Response is the outcome of a single submission: Text on success, Err on
// failure. Exactly one is meaningful.
type Response struct {
	Text string
	Err  error
}

// OK reports whether the submission succeeded.
func (r Response) OK() bool { return r.Err == nil }

// Config configures a Client.
type Config struct {
	// Endpoint is the full URL of the review endpoint.
	Endpoint string
	// HTTPClient is used for the request. Nil uses http.DefaultClient.
	HTTPClient *http.Client
}

// Client posts code to a review endpoint. It sets no timeout and never
// retries; the caller's context and the transport defaults govern both.
type Client struct {
	endpoint string
	http     *http.Client
}

// New creates a Client.
func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{endpoint: cfg.Endpoint, http: hc}
}

// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Submit posts code and returns the review text verbatim on a 2xx answer.
func (c *Client) Submit(ctx context.Context, code string) Response {
	text, err := c.submit(ctx, code)
	if err != nil {
		return Response{Err: fmt.Errorf("%w: %w", ErrFetchReview, err)}
	}
	return Response{Text: text}
}

func (c *Client) submit(ctx context.Context, code string) (string, error) {
	body, err := json.Marshal(Request{Code: code})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	return string(data), nil
}

// StatusError records a non-2xx answer from the review endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}
