package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// postJSON sends payload to url and decodes a 200 response into out. Non-200
// answers come back as an *Error carrying the status; 429 is wrapped in a
// rateLimitError so retryWithBackoff picks it up.
func postJSON(ctx context.Context, client *http.Client, name, url string, headers map[string]string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &Error{Provider: name, Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &Error{Provider: name, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return &Error{Provider: name, Err: fmt.Errorf("send request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Provider: name, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return &Error{Provider: name, StatusCode: resp.StatusCode, Err: &rateLimitError{body: string(respData)}}
	}

	if resp.StatusCode != http.StatusOK {
		return &Error{Provider: name, StatusCode: resp.StatusCode, Err: fmt.Errorf("api error: %s", string(respData))}
	}

	if err := json.Unmarshal(respData, out); err != nil {
		return &Error{Provider: name, StatusCode: resp.StatusCode, Err: fmt.Errorf("unmarshal response: %w", err)}
	}

	return nil
}
