package doctor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	endpointTimeout = 3 * time.Second
	reviewRoute     = "/ai/get-review"
)

// EndpointCheck calls the liveness route of the server behind the review
// endpoint.
type EndpointCheck struct {
	endpoint string
	client   *http.Client
}

// NewEndpointCheck creates a check for endpoint. A nil client uses one with a
// short timeout.
func NewEndpointCheck(endpoint string, client *http.Client) *EndpointCheck {
	if client == nil {
		client = &http.Client{Timeout: endpointTimeout}
	}
	return &EndpointCheck{endpoint: endpoint, client: client}
}

func (c *EndpointCheck) Name() string {
	return "Review Server"
}

func (c *EndpointCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	u, err := url.Parse(c.endpoint)
	if err != nil || u.Host == "" {
		result.Items = append(result.Items, fail("endpoint", fmt.Sprintf("invalid URL %q", c.endpoint)))
		return result
	}
	result.Items = append(result.Items, pass("endpoint", c.endpoint))

	health := healthURL(u)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, health, nil)
	if err != nil {
		result.Items = append(result.Items, fail("reachable", err.Error()))
		return result
	}

	resp, err := c.client.Do(req)
	if err != nil {
		result.Items = append(result.Items, fail("reachable", "run 'codereview serve' ("+err.Error()+")"))
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	if resp.StatusCode != http.StatusOK {
		result.Items = append(result.Items, fail("reachable", fmt.Sprintf("GET %s returned %d", health, resp.StatusCode)))
		return result
	}

	result.Items = append(result.Items, pass("reachable", strings.TrimSpace(string(body))))
	return result
}

// healthURL is the liveness route mounted next to the review route, so a
// path prefix in front of the server is kept.
func healthURL(endpoint *url.URL) string {
	prefix := strings.TrimSuffix(strings.TrimRight(endpoint.Path, "/"), reviewRoute)

	u := url.URL{
		Scheme: endpoint.Scheme,
		User:   endpoint.User,
		Host:   endpoint.Host,
		Path:   strings.TrimRight(prefix, "/") + "/",
	}
	return u.String()
}
