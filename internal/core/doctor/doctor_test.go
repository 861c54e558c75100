package doctor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/codereview/internal/core/config"
)

func stubEnv(t *testing.T, env map[string]string) {
	t.Helper()
	orig := getenvFunc
	t.Cleanup(func() { getenvFunc = orig })
	getenvFunc = func(k string) string { return env[k] }
}

func TestSummary(t *testing.T) {
	results := []Result{
		{Items: []CheckItem{pass("a", ""), warn("b", "")}},
		{Items: []CheckItem{fail("c", ""), pass("d", "")}},
	}
	passed, warned, failed := Summary(results)
	assert.Equal(t, 2, passed)
	assert.Equal(t, 1, warned)
	assert.Equal(t, 1, failed)
}

func TestCredentialsCheck(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.ProviderConfig
		env    map[string]string
		status Status
		detail string
	}{
		{
			name:   "gemini fallback env",
			cfg:    config.ProviderConfig{Name: config.ProviderGemini},
			env:    map[string]string{"GOOGLE_API_KEY": "k"},
			status: StatusPass,
			detail: "$GOOGLE_API_KEY",
		},
		{
			name:   "configured env var",
			cfg:    config.ProviderConfig{Name: config.ProviderOpenAI, APIKeyEnv: "MY_KEY"},
			env:    map[string]string{"MY_KEY": "k"},
			status: StatusPass,
			detail: "$MY_KEY",
		},
		{
			name:   "inline key",
			cfg:    config.ProviderConfig{Name: config.ProviderAnthropic, APIKey: "k"},
			status: StatusPass,
			detail: "set in config file",
		},
		{
			name:   "missing key",
			cfg:    config.ProviderConfig{Name: config.ProviderAnthropic},
			status: StatusFail,
		},
		{
			name:   "static",
			cfg:    config.ProviderConfig{Name: config.ProviderStatic},
			status: StatusWarn,
		},
		{
			name:   "ollama without model",
			cfg:    config.ProviderConfig{Name: config.ProviderOllama},
			status: StatusFail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubEnv(t, tt.env)
			result := NewCredentialsCheck(tt.cfg).Run(context.Background())

			require.Len(t, result.Items, 2)
			last := result.Items[1]
			assert.Equal(t, tt.status, last.Status)
			if tt.detail != "" {
				assert.Equal(t, tt.detail, last.Detail)
			}
		})
	}
}

func TestConfigCheck(t *testing.T) {
	stubEnv(t, nil)

	t.Run("missing file warns", func(t *testing.T) {
		cfg := config.DefaultConfig()
		result := NewConfigCheck(&cfg, filepath.Join(t.TempDir(), "config.yaml")).Run(context.Background())

		require.NotEmpty(t, result.Items)
		assert.Equal(t, StatusWarn, result.Items[0].Status)
		assert.Equal(t, StatusPass, result.Items[1].Status)
	})

	t.Run("field errors fail", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte{}, 0o600))

		cfg := config.DefaultConfig()
		cfg.Client.Endpoint = "ftp://nope"
		result := NewConfigCheck(&cfg, path).Run(context.Background())

		_, _, failed := Summary([]Result{result})
		assert.Positive(t, failed)
		assert.Equal(t, StatusPass, result.Items[0].Status)
	})
}

func TestHealthURL(t *testing.T) {
	tests := []struct {
		endpoint string
		want     string
	}{
		{endpoint: "http://localhost:3000/ai/get-review", want: "http://localhost:3000/"},
		{endpoint: "http://localhost:3000/ai/get-review/", want: "http://localhost:3000/"},
		{endpoint: "https://example.com/api/ai/get-review", want: "https://example.com/api/"},
		{endpoint: "https://example.com/a/b/ai/get-review?x=1", want: "https://example.com/a/b/"},
		{endpoint: "http://localhost:3000", want: "http://localhost:3000/"},
		{endpoint: "http://localhost:3000/custom/review", want: "http://localhost:3000/custom/review/"},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			u, err := url.Parse(tt.endpoint)
			require.NoError(t, err)
			assert.Equal(t, tt.want, healthURL(u))
		})
	}
}

func TestEndpointCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("codereview server is up\n"))
	}))
	defer srv.Close()

	t.Run("reachable", func(t *testing.T) {
		result := NewEndpointCheck(srv.URL+"/ai/get-review", srv.Client()).Run(context.Background())
		require.Len(t, result.Items, 2)
		assert.Equal(t, StatusPass, result.Items[1].Status)
		assert.Equal(t, "codereview server is up", result.Items[1].Detail)
	})

	t.Run("path prefix kept", func(t *testing.T) {
		proxied := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/" {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write([]byte("codereview server is up\n"))
		}))
		defer proxied.Close()

		result := NewEndpointCheck(proxied.URL+"/api/ai/get-review", proxied.Client()).Run(context.Background())
		require.Len(t, result.Items, 2)
		assert.Equal(t, StatusPass, result.Items[1].Status)
	})

	t.Run("invalid url", func(t *testing.T) {
		result := NewEndpointCheck("not a url", nil).Run(context.Background())
		require.Len(t, result.Items, 1)
		assert.Equal(t, StatusFail, result.Items[0].Status)
	})

	t.Run("unreachable", func(t *testing.T) {
		dead := httptest.NewServer(http.NotFoundHandler())
		url := dead.URL
		dead.Close()

		result := NewEndpointCheck(url+"/ai/get-review", nil).Run(context.Background())
		require.Len(t, result.Items, 2)
		assert.Equal(t, StatusFail, result.Items[1].Status)
	})
}
