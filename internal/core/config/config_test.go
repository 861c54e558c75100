package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultEndpoint, cfg.Client.Endpoint)
	assert.Equal(t, ProviderGemini, cfg.Provider.Name)
}

func TestLoad_OverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
client:
  endpoint: http://review.internal:8080/ai/get-review
provider:
  name: static
  static_reply: "Looks correct."
  timeout: 5s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://review.internal:8080/ai/get-review", cfg.Client.Endpoint)
	assert.Equal(t, ProviderStatic, cfg.Provider.Name)
	assert.Equal(t, "Looks correct.", cfg.Provider.StaticReply)
	assert.Equal(t, 5*time.Second, cfg.Provider.Timeout)

	// unset sections keep defaults
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxBodyBytes)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty endpoint",
			mutate:  func(c *Config) { c.Client.Endpoint = "" },
			wantErr: "client.endpoint cannot be empty",
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Provider.Name = "markov" },
			wantErr: "provider.name",
		},
		{
			name:    "unknown theme",
			mutate:  func(c *Config) { c.TUI.Theme = "neon" },
			wantErr: "tui.theme",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Provider.Timeout = -time.Second },
			wantErr: "provider.timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWrite_RoundTripsThroughLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Provider.Name = ProviderAnthropic
	cfg.Provider.APIKeyEnv = "ANTHROPIC_API_KEY"
	require.NoError(t, cfg.Write(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, *loaded)
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("CODEREVIEW_TEST_KEY", "from-env")

	assert.Equal(t, "inline", ProviderConfig{APIKey: "inline", APIKeyEnv: "CODEREVIEW_TEST_KEY"}.ResolveAPIKey())
	assert.Equal(t, "from-env", ProviderConfig{APIKeyEnv: "CODEREVIEW_TEST_KEY"}.ResolveAPIKey())
	assert.Empty(t, ProviderConfig{}.ResolveAPIKey())
}
