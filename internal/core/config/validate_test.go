package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDeep(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantField string
	}{
		{
			name:   "defaults pass",
			mutate: func(c *Config) {},
		},
		{
			name:      "endpoint without scheme",
			mutate:    func(c *Config) { c.Client.Endpoint = "localhost:3000/ai/get-review" },
			wantField: "client.endpoint",
		},
		{
			name:      "bad base url",
			mutate:    func(c *Config) { c.Provider.BaseURL = "ftp://models.local" },
			wantField: "provider.base_url",
		},
		{
			name: "missing key env",
			mutate: func(c *Config) {
				c.Provider.Name = ProviderAnthropic
				c.Provider.APIKeyEnv = "CODEREVIEW_UNSET_KEY_FOR_TEST"
			},
			wantField: "provider.api_key_env",
		},
		{
			name: "ollama needs model",
			mutate: func(c *Config) {
				c.Provider.Name = ProviderOllama
				c.Provider.Model = ""
			},
			wantField: "provider.model",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.ValidateDeep("")
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			require.Len(t, fieldErrs, 1)
			assert.Equal(t, tt.wantField, fieldErrs[0].Field)
		})
	}
}

func TestValidateDeep_ConfigPathIsDirectory(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()

	err := cfg.ValidateDeep(dir)

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "config_file", fieldErrs[0].Field)
}

func TestValidateDeep_ConfigFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	cfg := DefaultConfig()
	assert.NoError(t, cfg.ValidateDeep(path))
}

func TestWarnings(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, cfg.Warnings())

	cfg.Provider.Name = ProviderStatic
	warnings := cfg.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "Provider", warnings[0].Category)

	cfg.Provider.APIKey = "sk-test"
	warnings = cfg.Warnings()
	require.Len(t, warnings, 2)
	assert.Equal(t, "api_key", warnings[1].Item)
}
