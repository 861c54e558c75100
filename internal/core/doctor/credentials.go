package doctor

import (
	"context"
	"os"

	"github.com/hay-kot/codereview/internal/core/config"
)

// getenvFunc reads environment variables.
// Package-level variable to allow test overrides.
var getenvFunc = os.Getenv

// providerKeyEnvs lists the variables each provider falls back to when no key
// is configured.
var providerKeyEnvs = map[string][]string{
	config.ProviderGemini:    {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	config.ProviderAnthropic: {"ANTHROPIC_API_KEY"},
	config.ProviderOpenAI:    {"OPENAI_API_KEY"},
}

// CredentialsCheck verifies the selected provider can find an API key.
type CredentialsCheck struct {
	cfg config.ProviderConfig
}

// NewCredentialsCheck creates a new credentials check.
func NewCredentialsCheck(cfg config.ProviderConfig) *CredentialsCheck {
	return &CredentialsCheck{cfg: cfg}
}

func (c *CredentialsCheck) Name() string {
	return "Provider"
}

func (c *CredentialsCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}
	result.Items = append(result.Items, pass("name", c.cfg.Name))

	switch c.cfg.Name {
	case config.ProviderStatic:
		result.Items = append(result.Items, warn("api key", "not needed; static replies only"))
		return result
	case config.ProviderOllama:
		if c.cfg.Model == "" {
			result.Items = append(result.Items, fail("model", "ollama requires provider.model"))
		} else {
			result.Items = append(result.Items, pass("model", c.cfg.Model))
		}
		return result
	}

	switch {
	case c.cfg.APIKey != "":
		result.Items = append(result.Items, pass("api key", "set in config file"))
		return result
	case c.cfg.APIKeyEnv != "" && getenvFunc(c.cfg.APIKeyEnv) != "":
		result.Items = append(result.Items, pass("api key", "$"+c.cfg.APIKeyEnv))
		return result
	}

	for _, env := range providerKeyEnvs[c.cfg.Name] {
		if getenvFunc(env) != "" {
			result.Items = append(result.Items, pass("api key", "$"+env))
			return result
		}
	}

	result.Items = append(result.Items, fail("api key", "no key configured; set provider.api_key_env or export the provider's key"))
	return result
}
