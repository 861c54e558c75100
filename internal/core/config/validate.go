package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// endpoint URLs, provider credentials and file accessibility. The configPath
// argument specifies the config file location to validate (empty string skips
// config file check). This calls Validate() first for basic structural validation.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("client.endpoint", c.Client.Endpoint, isHTTPURL),
		c.validateProvider(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Provider.Name == ProviderStatic {
		warnings = append(warnings, ValidationWarning{
			Category: "Provider",
			Item:     "name",
			Message:  "static provider returns a canned reply; no code is actually reviewed",
		})
	}

	if c.Provider.APIKey != "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Provider",
			Item:     "api_key",
			Message:  "API key is stored in plain text; prefer api_key_env",
		})
	}

	return warnings
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// validateProvider checks provider specific requirements.
func (c *Config) validateProvider() error {
	var errs criterio.FieldErrorsBuilder
	p := c.Provider

	if p.BaseURL != "" {
		if err := isHTTPURL(p.BaseURL); err != nil {
			errs = errs.Append("provider.base_url", err)
		}
	}

	switch p.Name {
	case ProviderGemini, ProviderAnthropic, ProviderOpenAI:
		if p.APIKey == "" && p.APIKeyEnv != "" && os.Getenv(p.APIKeyEnv) == "" {
			errs = errs.Append("provider.api_key_env", fmt.Errorf("environment variable %s is not set", p.APIKeyEnv))
		}
	case ProviderOllama:
		if p.Model == "" {
			errs = errs.Append("provider.model", fmt.Errorf("model is required for ollama"))
		}
	}

	return errs.ToError()
}

// isHTTPURL validates that s is an absolute http or https URL.
func isHTTPURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", s)
	}
	return nil
}
