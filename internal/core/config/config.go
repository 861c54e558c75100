// Package config handles configuration loading and validation for codereview.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/codereview/internal/core/styles"
)

// Supported review provider names.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
	ProviderStatic    = "static"
)

// DefaultEndpoint is the review endpoint the editor posts to when nothing else
// is configured.
const DefaultEndpoint = "http://localhost:3000/ai/get-review"

// Config holds the application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Client   ClientConfig   `yaml:"client"`
	Provider ProviderConfig `yaml:"provider"`
	TUI      TUIConfig      `yaml:"tui"`
}

// ServerConfig configures the review HTTP server.
type ServerConfig struct {
	Addr          string `yaml:"addr"`
	MaxBodyBytes  int64  `yaml:"max_body_bytes"`
	HealthMessage string `yaml:"health_message"` // body returned by GET /
}

// ClientConfig configures the editor's review service client.
type ClientConfig struct {
	Endpoint string `yaml:"endpoint"` // full URL of POST /ai/get-review
}

// ProviderConfig selects and configures the AI capability used by the server.
type ProviderConfig struct {
	Name         string        `yaml:"name"`
	Model        string        `yaml:"model"` // empty selects the provider's default model
	APIKey       string        `yaml:"api_key"`
	APIKeyEnv    string        `yaml:"api_key_env"` // env var to read the key from when api_key is empty
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	SystemPrompt string        `yaml:"system_prompt"`
	StaticReply  string        `yaml:"static_reply"` // reply used by the static provider
}

// TUIConfig holds editor display settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:          ":3000",
			MaxBodyBytes:  10 << 20,
			HealthMessage: "codereview server is up",
		},
		Client: ClientConfig{
			Endpoint: DefaultEndpoint,
		},
		Provider: ProviderConfig{
			Name:    ProviderGemini,
			Timeout: 120 * time.Second,
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
	}
}

// Load reads configuration from the given path.
// If configPath is empty or doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Write marshals the config as YAML to path, creating parent directories.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	return os.WriteFile(path, data, 0o600)
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = defaults.Server.MaxBodyBytes
	}
	if c.Server.HealthMessage == "" {
		c.Server.HealthMessage = defaults.Server.HealthMessage
	}
	if c.Client.Endpoint == "" {
		c.Client.Endpoint = defaults.Client.Endpoint
	}
	if c.Provider.Name == "" {
		c.Provider.Name = defaults.Provider.Name
	}
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = defaults.Provider.Timeout
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("server.max_body_bytes cannot be negative")
	}

	if c.Client.Endpoint == "" {
		return fmt.Errorf("client.endpoint cannot be empty")
	}

	if !IsValidProvider(c.Provider.Name) {
		return fmt.Errorf("provider.name %q is not one of %v", c.Provider.Name, ProviderNames())
	}

	if c.Provider.Timeout < 0 {
		return fmt.Errorf("provider.timeout cannot be negative")
	}

	if _, ok := styles.GetPalette(c.TUI.Theme); !ok {
		return fmt.Errorf("tui.theme %q is not one of %v", c.TUI.Theme, styles.ThemeNames())
	}

	return nil
}

// ResolveAPIKey returns the configured key, falling back to the environment
// variable named by api_key_env.
func (p ProviderConfig) ResolveAPIKey() string {
	if p.APIKey != "" {
		return p.APIKey
	}
	if p.APIKeyEnv != "" {
		return os.Getenv(p.APIKeyEnv)
	}
	return ""
}

// ProviderNames returns the supported provider names.
func ProviderNames() []string {
	return []string{ProviderGemini, ProviderAnthropic, ProviderOpenAI, ProviderOllama, ProviderStatic}
}

// IsValidProvider reports whether name is a supported provider.
func IsValidProvider(name string) bool {
	switch name {
	case ProviderGemini, ProviderAnthropic, ProviderOpenAI, ProviderOllama, ProviderStatic:
		return true
	default:
		return false
	}
}
