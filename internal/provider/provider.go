// Package provider implements the AI capability that turns source code into
// review text. Each supported backend speaks its vendor's HTTP API directly;
// callers only see the Reviewer interface.
//
// Providers forward whatever code they are given, including an empty string.
// How a backend reacts to empty input is up to the backend.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/hay-kot/codereview/internal/core/config"
)

// Reviewer is the AI capability used by the review handler.
type Reviewer interface {
	Review(ctx context.Context, code string) (string, error)
	Name() string
}

// Error is returned for any failure inside a provider. StatusCode is the
// upstream HTTP status when one was received, zero otherwise.
type Error struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrEmptyResponse is wrapped when a provider answered without any text.
var ErrEmptyResponse = errors.New("empty response")

// New creates a provider from configuration.
func New(cfg config.ProviderConfig) (Reviewer, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	system := SystemPrompt(cfg.SystemPrompt)

	switch cfg.Name {
	case config.ProviderGemini:
		key := apiKey(cfg, "GEMINI_API_KEY", "GOOGLE_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("gemini: GEMINI_API_KEY (or GOOGLE_API_KEY) is not set")
		}
		return &Gemini{
			apiKey:  key,
			model:   orDefault(cfg.Model, defaultGeminiModel),
			baseURL: orDefault(cfg.BaseURL, defaultGeminiURL),
			system:  system,
			client:  client,
		}, nil
	case config.ProviderAnthropic:
		key := apiKey(cfg, "ANTHROPIC_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("anthropic: ANTHROPIC_API_KEY is not set")
		}
		return &Anthropic{
			apiKey:  key,
			model:   orDefault(cfg.Model, defaultAnthropicModel),
			baseURL: orDefault(cfg.BaseURL, defaultAnthropicURL),
			system:  system,
			client:  client,
		}, nil
	case config.ProviderOpenAI:
		key := apiKey(cfg, "OPENAI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("openai: OPENAI_API_KEY is not set")
		}
		return &OpenAI{
			name:    config.ProviderOpenAI,
			apiKey:  key,
			model:   orDefault(cfg.Model, defaultOpenAIModel),
			baseURL: orDefault(cfg.BaseURL, defaultOpenAIURL),
			system:  system,
			client:  client,
		}, nil
	case config.ProviderOllama:
		if cfg.Model == "" {
			return nil, fmt.Errorf("ollama: model is required")
		}
		return &OpenAI{
			name:    config.ProviderOllama,
			apiKey:  apiKey(cfg, "OLLAMA_API_KEY"),
			model:   cfg.Model,
			baseURL: orDefault(cfg.BaseURL, defaultOllamaURL),
			system:  system,
			client:  client,
		}, nil
	case config.ProviderStatic:
		return NewStatic(cfg.StaticReply), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Name)
	}
}

func apiKey(cfg config.ProviderConfig, envs ...string) string {
	if key := cfg.ResolveAPIKey(); key != "" {
		return key
	}
	for _, env := range envs {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return ""
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// rateLimitError marks an upstream 429 so the request is retried.
type rateLimitError struct {
	body string
}

func (e *rateLimitError) Error() string { return "rate limited: " + e.body }

// backoffBase is the first retry delay; it doubles on each attempt.
var backoffBase = time.Second

const maxRetries = 3

// retryWithBackoff retries fn while it reports a rate limit.
func retryWithBackoff(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		var rl *rateLimitError
		if !errors.As(lastErr, &rl) {
			return lastErr
		}

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoffBase << uint(attempt)):
			}
		}
	}
	return lastErr
}
