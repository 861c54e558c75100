package provider

import (
	"context"
	"fmt"
	"net/http"
)

const (
	defaultAnthropicURL     = "https://api.anthropic.com/v1/messages"
	defaultAnthropicVersion = "2023-06-01"
	defaultAnthropicModel   = "claude-3-5-sonnet-20241022"
	defaultMaxTokens        = 4096
)

// Anthropic reviews code with the Anthropic Messages API.
type Anthropic struct {
	apiKey  string
	model   string
	baseURL string
	system  string
	client  *http.Client
}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) Review(ctx context.Context, code string) (string, error) {
	reqBody := anthropicRequest{
		Model:     a.model,
		MaxTokens: defaultMaxTokens,
		System:    a.system,
		Messages: []anthropicMessage{
			{Role: "user", Content: code},
		},
	}
	headers := map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": defaultAnthropicVersion,
	}

	var text string
	err := retryWithBackoff(ctx, func() error {
		var apiResp anthropicResponse
		if err := postJSON(ctx, a.client, a.Name(), a.baseURL, headers, reqBody, &apiResp); err != nil {
			return err
		}

		if apiResp.Error != nil {
			return &Error{Provider: a.Name(), Err: fmt.Errorf("api error: %s: %s", apiResp.Error.Type, apiResp.Error.Message)}
		}

		for _, block := range apiResp.Content {
			if block.Type == "text" {
				text = block.Text
				return nil
			}
		}

		return &Error{Provider: a.Name(), Err: ErrEmptyResponse}
	})

	return text, err
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicContentBlock `json:"content"`
	Error   *anthropicError         `json:"error,omitempty"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
