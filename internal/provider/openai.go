package provider

import (
	"context"
	"fmt"
	"net/http"
)

const (
	defaultOpenAIURL   = "https://api.openai.com/v1/chat/completions"
	defaultOpenAIModel = "gpt-4o-mini"
	defaultOllamaURL   = "http://localhost:11434/v1/chat/completions"
)

// OpenAI reviews code with an OpenAI compatible chat completions API. It also
// serves Ollama, which exposes the same API locally.
type OpenAI struct {
	name    string
	apiKey  string
	model   string
	baseURL string
	system  string
	client  *http.Client
}

func (o *OpenAI) Name() string { return o.name }

func (o *OpenAI) Review(ctx context.Context, code string) (string, error) {
	reqBody := openAIRequest{
		Model: o.model,
		Messages: []openAIMessage{
			{Role: "system", Content: o.system},
			{Role: "user", Content: code},
		},
	}

	var headers map[string]string
	if o.apiKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + o.apiKey}
	}

	var text string
	err := retryWithBackoff(ctx, func() error {
		var apiResp openAIResponse
		if err := postJSON(ctx, o.client, o.Name(), o.baseURL, headers, reqBody, &apiResp); err != nil {
			return err
		}

		if apiResp.Error != nil {
			return &Error{Provider: o.Name(), Err: fmt.Errorf("api error: %s: %s", apiResp.Error.Type, apiResp.Error.Message)}
		}

		if len(apiResp.Choices) == 0 || apiResp.Choices[0].Message.Content == "" {
			return &Error{Provider: o.Name(), Err: ErrEmptyResponse}
		}

		text = apiResp.Choices[0].Message.Content
		return nil
	})

	return text, err
}

type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []openAIChoice `json:"choices"`
	Error   *openAIError   `json:"error,omitempty"`
}

type openAIChoice struct {
	Message openAIMessage `json:"message"`
}

type openAIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
