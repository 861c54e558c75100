package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultGeminiURL   = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultGeminiModel = "gemini-2.0-flash"
)

// Gemini reviews code with Google's generateContent API.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	system  string
	client  *http.Client
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Review(ctx context.Context, code string) (string, error) {
	// The key goes in a header; transport errors quote the URL.
	endpoint := fmt.Sprintf("%s/%s:generateContent",
		strings.TrimRight(g.baseURL, "/"), url.PathEscape(g.model))
	headers := map[string]string{"x-goog-api-key": g.apiKey}

	body := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: g.system}},
		},
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: code}}},
		},
	}

	var text string
	err := retryWithBackoff(ctx, func() error {
		var result geminiResponse
		if err := postJSON(ctx, g.client, g.Name(), endpoint, headers, body, &result); err != nil {
			return err
		}

		if result.Error != nil {
			return &Error{Provider: g.Name(), StatusCode: result.Error.Code, Err: fmt.Errorf("api error: %s", result.Error.Message)}
		}

		if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
			return &Error{Provider: g.Name(), Err: ErrEmptyResponse}
		}

		var sb strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			sb.WriteString(part.Text)
		}
		text = sb.String()
		return nil
	})

	return text, err
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
	Error      *geminiError      `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
