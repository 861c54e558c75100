package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAI_Review(t *testing.T) {
	var got openAIRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_ = json.NewEncoder(w).Encode(openAIResponse{
			Choices: []openAIChoice{{Message: openAIMessage{Role: "assistant", Content: "Looks correct."}}},
		})
	}))
	defer srv.Close()

	o := &OpenAI{name: "openai", apiKey: "test-key", model: "gpt", baseURL: srv.URL, system: "sys", client: srv.Client()}

	text, err := o.Review(context.Background(), "code")
	require.NoError(t, err)

	assert.Equal(t, "Looks correct.", text)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "code", got.Messages[1].Content)
}

func TestOpenAI_OllamaOmitsAuthorization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	o := &OpenAI{name: "ollama", model: "llama3", baseURL: srv.URL, client: srv.Client()}

	text, err := o.Review(context.Background(), "code")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, "ollama", o.Name())
}

func TestOpenAI_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	o := &OpenAI{name: "openai", model: "m", baseURL: srv.URL, client: srv.Client()}

	_, err := o.Review(context.Background(), "code")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
