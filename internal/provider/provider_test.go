package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/codereview/internal/core/config"
)

func TestNew(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	tests := []struct {
		name     string
		cfg      config.ProviderConfig
		wantName string
		wantErr  string
	}{
		{
			name:     "static",
			cfg:      config.ProviderConfig{Name: config.ProviderStatic},
			wantName: "static",
		},
		{
			name:     "gemini with inline key",
			cfg:      config.ProviderConfig{Name: config.ProviderGemini, APIKey: "k"},
			wantName: "gemini",
		},
		{
			name:    "gemini without key",
			cfg:     config.ProviderConfig{Name: config.ProviderGemini},
			wantErr: "GEMINI_API_KEY",
		},
		{
			name:     "anthropic with key env",
			cfg:      config.ProviderConfig{Name: config.ProviderAnthropic, APIKeyEnv: "CODEREVIEW_TEST_ANTHROPIC"},
			wantName: "anthropic",
		},
		{
			name:    "openai without key",
			cfg:     config.ProviderConfig{Name: config.ProviderOpenAI},
			wantErr: "OPENAI_API_KEY",
		},
		{
			name:     "ollama with model",
			cfg:      config.ProviderConfig{Name: config.ProviderOllama, Model: "llama3"},
			wantName: "ollama",
		},
		{
			name:    "ollama without model",
			cfg:     config.ProviderConfig{Name: config.ProviderOllama},
			wantErr: "model is required",
		},
		{
			name:    "unknown",
			cfg:     config.ProviderConfig{Name: "markov"},
			wantErr: "unknown provider",
		},
	}

	t.Setenv("CODEREVIEW_TEST_ANTHROPIC", "secret")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, r.Name())
		})
	}
}

func TestStatic_Review(t *testing.T) {
	got, err := NewStatic("Looks correct.").Review(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "Looks correct.", got)

	got, err = NewStatic("").Review(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, DefaultStaticReply, got)
}

func TestStatic_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStatic("x").Review(ctx, "code")

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSystemPrompt(t *testing.T) {
	assert.Equal(t, defaultSystemPrompt, SystemPrompt(""))
	assert.Equal(t, defaultSystemPrompt, SystemPrompt("   "))
	assert.Equal(t, "be terse", SystemPrompt(" be terse "))
}

func TestError_Message(t *testing.T) {
	err := &Error{Provider: "gemini", StatusCode: 500, Err: errors.New("boom")}
	assert.Equal(t, "gemini: status 500: boom", err.Error())

	err = &Error{Provider: "gemini", Err: errors.New("boom")}
	assert.Equal(t, "gemini: boom", err.Error())
}

func TestRetryWithBackoff_RetriesRateLimit(t *testing.T) {
	prev := backoffBase
	backoffBase = time.Millisecond
	t.Cleanup(func() { backoffBase = prev })

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer srv.Close()

	o := &OpenAI{name: "openai", model: "m", baseURL: srv.URL, client: srv.Client()}
	got, err := o.Review(context.Background(), "code")

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRetryWithBackoff_DoesNotRetryOtherErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad", http.StatusBadRequest)
	}))
	defer srv.Close()

	o := &OpenAI{name: "openai", model: "m", baseURL: srv.URL, client: srv.Client()}
	_, err := o.Review(context.Background(), "code")

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusBadRequest, perr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}
