package reviewclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_Success(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ai/get-review", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "text/markdown")
		_, _ = io.WriteString(w, "  Looks correct.\n")
	}))
	defer srv.Close()

	c := New(Config{Endpoint: srv.URL + "/ai/get-review", HTTPClient: srv.Client()})
	resp := c.Submit(context.Background(), "function sum() { return 1 + 1; }")

	require.True(t, resp.OK())
	assert.Equal(t, "  Looks correct.\n", resp.Text, "text must not be transformed")
	assert.Equal(t, map[string]any{"code": "function sum() { return 1 + 1; }"}, gotBody)
}

func TestSubmit_EmptyCodeIsSent(t *testing.T) {
	var raw []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, "ok")
	}))
	defer srv.Close()

	resp := New(Config{Endpoint: srv.URL, HTTPClient: srv.Client()}).Submit(context.Background(), "")

	require.True(t, resp.OK())
	assert.JSONEq(t, `{"code":""}`, string(raw))
}

func TestSubmit_Failures(t *testing.T) {
	tests := []struct {
		name     string
		endpoint func(t *testing.T) string
	}{
		{
			name: "server error status",
			endpoint: func(t *testing.T) string {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					http.Error(w, `{"message":"provider failed"}`, http.StatusInternalServerError)
				}))
				t.Cleanup(srv.Close)
				return srv.URL
			},
		},
		{
			name: "client error status",
			endpoint: func(t *testing.T) string {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusNotFound)
				}))
				t.Cleanup(srv.Close)
				return srv.URL
			},
		},
		{
			name: "unreachable endpoint",
			endpoint: func(t *testing.T) string {
				srv := httptest.NewServer(http.NotFoundHandler())
				url := srv.URL
				srv.Close()
				return url
			},
		},
		{
			name: "malformed endpoint",
			endpoint: func(t *testing.T) string {
				return "://not-a-url"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := New(Config{Endpoint: tt.endpoint(t)}).Submit(context.Background(), "x")

			require.False(t, resp.OK())
			assert.ErrorIs(t, resp.Err, ErrFetchReview)
			assert.Empty(t, resp.Text)
		})
	}
}

func TestSubmit_StatusErrorIsUnwrappable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "bad gateway")
	}))
	defer srv.Close()

	resp := New(Config{Endpoint: srv.URL}).Submit(context.Background(), "x")

	var se *StatusError
	require.ErrorAs(t, resp.Err, &se)
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
	assert.Equal(t, "bad gateway", se.Body)
}
