package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name      string
		setupCtx  func() context.Context
		wantKeys  []string
		wantEmpty []string
	}{
		{
			name: "both request_id and review_seq",
			setupCtx: func() context.Context {
				ctx := WithRequestID(context.Background(), "req-1")
				return WithReviewSeq(ctx, 3)
			},
			wantKeys: []string{"request_id", "review_seq"},
		},
		{
			name: "only request_id",
			setupCtx: func() context.Context {
				return WithRequestID(context.Background(), "req-1")
			},
			wantKeys:  []string{"request_id"},
			wantEmpty: []string{"review_seq"},
		},
		{
			name: "only review_seq",
			setupCtx: func() context.Context {
				return WithReviewSeq(context.Background(), 1)
			},
			wantKeys:  []string{"review_seq"},
			wantEmpty: []string{"request_id"},
		},
		{
			name:      "no context values",
			setupCtx:  context.Background,
			wantEmpty: []string{"request_id", "review_seq"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(tt.setupCtx()).Msg("test")

			var logEntry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				t.Fatalf("failed to parse log: %v", err)
			}

			for _, key := range tt.wantKeys {
				if _, ok := logEntry[key]; !ok {
					t.Errorf("expected %s to be present in log", key)
				}
			}

			for _, key := range tt.wantEmpty {
				if _, ok := logEntry[key]; ok {
					t.Errorf("expected %s to be absent from log", key)
				}
			}
		})
	}
}
