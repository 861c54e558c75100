package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	logger := Component("test-component")
	logger.Info().Msg("test message")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log: %v", err)
	}

	if cmp := logEntry["cmp"]; cmp != "test-component" {
		t.Errorf("Component() cmp = %v, want %q", cmp, "test-component")
	}

	if msg := logEntry["message"]; msg != "test message" {
		t.Errorf("Component() message = %v, want %q", msg, "test message")
	}
}

func TestCtx_CarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	ctx := WithRequestID(context.Background(), "req-42")
	logger := Ctx(ctx, "server")
	logger.Info().Msg("handled")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log: %v", err)
	}

	if got := logEntry["request_id"]; got != "req-42" {
		t.Errorf("request_id = %v, want %q", got, "req-42")
	}
	if got := logEntry["cmp"]; got != "server" {
		t.Errorf("cmp = %v, want %q", got, "server")
	}
}
