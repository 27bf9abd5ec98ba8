package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestJSONOutputCarriesContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Format: "json", Writer: &buf, Component: "auth"})

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithUserID(ctx, "user-1")
	l.WithContext(ctx).WithError(errors.New("boom")).Info("login failed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "login failed", entry["msg"])
	assert.Equal(t, "auth", entry["component"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "user-1", entry["user_id"])
	assert.Equal(t, "boom", entry["error"])
}

func TestHTTPRequestLogLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Format: "json", Writer: &buf, Level: "info"})

	l.HTTPRequestLog("GET", "/api/courses", 500, 3*time.Millisecond, "10.0.0.1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, float64(500), entry["status"])
	assert.Equal(t, "/api/courses", entry["path"])
}

func TestWithContextWithoutValuesReturnsSameLogger(t *testing.T) {
	l := Discard()
	assert.Same(t, l, l.WithContext(context.Background()))
	assert.Same(t, l, l.WithError(nil))
	assert.Empty(t, RequestIDFromContext(context.Background()))
}
