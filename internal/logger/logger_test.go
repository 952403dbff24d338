package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("storefront-service", &buf, "debug")

	log.Info("cart_updated", "Cart line added", "req-1", map[string]interface{}{
		"line_id": "l1",
	})

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "Cart line added", record["msg"])
	assert.Equal(t, "storefront-service", record["service"])
	assert.Equal(t, "cart_updated", record["action"])
	assert.Equal(t, "req-1", record["request_id"])

	fields, ok := record["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "l1", fields["line_id"])
}

func TestLogger_ErrorGroup(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("svc", &buf, "info")

	log.Error("sink_failed", "Order submission failed", "req-2", errors.New("broker down"), nil)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	errGroup, ok := record["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "broker down", errGroup["msg"])
	assert.NotContains(t, record, "fields")
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("svc", &buf, "warn")

	log.Debug("noise", "dropped", "", nil)
	log.Info("noise", "dropped", "", nil)
	assert.Zero(t, buf.Len())

	log.Warn("status_rejected", "kept", "", nil)
	assert.NotZero(t, buf.Len())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestGenerateRequestID_Unique(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
