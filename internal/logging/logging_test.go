package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := stderr
	stderr = buf
	t.Cleanup(func() { stderr = prev })
	return buf
}

func TestNewJSONLogger(t *testing.T) {
	buf := capture(t)

	logger, err := New(Config{Level: "warn", Format: "json"})
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept")
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	require.Equal(t, "kept", entry["msg"])
	require.Equal(t, "warn", entry["level"])
	require.Contains(t, entry, "ts")
}

func TestNewConsoleLogger(t *testing.T) {
	buf := capture(t)

	logger, err := New(Config{Format: "console"})
	require.NoError(t, err)
	logger.Info("hello")

	require.Contains(t, buf.String(), "hello")
	require.Contains(t, buf.String(), "info")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "chatty"})
	require.Error(t, err)
}
