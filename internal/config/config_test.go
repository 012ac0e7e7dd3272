package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTP.Address)
	require.Equal(t, "http://localhost:5173", cfg.HTTP.CORSOrigin)
	require.Equal(t, 2*time.Second, cfg.Outbox.PollInterval)
	require.Equal(t, 25, cfg.Outbox.BatchSize)
	require.Equal(t, 5, cfg.DLQ.MaxRetries)
	require.Equal(t, []string{"kafka:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, DriverMemory, cfg.Store.Driver)
	require.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9000"
outbox:
  poll_interval: 500ms
  batch_size: 10
store:
  driver: postgres
kafka:
  brokers: ["a:9092", "b:9092"]
log:
  level: debug
`), 0o600))

	t.Setenv("OUTBOX_BATCH_SIZE", "50")
	t.Setenv("KAFKA_BROKERS", "x:1, y:2")
	t.Setenv("SCHEMA_REGISTRY_URL", "http://registry:8081")
	t.Setenv("DLQ_BASE_DELAY", "15s")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.HTTP.Address)
	require.Equal(t, 500*time.Millisecond, cfg.Outbox.PollInterval)
	require.Equal(t, 50, cfg.Outbox.BatchSize, "environment wins over the file")
	require.Equal(t, []string{"x:1", "y:2"}, cfg.Kafka.Brokers)
	require.Equal(t, "http://registry:8081", cfg.Schema.RegistryURL)
	require.Equal(t, 15*time.Second, cfg.DLQ.BaseDelay)
	require.Equal(t, DriverPostgres, cfg.Store.Driver)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTP.Address)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	_, err := Load("")
	require.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http: [unclosed"), 0o600))
	_, err := Load(path)
	require.Error(t, err)
}
