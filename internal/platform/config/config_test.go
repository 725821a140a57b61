package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults without file", func(t *testing.T) {
		cfg, err := Load("", filepath.Join(t.TempDir(), "missing.env"))
		require.NoError(t, err)
		assert.Equal(t, "memory", cfg.Store.Driver)
		assert.Equal(t, 2*time.Second, cfg.Draft.Debounce)
		assert.Equal(t, 30*time.Second, cfg.Stats.PollInterval)
	})

	t.Run("yaml then env overrides", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "countries.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
store:
  driver: sqlite
  dsn: countries.db
stats:
  poll_interval: 10s
`), 0o600))
		t.Setenv("COUNTRIES_ADDR", ":7070")

		cfg, err := Load(path, filepath.Join(dir, "none.env"))
		require.NoError(t, err)
		assert.Equal(t, ":7070", cfg.Server.Addr)
		assert.Equal(t, "sqlite", cfg.Store.Driver)
		assert.Equal(t, "countries.db", cfg.Store.DSN)
		assert.Equal(t, 10*time.Second, cfg.Stats.PollInterval)
	})

	t.Run("env file is applied", func(t *testing.T) {
		dir := t.TempDir()
		envPath := filepath.Join(dir, "test.env")
		require.NoError(t, os.WriteFile(envPath, []byte("KAFKA_BROKERS=a:9092, b:9092\n"), 0o600))
		t.Cleanup(func() { os.Unsetenv("KAFKA_BROKERS") })

		cfg, err := Load("", envPath)
		require.NoError(t, err)
		assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	})

	t.Run("sql driver without dsn is rejected", func(t *testing.T) {
		t.Setenv("COUNTRIES_STORE_DRIVER", "postgres")
		_, err := Load("", filepath.Join(t.TempDir(), "none.env"))
		assert.ErrorContains(t, err, "requires a dsn")
	})
}
