package main

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"countries/internal/audit"
	"countries/internal/platform/config"
)

func TestRunClosesAuditSinkOnStartupFailure(t *testing.T) {
	t.Setenv("COUNTRIES_STORE_DRIVER", "memory")
	t.Setenv("COUNTRIES_SEED", "false")
	t.Setenv("REDIS_URL", "redis://127.0.0.1:1/0")

	var closed atomic.Int32
	original := openSink
	openSink = func(_ context.Context, _ config.KafkaConfig, log *slog.Logger) (audit.Sink, func(context.Context) error, error) {
		return audit.NewLogSink(log), func(context.Context) error {
			closed.Add(1)
			return nil
		}, nil
	}
	t.Cleanup(func() { openSink = original })

	err := run(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")
	assert.Equal(t, int32(1), closed.Load())
}
