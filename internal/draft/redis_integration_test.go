//go:build integration

package draft

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"countries/internal/platform/config"
	platformredis "countries/internal/platform/redis"
	"countries/pkg/platform/sentinel"
	"countries/pkg/testutil/containers"
)

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)

	client, err := platformredis.New(ctx, config.RedisConfig{URL: rc.Addr, DraftPrefix: "countries:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client)
	_, err = store.Load(ctx, Key)
	require.True(t, errors.Is(err, sentinel.ErrNotFound))

	m := NewManager(store)
	defer m.Close()
	require.NoError(t, m.Save(ctx, Record{FieldName: "Test"}))

	raw, err := rc.Client.Get(ctx, "countries:countryDraft").Result()
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"Test"}`, raw)

	r, ok, err := m.Pending(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Test", r[FieldName])

	require.NoError(t, m.Clear(ctx))
	_, ok, err = m.Pending(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}
