package cache

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/placeviewer/internal/domain/providers"
	redisclient "github.com/zatekoja/placeviewer/internal/infrastructure/clients/redis"
)

func newTestRedisAdapter(t *testing.T) providers.CacheProvider {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, rdb.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisAdapter(redisclient.NewFromClient(rdb), "placeviewer:test:")
}

func TestRedisAdapter_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestRedisAdapter(t)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 30))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	exists, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, c.Delete(ctx, "k"))
	exists, err = c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}
