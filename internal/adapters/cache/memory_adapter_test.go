package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/placeviewer/internal/domain/providers"
)

func TestMemoryAdapter_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryAdapter(time.Minute)

	_, err := c.Get(ctx, "geo:photon:abc")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)

	payload := []byte(`[{"lon":127.0,"lat":37.0}]`)
	require.NoError(t, c.Set(ctx, "geo:photon:abc", payload, 60))

	// the stored copy must not alias the caller's slice
	payload[0] = 'X'

	got, err := c.Get(ctx, "geo:photon:abc")
	require.NoError(t, err)
	assert.Equal(t, `[{"lon":127.0,"lat":37.0}]`, string(got))

	exists, err := c.Exists(ctx, "geo:photon:abc")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, c.Delete(ctx, "geo:photon:abc"))
	exists, err = c.Exists(ctx, "geo:photon:abc")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryAdapter_Expiration(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryAdapter(time.Minute).(*MemoryAdapter)

	c.store.Set("short", []byte("v"), time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	_, err := c.Get(ctx, "short")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}
