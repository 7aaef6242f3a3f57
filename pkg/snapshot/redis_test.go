package snapshot_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagmate/flagmate/pkg/snapshot"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*snapshot.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return snapshot.NewRedisCache(client, ttl), srv
}

func TestRedisCacheRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cache, _ := newRedisCache(t, time.Minute)
	doc := testDocument()

	require.NoError(t, cache.Set(ctx, "env-key", doc))

	got, ok, err := cache.Get(ctx, "env-key")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, doc.Environment.ID, got.Environment.ID)
	require.Len(t, got.States, len(doc.States))
	assert.Len(t, got.Segments, len(doc.Segments))

	// Typed values must survive the trip intact, type included; a cache
	// that cannot decode its own entries would report every read as a miss.
	assert.Equal(t, doc.Features[0].InitialValue, got.Features[0].InitialValue)
	assert.Equal(t, doc.States[0].Value, got.States[0].Value)
	assert.Equal(t, doc.States[1].Value, got.States[1].Value)
}

func TestRedisCacheMiss(t *testing.T) {
	t.Parallel()

	cache, _ := newRedisCache(t, time.Minute)
	_, ok, err := cache.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCacheInvalidate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cache, _ := newRedisCache(t, time.Minute)
	require.NoError(t, cache.Set(ctx, "k", testDocument()))
	require.NoError(t, cache.Invalidate(ctx, "k"))

	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCacheTTL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cache, srv := newRedisCache(t, time.Minute)
	require.NoError(t, cache.Set(ctx, "k", testDocument()))

	srv.FastForward(2 * time.Minute)

	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCacheCorruptEntryTreatedAsMiss(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cache, srv := newRedisCache(t, time.Minute)
	require.NoError(t, srv.Set("env-document:k", "{not json"))

	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
