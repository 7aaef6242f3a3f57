package snapshot_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagmate/flagmate/pkg/snapshot"
)

func TestNewSourceRequiresLoader(t *testing.T) {
	t.Parallel()

	_, err := snapshot.NewSource(nil)
	assert.ErrorIs(t, err, snapshot.ErrNilLoader)
}

func TestSourceReadThrough(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var loads atomic.Int64
	loader := func(ctx context.Context, apiKey string) (*snapshot.Document, error) {
		loads.Add(1)
		return testDocument(), nil
	}

	source, err := snapshot.NewSource(loader,
		snapshot.WithCache(snapshot.NewMemoryCache(8, time.Minute)),
	)
	require.NoError(t, err)

	for range 5 {
		doc, err := source.Get(ctx, "env-key")
		require.NoError(t, err)
		require.NotNil(t, doc)
	}

	assert.Equal(t, int64(1), loads.Load(), "repeated gets hit the cache")
}

func TestSourceInvalidateForcesReload(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var loads atomic.Int64
	loader := func(ctx context.Context, apiKey string) (*snapshot.Document, error) {
		loads.Add(1)
		return testDocument(), nil
	}

	source, err := snapshot.NewSource(loader,
		snapshot.WithCache(snapshot.NewMemoryCache(8, time.Minute)),
	)
	require.NoError(t, err)

	_, err = source.Get(ctx, "env-key")
	require.NoError(t, err)
	require.NoError(t, source.Invalidate(ctx, "env-key"))

	_, err = source.Get(ctx, "env-key")
	require.NoError(t, err)
	assert.Equal(t, int64(2), loads.Load())
}

func TestSourceWithoutCacheLoadsEveryTime(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var loads atomic.Int64
	source, err := snapshot.NewSource(func(ctx context.Context, apiKey string) (*snapshot.Document, error) {
		loads.Add(1)
		return testDocument(), nil
	})
	require.NoError(t, err)

	for range 3 {
		_, err := source.Get(ctx, "env-key")
		require.NoError(t, err)
	}
	assert.Equal(t, int64(3), loads.Load())
}

func TestSourceLoaderFailure(t *testing.T) {
	t.Parallel()

	source, err := snapshot.NewSource(func(ctx context.Context, apiKey string) (*snapshot.Document, error) {
		return nil, errors.New("db down")
	})
	require.NoError(t, err)

	_, err = source.Get(context.Background(), "env-key")
	assert.ErrorIs(t, err, snapshot.ErrEnvironmentNotFound)
}

func TestSourceEmptyAPIKey(t *testing.T) {
	t.Parallel()

	source, err := snapshot.NewSource(func(ctx context.Context, apiKey string) (*snapshot.Document, error) {
		t.Fatal("loader must not be called for an empty api key")
		return nil, nil
	})
	require.NoError(t, err)

	_, err = source.Get(context.Background(), "")
	assert.ErrorIs(t, err, snapshot.ErrEnvironmentNotFound)
}
