package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type qrKey string

func TestInMemoryCacheManager_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCacheManager[qrKey, []string]("qr", DefaultExpiration, DefaultCleanupInterval)

	_, ok := c.Get(ctx, "https://x/qr.png")
	require.False(t, ok)

	c.Set(ctx, "https://x/qr.png", []string{"▀▄", "█ "}, 0)
	got, ok := c.Get(ctx, "https://x/qr.png")
	require.True(t, ok)
	require.Equal(t, []string{"▀▄", "█ "}, got)
	require.Equal(t, 1, c.Len())

	c.Delete(ctx, "https://x/qr.png")
	_, ok = c.Get(ctx, "https://x/qr.png")
	require.False(t, ok)
}

func TestInMemoryCacheManager_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCacheManager[string, int]("short", DefaultExpiration, DefaultCleanupInterval)

	c.Set(ctx, "k", 1, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		_, ok := c.Get(ctx, "k")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestInMemoryCacheManager_Flush(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCacheManager[string, int]("flush", DefaultExpiration, DefaultCleanupInterval)
	c.Set(ctx, "a", 1, 0)
	c.Set(ctx, "b", 2, 0)

	c.Flush(ctx)

	require.Zero(t, c.Len())
}

func TestReadThroughCache(t *testing.T) {
	ctx := context.Background()
	calls := 0
	fail := true
	r := NewReadThroughCache[string, string](
		NewInMemoryCacheManager[string, string]("rt", DefaultExpiration, DefaultCleanupInterval),
		time.Minute,
		func(_ context.Context, key string) (string, error) {
			calls++
			if fail {
				return "", errors.New("unreachable")
			}
			return "rendered:" + key, nil
		},
	)

	_, _, err := r.Get(ctx, "u")
	require.Error(t, err)

	fail = false
	v, hit, err := r.Get(ctx, "u")
	require.NoError(t, err)
	require.False(t, hit)
	require.Equal(t, "rendered:u", v)

	v, hit, err = r.Get(ctx, "u")
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, "rendered:u", v)
	require.Equal(t, 2, calls, "errors are not cached, hits skip the loader")
}
