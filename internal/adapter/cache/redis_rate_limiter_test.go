package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*RedisRateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisRateLimiter(rdb, limit, window), mr
}

func TestAdmit_DeniesAboveLimit(t *testing.T) {
	l, _ := newTestLimiter(t, 3, time.Hour)
	ctx := context.Background()

	for i, wantRemaining := range []int{2, 1, 0} {
		remaining, ok, err := l.Admit(ctx, "1.2.3.4")
		require.NoError(t, err)
		require.True(t, ok, "request %d must be admitted", i+1)
		assert.Equal(t, wantRemaining, remaining)
	}

	_, ok, err := l.Admit(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok, "request above the limit must be denied")
}

func TestAdmit_ScopesAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, 1, time.Hour)
	ctx := context.Background()

	_, ok, err := l.Admit(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = l.Admit(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = l.Admit(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, ok, "a different scope key has its own counter")
}

func TestAdmit_CounterExpires(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Hour)
	ctx := context.Background()

	_, ok, err := l.Admit(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.True(t, ok)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	ttl := mr.TTL(keys[0])
	assert.Greater(t, ttl, time.Duration(0), "window counter must carry an expiry")
	assert.LessOrEqual(t, ttl, time.Hour)
}

func TestAdmit_IncrementsEvenWhenDenied(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := l.Admit(ctx, "1.2.3.4")
		require.NoError(t, err)
	}

	keys := mr.Keys()
	require.Len(t, keys, 1)
	val, err := mr.Get(keys[0])
	require.NoError(t, err)
	assert.Equal(t, "3", val, "denied calls still count; the increment is the signal")
}

func TestAdmit_StoreFailureSurfaces(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := NewRedisRateLimiter(rdb, 1, time.Hour)
	mr.Close()

	_, ok, err := l.Admit(context.Background(), "1.2.3.4")
	require.Error(t, err)
	assert.False(t, ok)
}
