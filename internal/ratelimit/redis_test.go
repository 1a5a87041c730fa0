package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis, *fakeClock) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	return NewRedisStore(client).WithClock(clock.Now), mr, clock
}

func TestRedisStore_FourthCallRejectedWithOriginalReset(t *testing.T) {
	store, mr, clock := newTestRedisStore(t)
	lim := NewLimiter(store, "email", Policy{Limit: 3, Window: time.Hour})
	ctx := context.Background()

	first, err := lim.Allow(ctx, "x")
	require.NoError(t, err)
	assert.True(t, first.Allowed)
	assert.Equal(t, 2, first.Remaining)
	assert.True(t, first.ResetAt.Equal(clock.Now().Add(time.Hour)))

	for i := 0; i < 2; i++ {
		mr.FastForward(10 * time.Minute)
		clock.Advance(10 * time.Minute)
		res, err := lim.Allow(ctx, "x")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.True(t, first.ResetAt.Equal(res.ResetAt))
	}

	for i := 0; i < 3; i++ {
		mr.FastForward(time.Minute)
		clock.Advance(time.Minute)
		res, err := lim.Allow(ctx, "x")
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Equal(t, 0, res.Remaining)
		assert.True(t, first.ResetAt.Equal(res.ResetAt), "время сброса не плывёт")
	}
}

func TestRedisStore_WindowRollover(t *testing.T) {
	store, mr, clock := newTestRedisStore(t)
	p := Policy{Limit: 3, Window: time.Hour}
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := store.Take(ctx, "ip:1.2.3.4", p)
		require.NoError(t, err)
	}

	mr.FastForward(time.Hour + time.Second)
	clock.Advance(time.Hour + time.Second)

	res, err := store.Take(ctx, "ip:1.2.3.4", p)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 2, res.Remaining, "после окна счётчик начинается с 1")
	assert.True(t, res.ResetAt.Equal(clock.Now().Add(time.Hour)))
}

func TestRedisStore_NeverMoreThanLimitConcurrently(t *testing.T) {
	store, _, _ := newTestRedisStore(t)
	p := Policy{Limit: 5, Window: time.Hour}
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := store.Take(ctx, "reset:1.2.3.4", p)
			if err != nil || !res.Allowed {
				return
			}
			mu.Lock()
			allowed++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, allowed)
}

func TestRedisStore_KeysAreIndependent(t *testing.T) {
	store, _, _ := newTestRedisStore(t)
	p := Policy{Limit: 1, Window: time.Minute}
	ctx := context.Background()

	a, err := store.Take(ctx, "email:a", p)
	require.NoError(t, err)
	b, err := store.Take(ctx, "email:b", p)
	require.NoError(t, err)
	assert.True(t, a.Allowed)
	assert.True(t, b.Allowed)

	again, err := store.Take(ctx, "email:a", p)
	require.NoError(t, err)
	assert.False(t, again.Allowed)
}
