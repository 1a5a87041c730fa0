package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestStore() (*MemoryStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	return NewMemoryStore(0).WithClock(clock.Now), clock
}

func TestMemoryStore_FourthCallRejectedWithOriginalReset(t *testing.T) {
	store, clock := newTestStore()
	lim := NewLimiter(store, "email", Policy{Limit: 3, Window: time.Hour})
	ctx := context.Background()

	first, err := lim.Allow(ctx, "x")
	require.NoError(t, err)
	assert.True(t, first.Allowed)
	assert.Equal(t, 2, first.Remaining)

	clock.Advance(10 * time.Minute)
	for i := 0; i < 2; i++ {
		res, err := lim.Allow(ctx, "x")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, first.ResetAt, res.ResetAt)
	}

	clock.Advance(10 * time.Minute)
	fourth, err := lim.Allow(ctx, "x")
	require.NoError(t, err)
	assert.False(t, fourth.Allowed)
	assert.Equal(t, 0, fourth.Remaining)
	assert.Equal(t, first.ResetAt, fourth.ResetAt)
}

func TestMemoryStore_WindowRollover(t *testing.T) {
	store, clock := newTestStore()
	p := Policy{Limit: 3, Window: time.Hour}
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, _ = store.Take(ctx, "email:x", p)
	}

	clock.Advance(time.Hour + time.Second)
	res, err := store.Take(ctx, "email:x", p)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 2, res.Remaining, "после окна счётчик начинается с 1")
	assert.Equal(t, clock.Now().Add(time.Hour), res.ResetAt)
}

func TestMemoryStore_KeysAreIndependent(t *testing.T) {
	store, _ := newTestStore()
	p := Policy{Limit: 1, Window: time.Minute}
	ctx := context.Background()

	a, _ := store.Take(ctx, "email:a", p)
	b, _ := store.Take(ctx, "email:b", p)
	again, _ := store.Take(ctx, "email:a", p)

	assert.True(t, a.Allowed)
	assert.True(t, b.Allowed)
	assert.False(t, again.Allowed)
}

func TestMemoryStore_Sweep(t *testing.T) {
	store, clock := newTestStore()
	ctx := context.Background()

	_, _ = store.Take(ctx, "short", Policy{Limit: 5, Window: time.Minute})
	_, _ = store.Take(ctx, "long", Policy{Limit: 5, Window: time.Hour})
	require.Equal(t, 2, store.Len())

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_ConcurrentNeverExceedsLimit(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Stop()
	p := Policy{Limit: 10, Window: time.Hour}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, _ := store.Take(context.Background(), "ip:1.2.3.4", p)
			if res.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, allowed)
}

func TestMemoryStore_StopIsIdempotent(t *testing.T) {
	store := NewMemoryStore(time.Millisecond)
	store.Stop()
	store.Stop()
}
