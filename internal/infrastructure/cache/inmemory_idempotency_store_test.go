package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore(t *testing.T) (*InMemoryIdempotencyStore, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)}
	store := newInMemoryIdempotencyStore(time.Hour, clock.Now)
	t.Cleanup(func() { _ = store.Close() })
	return store, clock
}

func TestInMemoryIdempotencyStore_ClaimLifecycle(t *testing.T) {
	store, clock := newTestStore(t)
	ctx := context.Background()

	claimed, err := store.MarkProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = store.MarkProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, claimed)

	processed, err := store.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, processed)

	clock.Advance(time.Minute)

	processed, err = store.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, processed)

	claimed, err = store.MarkProcessed(ctx, "evt-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestInMemoryIdempotencyStore_Release(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "evt-1", time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, "evt-1"))
	require.NoError(t, store.Release(ctx, "never-claimed"))

	claimed, err := store.MarkProcessed(ctx, "evt-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestInMemoryIdempotencyStore_SweepDropsExpired(t *testing.T) {
	store, clock := newTestStore(t)
	ctx := context.Background()

	_, _ = store.MarkProcessed(ctx, "short", time.Second)
	_, _ = store.MarkProcessed(ctx, "long", time.Hour)
	clock.Advance(time.Minute)

	store.sweep()

	assert.Equal(t, 1, store.Size())
}

func TestInMemoryIdempotencyStore_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := store.MarkProcessed(ctx, "shared", time.Hour)
			assert.NoError(t, err, fmt.Sprintf("goroutine %d", i))
			if claimed {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
}

func TestInMemoryIdempotencyStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
