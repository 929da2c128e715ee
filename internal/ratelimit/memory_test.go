package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func newManualClock() *manualClock {
	return &manualClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestMemory_FixedWindow(t *testing.T) {
	t.Parallel()

	clock := newManualClock()
	m := NewMemory(3, time.Minute, WithClock(clock.Now))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := m.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2-i, res.Remaining)
		assert.Equal(t, 3, res.Limit)
	}

	clock.Advance(20 * time.Second)
	res, err := m.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Equal(t, 40*time.Second, res.RetryAfter)

	clock.Advance(41 * time.Second)
	res, err = m.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, res.Allowed, "an expired window starts over")
	assert.Equal(t, 2, res.Remaining)
}

func TestMemory_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	m := NewMemory(1, time.Minute)
	ctx := context.Background()

	res, _ := m.Allow(ctx, "a")
	assert.True(t, res.Allowed)
	res, _ = m.Allow(ctx, "a")
	assert.False(t, res.Allowed)
	res, _ = m.Allow(ctx, "b")
	assert.True(t, res.Allowed)
}

func TestMemory_SweepsExpiredWindows(t *testing.T) {
	t.Parallel()

	clock := newManualClock()
	m := NewMemory(5, time.Second, WithClock(clock.Now))
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, _ = m.Allow(ctx, fmt.Sprintf("10.0.0.%d", i))
	}
	assert.Equal(t, 10, m.Len())

	clock.Advance(2 * time.Second)
	_, _ = m.Allow(ctx, "10.0.0.99")
	assert.Equal(t, 1, m.Len())
}

func TestMemory_ConcurrentAllowNeverExceedsLimit(t *testing.T) {
	t.Parallel()

	m := NewMemory(25, time.Hour)
	ctx := context.Background()

	var allowed int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if res, _ := m.Allow(ctx, "shared"); res.Allowed {
				atomic.AddInt64(&allowed, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(25), allowed)
}

func TestRetryAfterSeconds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, RetryAfterSeconds(0))
	assert.Equal(t, 1, RetryAfterSeconds(300*time.Millisecond))
	assert.Equal(t, 2, RetryAfterSeconds(1500*time.Millisecond))
	assert.Equal(t, 40, RetryAfterSeconds(40*time.Second))
}
