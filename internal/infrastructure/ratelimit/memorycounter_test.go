package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCounter_LimitN(t *testing.T) {
	counter := NewMemoryCounter()
	counter.now = fixedClock()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := counter.Hit(ctx, "k", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 3, res.Limit)
	}

	res, err := counter.Hit(ctx, "k", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, int64(4), res.Count)
}

func TestMemoryCounter_ResetsOnNewWindow(t *testing.T) {
	counter := NewMemoryCounter()
	now := time.Date(2025, 1, 15, 10, 0, 59, 0, time.UTC)
	counter.now = func() time.Time { return now }
	ctx := context.Background()

	_, _ = counter.Hit(ctx, "k", 1, time.Minute)
	res, _ := counter.Hit(ctx, "k", 1, time.Minute)
	require.False(t, res.Allowed)

	now = now.Add(2 * time.Second)
	res, err := counter.Hit(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, int64(1), res.Count)
}

func TestMemoryCounter_ConcurrentHitsNeverExceedLimit(t *testing.T) {
	counter := NewMemoryCounter()
	counter.now = fixedClock()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := counter.Hit(ctx, "k", 10, time.Minute)
			if err == nil && res.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, allowed)
}
