package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryCounter is a process-local Counter.
type MemoryCounter struct {
	mu      sync.Mutex
	buckets map[string]memoryBucket
	now     func() time.Time
}

type memoryBucket struct {
	index int64
	count int64
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{
		buckets: make(map[string]memoryBucket),
		now:     time.Now,
	}
}

func (m *MemoryCounter) Hit(_ context.Context, key string, limit int, window time.Duration) (Result, error) {
	index, resetAt := windowBucket(m.now(), window)

	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.buckets[key]
	if b.index != index {
		b = memoryBucket{index: index}
	}
	b.count++
	m.buckets[key] = b

	return newResult(b.count, limit, resetAt), nil
}
