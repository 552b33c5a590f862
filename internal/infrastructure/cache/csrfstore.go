package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lumishop/shopadmin/internal/application/csrf"
)

const defaultCSRFPrefix = "csrf:session:"

// RedisCSRFStore keeps one CSRF entry per browser session.
type RedisCSRFStore struct {
	client *redis.Client
	prefix string
}

func NewRedisCSRFStore(client *redis.Client) *RedisCSRFStore {
	return &RedisCSRFStore{
		client: client,
		prefix: defaultCSRFPrefix,
	}
}

func (s *RedisCSRFStore) Get(ctx context.Context, sessionID string) (*csrf.Entry, error) {
	data, err := s.client.Get(ctx, s.buildKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get csrf entry from redis: %w", err)
	}

	var entry csrf.Entry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal csrf entry: %w", err)
	}
	return &entry, nil
}

func (s *RedisCSRFStore) Put(ctx context.Context, sessionID string, entry csrf.Entry, ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal csrf entry: %w", err)
	}

	if err := s.client.Set(ctx, s.buildKey(sessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store csrf entry in redis: %w", err)
	}
	return nil
}

func (s *RedisCSRFStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.buildKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete csrf entry from redis: %w", err)
	}
	return nil
}

func (s *RedisCSRFStore) buildKey(sessionID string) string {
	return s.prefix + sessionID
}

// MemoryCSRFStore is a process-local store for tests and single-instance development.
type MemoryCSRFStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	entry    csrf.Entry
	deadline time.Time
}

func NewMemoryCSRFStore() *MemoryCSRFStore {
	return &MemoryCSRFStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryCSRFStore) Get(_ context.Context, sessionID string) (*csrf.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionID]
	if !ok {
		return nil, nil
	}
	if !e.deadline.IsZero() && !s.now().Before(e.deadline) {
		delete(s.entries, sessionID)
		return nil, nil
	}
	entry := e.entry
	return &entry, nil
}

func (s *MemoryCSRFStore) Put(_ context.Context, sessionID string, entry csrf.Entry, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deadline time.Time
	if ttl > 0 {
		deadline = s.now().Add(ttl)
	}
	s.entries[sessionID] = memoryEntry{entry: entry, deadline: deadline}
	return nil
}

func (s *MemoryCSRFStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}
