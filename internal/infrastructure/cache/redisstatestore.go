package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lumishop/shopadmin/internal/shared/biztime"
)

// ErrStateNotFound is returned for unknown, expired or already consumed OAuth states.
var ErrStateNotFound = errors.New("state not found or expired")

// StateInfo is what the login flow remembers between the redirect and the callback.
type StateInfo struct {
	CodeVerifier string    `json:"code_verifier"`
	RedirectTo   string    `json:"redirect_to,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// RedisStateStore keeps OAuth states in Redis for a short TTL
type RedisStateStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStateStore creates a store with keys "<prefix><state>". A ttl of 10 minutes is typical.
func NewRedisStateStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStateStore {
	if prefix == "" {
		prefix = "oauth:state:"
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisStateStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *RedisStateStore) Set(ctx context.Context, state string, info StateInfo) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if info.CodeVerifier == "" {
		return errors.New("code_verifier cannot be empty")
	}
	if info.CreatedAt.IsZero() {
		info.CreatedAt = biztime.NowUTC()
	}

	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal state info: %w", err)
	}

	if err := s.client.Set(ctx, s.buildKey(state), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store state in redis: %w", err)
	}
	return nil
}

// VerifyAndGet consumes the state. GETDEL makes each state usable exactly once.
func (s *RedisStateStore) VerifyAndGet(ctx context.Context, state string) (*StateInfo, error) {
	if state == "" {
		return nil, ErrStateNotFound
	}

	data, err := s.client.GetDel(ctx, s.buildKey(state)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to retrieve state from redis: %w", err)
	}

	var info StateInfo
	if err := json.Unmarshal([]byte(data), &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state info: %w", err)
	}
	return &info, nil
}

func (s *RedisStateStore) buildKey(state string) string {
	return s.prefix + state
}
