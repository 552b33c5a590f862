package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrWithExpiryScript increments a window counter and gives it an expiry in the same step.
// A key that somehow lost its expiry gets one again instead of counting forever.
// KEYS[1] = counter key
// ARGV[1] = expiry in milliseconds
// Returns the counter value after the increment
var incrWithExpiryScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if redis.call('PTTL', KEYS[1]) < 0 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return count
`)

// RedisCounter implements Counter with an atomic INCR plus expiry on a per-window key.
type RedisCounter struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisCounter(client *redis.Client, prefix string) *RedisCounter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisCounter{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

func (r *RedisCounter) Hit(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	bucket, resetAt := windowBucket(r.now(), window)
	redisKey := fmt.Sprintf("%s:%s:%d", r.prefix, key, bucket)
	ttl := window + time.Second

	count, err := incrWithExpiryScript.Run(ctx, r.client, []string{redisKey}, ttl.Milliseconds()).Int64()
	if err != nil {
		return Result{}, fmt.Errorf("failed to increment rate counter: %w", err)
	}

	return newResult(count, limit, resetAt), nil
}
