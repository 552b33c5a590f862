// Package ratelimit counts requests in fixed windows. The Redis counter is shared by all
// API instances; the in-memory counter serves tests and single-node development.
package ratelimit

import (
	"context"
	"time"
)

// Result describes one counted hit.
type Result struct {
	Allowed   bool
	Limit     int
	Count     int64
	Remaining int
	// ResetAt is the end of the current window.
	ResetAt time.Time
}

// Counter counts one request for key in the current fixed window. The increment is the
// check: a request is allowed while the post-increment count is at most limit, and
// counts never decrease before the window resets.
type Counter interface {
	Hit(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

// windowBucket returns the index of the fixed window containing now and its end time.
func windowBucket(now time.Time, window time.Duration) (int64, time.Time) {
	seconds := int64(window / time.Second)
	if seconds <= 0 {
		seconds = 1
	}
	bucket := now.Unix() / seconds
	return bucket, time.Unix((bucket+1)*seconds, 0).UTC()
}

func newResult(count int64, limit int, resetAt time.Time) Result {
	remaining := int64(limit) - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= int64(limit),
		Limit:     limit,
		Count:     count,
		Remaining: int(remaining),
		ResetAt:   resetAt,
	}
}
