package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumishop/shopadmin/internal/infrastructure/ratelimit"
	"github.com/lumishop/shopadmin/internal/shared/constants"
	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/logger"
	"github.com/lumishop/shopadmin/internal/shared/utils"
)

// RateLimiter limits requests per client IP with a shared fixed-window counter, so the
// limit holds across API instances.
type RateLimiter struct {
	counter ratelimit.Counter
	scope   string
	limit   int
	window  time.Duration
	logger  logger.Interface
}

// NewRateLimiter allows limit requests per window for each IP. scope separates the
// counters of different routes.
func NewRateLimiter(counter ratelimit.Counter, scope string, limit int, window time.Duration, logger logger.Interface) *RateLimiter {
	return &RateLimiter{
		counter: counter,
		scope:   scope,
		limit:   limit,
		window:  window,
		logger:  logger,
	}
}

// Limit returns a Gin middleware that enforces the rate limit per client IP.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + rl.scope + ":" + c.ClientIP()

		hit, err := rl.counter.Hit(c.Request.Context(), key, rl.limit, rl.window)
		if err != nil {
			// If Redis is unavailable, allow the request to avoid blocking all traffic
			rl.logger.Warnw("rate counter unavailable", "error", err, "scope", rl.scope)
			c.Next()
			return
		}

		if !hit.Allowed {
			retryAfter := int(time.Until(hit.ResetAt).Seconds()) + 1
			if retryAfter < 1 {
				retryAfter = 1
			}
			utils.AbortWithError(c, errors.NewRateLimitedError("rate limit exceeded, please try again later", retryAfter))
			return
		}

		c.Next()
	}
}

// Throttle applies an in-process token bucket per client IP.
func Throttle(limiter *ratelimit.IPLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			utils.AbortWithError(c, errors.NewRateLimitedError(constants.ErrMsgRateLimited, 1))
			return
		}
		c.Next()
	}
}
