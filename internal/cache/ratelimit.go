package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/userdir/userdir/internal/ratelimit"
)

// rateLimitIPPrefix is the Redis key prefix for client rate limit windows.
const rateLimitIPPrefix = "ratelimit:ip:"

// fixedWindowScript counts a request in the current window. The first
// request of a window sets its expiry. Returns {count, ttl_ms}.
var fixedWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local window_ms = tonumber(ARGV[1])

	local count = redis.call('INCR', key)
	if count == 1 then
		redis.call('PEXPIRE', key, window_ms)
	end

	local ttl = redis.call('PTTL', key)
	if ttl < 0 then
		redis.call('PEXPIRE', key, window_ms)
		ttl = window_ms
	end

	return {count, ttl}
`)

// RateLimiter is a fixed-window limiter whose counters live in Redis, so
// every process behind the same Redis shares one budget per client.
type RateLimiter struct {
	cache  *Cache
	limit  int
	period time.Duration
}

// NewRateLimiter creates a limiter allowing limit requests per period.
func NewRateLimiter(c *Cache, limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{cache: c, limit: limit, period: period}
}

// Allow implements ratelimit.Limiter. Client addresses are hashed before
// they are used as keys.
func (l *RateLimiter) Allow(ctx context.Context, key string) (ratelimit.Result, error) {
	redisKey := l.cache.key(rateLimitIPPrefix, hashIP(key))

	vals, err := fixedWindowScript.Run(ctx, l.cache.client,
		[]string{redisKey},
		l.period.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return ratelimit.Result{}, fmt.Errorf("rate limit script: %w", err)
	}

	return windowResult(l.limit, vals[0], time.Duration(vals[1])*time.Millisecond, time.Now()), nil
}

// windowResult converts the script's counter and TTL into a Result.
func windowResult(limit int, count int64, ttl time.Duration, now time.Time) ratelimit.Result {
	res := ratelimit.Result{
		Allowed:   count <= int64(limit),
		Limit:     limit,
		Remaining: limit - int(count),
		ResetAt:   now.Add(ttl),
	}
	if res.Remaining < 0 {
		res.Remaining = 0
	}
	if !res.Allowed {
		res.RetryAfter = ttl
	}
	return res
}

// hashIP creates a truncated SHA256 hash of an IP address.
// This provides privacy while maintaining uniqueness.
func hashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:8]) // 16 hex chars
}
