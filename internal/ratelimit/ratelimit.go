// Package ratelimit defines fixed-window rate limiting.
//
// A window opens on the first request for a key and lasts for the
// configured duration. Requests beyond the limit are rejected until the
// window expires, after which the next request opens a fresh window.
package ratelimit

import (
	"context"
	"time"
)

// Result contains the outcome of a rate limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Limiter checks and records one request for key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// RetryAfterSeconds rounds d up to whole seconds, never below one.
func RetryAfterSeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}
