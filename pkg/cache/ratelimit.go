package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript increments the counter for the current window and starts its expiry on the
// first hit. It returns the count and the remaining window in milliseconds.
var fixedWindowScript = redis.NewScript(`
local current = redis.call('INCR', KEYS[1])
if current == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
return {current, ttl}
`)

// RateDecision reports the outcome of a limiter check.
type RateDecision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter is a redis fixed-window request limiter.
type RateLimiter struct {
	client redis.Scripter
	prefix string
	limit  int
	window time.Duration
}

// NewRateLimiter builds a limiter allowing limit hits per window for each key.
func NewRateLimiter(client redis.Scripter, prefix string, limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 20
	}
	if window <= 0 {
		window = time.Minute
	}
	if prefix == "" {
		prefix = "rate_limit"
	}
	return &RateLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

// Allow counts one hit for key. A limiter without a client allows everything.
func (l *RateLimiter) Allow(ctx context.Context, key string) (RateDecision, error) {
	if l == nil || l.client == nil {
		return RateDecision{Allowed: true}, nil
	}

	res, err := fixedWindowScript.Run(ctx, l.client, []string{l.key(key)}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return RateDecision{}, fmt.Errorf("rate limit %s: %w", key, err)
	}
	if len(res) != 2 {
		return RateDecision{}, fmt.Errorf("rate limit %s: unexpected reply %v", key, res)
	}

	count, ttl := int(res[0]), time.Duration(res[1])*time.Millisecond
	if ttl < 0 {
		ttl = l.window
	}
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return RateDecision{
		Allowed:    count <= l.limit,
		Remaining:  remaining,
		RetryAfter: ttl,
	}, nil
}

// Limit returns the configured hits per window.
func (l *RateLimiter) Limit() int {
	if l == nil {
		return 0
	}
	return l.limit
}

func (l *RateLimiter) key(key string) string {
	return l.prefix + ":" + key
}
