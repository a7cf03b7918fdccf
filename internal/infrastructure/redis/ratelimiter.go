package redis

import (
	"context"
	"fmt"
	"time"
)

// incrWithWindow atomically bumps the counter and arms the window expiry
// on the first hit. Returns {count, pttl_ms}.
const incrWithWindow = `
local c = redis.call("INCR", KEYS[1])
if c == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {c, ttl}
`

// FixedWindowLimiter counts requests per key inside a fixed window.
// Callers build the key from identity, route and window bucket; the
// limiter only increments and compares.
type FixedWindowLimiter struct {
	client *Client
}

// NewFixedWindowLimiter accepts a nil client; the limiter then allows
// everything, so losing Redis never locks users out of login.
func NewFixedWindowLimiter(c *Client) *FixedWindowLimiter {
	return &FixedWindowLimiter{client: c}
}

// Decision reports the outcome of a single rate limit check.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration // zero when allowed
	ResetAt    time.Time     // window end, best effort
	Count      int
}

func allowAll(limit int) Decision {
	return Decision{Allowed: true, Limit: limit, Remaining: limit}
}

// AllowFixedWindow checks key against limit inside window. A
// non-positive limit disables the check, a non-positive window falls
// back to one minute.
func (l *FixedWindowLimiter) AllowFixedWindow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	if limit <= 0 {
		return allowAll(limit), nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if l.client == nil || l.client.rdb == nil {
		return allowAll(limit), nil
	}

	res, err := l.client.rdb.Eval(ctx, incrWithWindow, []string{key}, window.Milliseconds()).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit redis eval: %w", err)
	}

	arr, ok := res.([]any)
	if !ok || len(arr) != 2 {
		return Decision{}, fmt.Errorf("ratelimit redis eval: unexpected result shape %T", res)
	}
	count := int(arr[0].(int64))
	ttl := time.Duration(arr[1].(int64)) * time.Millisecond

	d := Decision{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: limit - count,
		Count:     count,
		ResetAt:   time.Now().Add(ttl),
	}
	if d.Remaining < 0 {
		d.Remaining = 0
	}
	if !d.Allowed {
		d.RetryAfter = ttl
		if d.RetryAfter <= 0 {
			d.RetryAfter = window
		}
	}
	return d, nil
}
