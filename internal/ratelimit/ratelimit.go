// Package ratelimit implements a fixed-window request limiter backed by Redis,
// so that every API instance shares the same counters.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type Limiter struct {
	client redis.Cmdable
	limit  int
	window time.Duration
	now    func() time.Time
}

func New(client redis.Cmdable, limit int, window time.Duration) *Limiter {
	return &Limiter{client: client, limit: limit, window: window, now: time.Now}
}

// Allow counts one request for subject in the current window. The counter
// key expires with the window.
func (l *Limiter) Allow(ctx context.Context, subject string) (Result, error) {
	now := l.now()
	windowStart := now.Truncate(l.window)
	key := fmt.Sprintf("%s%s:%d", keyPrefix, subject, windowStart.Unix())

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{Allowed: true, Limit: l.limit, Remaining: l.limit}, fmt.Errorf("rate limit %s: %w", subject, err)
	}

	count := int(incr.Val())
	res := Result{Allowed: count <= l.limit, Limit: l.limit, Remaining: l.limit - count}
	if res.Remaining < 0 {
		res.Remaining = 0
	}
	if !res.Allowed {
		res.RetryAfter = windowStart.Add(l.window).Sub(now)
	}
	return res, nil
}
