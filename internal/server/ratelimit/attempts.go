// Package ratelimit throttles repeated verification attempts per subject
// using Redis fixed windows.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bvchub/internal/common"
	"github.com/redis/go-redis/v9"
)

// AttemptLimiter allows at most max attempts per key within window. A nil
// *AttemptLimiter allows everything.
type AttemptLimiter struct {
	rdb    redis.Cmdable
	prefix string
	max    int
	window time.Duration
}

func NewAttemptLimiter(rdb redis.Cmdable, prefix string, max int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{rdb: rdb, prefix: prefix, max: max, window: window}
}

func (l *AttemptLimiter) key(subject string) string {
	return fmt.Sprintf("%s:attempts:%s", l.prefix, subject)
}

// Allow records one attempt for subject and returns common.ErrRateLimited
// once the budget for the current window is spent.
func (l *AttemptLimiter) Allow(ctx context.Context, subject string) error {
	if l == nil || l.max <= 0 {
		return nil
	}

	key := l.key(subject)

	// every hit sets a missing TTL in the same transaction as the increment
	var incr *redis.IntCmd
	if _, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, l.window)
		return nil
	}); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	n := incr.Val()

	if n > int64(l.max) {
		return common.ErrRateLimited
	}
	return nil
}

// Reset clears the counter for subject, e.g. after a successful verification.
func (l *AttemptLimiter) Reset(ctx context.Context, subject string) error {
	if l == nil {
		return nil
	}
	if err := l.rdb.Del(ctx, l.key(subject)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}
