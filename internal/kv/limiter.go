// Package kv holds the Redis-backed attempt counters used to throttle
// credential endpoints.
package kv

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter counts attempts per key in a fixed window. A Limiter without a
// client allows everything.
type Limiter struct {
	client redis.Cmdable
	prefix string
	limit  int64
	window time.Duration
}

func NewLimiter(client redis.Cmdable, prefix string, limit int64, window time.Duration) *Limiter {
	return &Limiter{client: client, prefix: prefix, limit: limit, window: window}
}

// NewClient opens a Redis client and checks it answers.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func (l *Limiter) key(id string) string {
	return l.prefix + ":" + id
}

// Allow registers one attempt for id and reports whether it is within the limit.
func (l *Limiter) Allow(ctx context.Context, id string) (bool, error) {
	if l == nil || l.client == nil {
		return true, nil
	}
	pipe := l.client.Pipeline()
	incr := pipe.Incr(ctx, l.key(id))
	pipe.Expire(ctx, l.key(id), l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, err
	}
	return incr.Val() <= l.limit, nil
}

// Reset forgets the attempts recorded for id.
func (l *Limiter) Reset(ctx context.Context, id string) error {
	if l == nil || l.client == nil {
		return nil
	}
	return l.client.Del(ctx, l.key(id)).Err()
}
