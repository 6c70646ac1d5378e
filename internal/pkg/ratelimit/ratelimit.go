package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter bounds how often a keyed action may happen inside a fixed window.
type Limiter interface {
	// Allow records one occurrence for key and reports whether it stays
	// within the window's limit.
	Allow(ctx context.Context, key string) (bool, error)
}

// FixedWindow implements Limiter with a Redis counter per key.
//
// The first occurrence in a window creates the counter with the window's
// TTL; later occurrences only increment it. INCR keeps the count correct
// under concurrent requests for the same key.
type FixedWindow struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

// NewFixedWindow returns a Limiter allowing limit occurrences per window.
func NewFixedWindow(client *redis.Client, prefix string, limit int, window time.Duration) *FixedWindow {
	if prefix == "" {
		prefix = "ratelimit:"
	}
	if limit < 1 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}

	return &FixedWindow{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

func (l *FixedWindow) Allow(ctx context.Context, key string) (bool, error) {
	fk := l.prefix + key

	count, err := l.client.Incr(ctx, fk).Result()
	if err != nil {
		return false, err
	}

	if count == 1 {
		if err := l.client.Expire(ctx, fk, l.window).Err(); err != nil {
			return false, err
		}
	}

	return count <= int64(l.limit), nil
}
