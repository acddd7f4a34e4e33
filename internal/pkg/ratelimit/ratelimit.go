// Package ratelimit throttles repeated login attempts. Counters live in
// Redis so that several API instances share them; without Redis every
// attempt is allowed.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "campusportal:login:"

// Limiter counts attempts per key inside a fixed window.
type Limiter interface {
	// Allow records an attempt for key and reports whether it is within the limit.
	Allow(ctx context.Context, key string) (bool, error)
	// Reset clears the counter for key.
	Reset(ctx context.Context, key string) error
}

// New returns a Redis-backed limiter, or a no-op limiter when client is nil.
func New(client *redis.Client, limit int, window time.Duration) Limiter {
	if client == nil {
		return Nop{}
	}
	return &RedisLimiter{client: client, limit: limit, window: window}
}

// RedisLimiter is a fixed-window counter stored under one key per subject.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// Allow creates the counter with its TTL and increments it in one MULTI, so
// a counter never exists without an expiry.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := keyPrefix + key
	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, k, 0, l.window)
		incr = pipe.Incr(ctx, k)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("ratelimit incr: %w", err)
	}
	return incr.Val() <= int64(l.limit), nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("ratelimit reset: %w", err)
	}
	return nil
}

// Nop allows every attempt.
type Nop struct{}

func (Nop) Allow(context.Context, string) (bool, error) { return true, nil }
func (Nop) Reset(context.Context, string) error         { return nil }

// Connect builds a client for addr and verifies it with PING.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}
