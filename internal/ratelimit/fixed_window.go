package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/stayware/stayflow/internal/config"
)

const keyPaymentRate = "payments:rate:%s"

// fixedWindowScript atomically checks the per-client counter against the
// limit and increments it. The first hit of a window creates the counter
// with the window TTL; hits at or above the limit are denied without a
// further increment.
const fixedWindowScript = `
local limit = tonumber(ARGV[1])
local ttl = tonumber(ARGV[2])

local count = tonumber(redis.call("GET", KEYS[1]) or "0")
if count == 0 then
  redis.call("SET", KEYS[1], 1, "PX", ttl)
  return 1
end
if count >= limit then
  return 0
end
redis.call("INCR", KEYS[1])
return 1
`

// Limiter is the consumer-facing contract; FixedWindow is its redis-backed
// implementation.
type Limiter interface {
	Allow(ctx context.Context, clientID string) (bool, error)
}

type scriptRunner interface {
	Run(ctx context.Context, keys []string, args ...interface{}) (interface{}, error)
}

type redisRunner struct {
	client *redis.Client
	script *redis.Script
}

func (r redisRunner) Run(ctx context.Context, keys []string, args ...interface{}) (interface{}, error) {
	return r.script.Run(ctx, r.client, keys, args...).Result()
}

// FixedWindow is a per-client fixed-window request counter backed by redis,
// so it behaves the same across multiple service instances.
type FixedWindow struct {
	runner scriptRunner
	limit  int
	window time.Duration
}

func NewFixedWindow(client *redis.Client, limit int, window time.Duration) (*FixedWindow, error) {
	if client == nil {
		return nil, errors.New("rate limiter redis client is required")
	}
	if limit <= 0 {
		return nil, errors.New("rate limiter limit must be positive")
	}
	if window <= 0 {
		return nil, errors.New("rate limiter window must be positive")
	}
	return &FixedWindow{
		runner: redisRunner{client: client, script: redis.NewScript(fixedWindowScript)},
		limit:  limit,
		window: window,
	}, nil
}

// NewPaymentLimiter builds the limiter gating payment endpoints.
func NewPaymentLimiter(cfg config.Config, client *redis.Client) (*FixedWindow, error) {
	return NewFixedWindow(client, cfg.RateLimit.Attempts, cfg.RateLimit.Window)
}

// Allow reports whether the client identified by clientID may proceed
// within the current window.
func (f *FixedWindow) Allow(ctx context.Context, clientID string) (bool, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return false, errors.New("rate limiter client id is empty")
	}

	res, err := f.runner.Run(
		ctx,
		[]string{fmt.Sprintf(keyPaymentRate, clientID)},
		f.limit,
		int64(f.window/time.Millisecond),
	)
	if err != nil {
		return false, err
	}

	allowed, ok := res.(int64)
	if !ok {
		return false, errors.New("invalid rate limit script response")
	}
	return allowed == 1, nil
}
