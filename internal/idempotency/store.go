package idempotency

import (
	"context"
	"errors"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// Store records short-lived membership markers. MarkIfFirst is atomic: when
// two concurrent callers present the same key, exactly one observes true.
type Store interface {
	MarkIfFirst(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("idempotency redis client is required")
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) MarkIfFirst(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return false, errors.New("idempotency key is empty")
	}
	if ttl <= 0 {
		return false, errors.New("idempotency ttl must be positive")
	}
	return s.client.SetNX(ctx, key, "1", ttl).Result()
}

func provideStore(client *redis.Client) (Store, error) {
	return NewRedisStore(client)
}

var Module = fx.Module("idempotency",
	fx.Provide(provideStore),
)
