package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const snapshotKeyPrefix = "cart:snapshot:"

// RedisSnapshots stores cart snapshots in Redis with a TTL.
type RedisSnapshots struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSnapshots constructs the snapshotter.
func NewRedisSnapshots(client *redis.Client, ttl time.Duration) *RedisSnapshots {
	return &RedisSnapshots{client: client, ttl: ttl}
}

func (r *RedisSnapshots) Load(ctx context.Context, key string) (string, bool, error) {
	raw, err := r.client.Get(ctx, snapshotKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cart: load snapshot: %w", err)
	}
	return raw, true, nil
}

func (r *RedisSnapshots) Save(ctx context.Context, key string, payload string) error {
	if err := r.client.Set(ctx, snapshotKeyPrefix+key, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("cart: save snapshot: %w", err)
	}
	return nil
}
