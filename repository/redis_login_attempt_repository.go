package repository

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

type LoginAttemptRepositoryInterface interface {
	// Increment bumps the counter for key and returns the new value. The
	// counter expires window after its first hit.
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}

type RedisLoginAttemptRepository struct {
	client *redis.Client
}

func NewRedisLoginAttemptRepository(client *redis.Client) *RedisLoginAttemptRepository {
	return &RedisLoginAttemptRepository{client: client}
}

func generateKey(key string) string {
	return "login:" + key + ":attempts"
}

func (r *RedisLoginAttemptRepository) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := generateKey(key)
	count, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := r.client.Expire(ctx, k, window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (r *RedisLoginAttemptRepository) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, generateKey(key)).Err()
}
