package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/nikolayk812/floating-cart/internal/port"
)

type redisStore struct {
	client *redis.Client
}

// NewRedis returns a KeyValueStore backed by plain redis strings.
func NewRedis(client *redis.Client) (port.KeyValueStore, error) {
	if client == nil {
		return nil, fmt.Errorf("client is nil")
	}

	return &redisStore{
		client: client,
	}, nil
}

func (r *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("client.Get: %w", err)
	}

	return value, nil
}

func (r *redisStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}

	return nil
}
