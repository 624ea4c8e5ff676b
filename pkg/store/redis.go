package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash holding all mocks.
const DefaultRedisKey = "feignbridge:mocks"

// RedisConfig configures a Redis store.
type RedisConfig struct {
	// Client is the Redis client instance.
	Client *redis.Client

	// Key is the hash that holds signature -> JSON entries.
	// Default: "feignbridge:mocks"
	Key string
}

// Redis is a MockStore backed by a single Redis hash.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis creates a Redis store.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	if cfg.Client == nil {
		return nil, errors.New("redis client is required")
	}
	if cfg.Key == "" {
		cfg.Key = DefaultRedisKey
	}
	return &Redis{client: cfg.Client, key: cfg.Key}, nil
}

// DialRedis connects to addr and verifies the connection.
func DialRedis(ctx context.Context, addr, key string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return NewRedis(RedisConfig{Client: client, Key: key})
}

// Get retrieves the JSON text for signature.
func (s *Redis) Get(ctx context.Context, signature string) (string, error) {
	text, err := s.client.HGet(ctx, s.key, signature).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", signature, err)
	}
	return text, nil
}

// All returns every entry of the hash.
func (s *Redis) All(ctx context.Context) (map[string]string, error) {
	all, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("list mocks: %w", err)
	}
	return all, nil
}

// Put stores or replaces the JSON text for signature.
func (s *Redis) Put(ctx context.Context, signature, json string) error {
	if err := s.client.HSet(ctx, s.key, signature, json).Err(); err != nil {
		return fmt.Errorf("put %s: %w", signature, err)
	}
	return nil
}

// Remove deletes signature from the hash.
func (s *Redis) Remove(ctx context.Context, signature string) (bool, error) {
	n, err := s.client.HDel(ctx, s.key, signature).Result()
	if err != nil {
		return false, fmt.Errorf("remove %s: %w", signature, err)
	}
	return n > 0, nil
}

// Close closes the underlying client.
func (s *Redis) Close() error {
	return s.client.Close()
}

// Ensure Redis implements MockStore.
var _ MockStore = (*Redis)(nil)
