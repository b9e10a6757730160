package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisNamespace prefixes every key written by RedisCache.
const DefaultRedisNamespace = "treeprint:"

// RedisOptions configures NewRedisCache.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	Namespace string // defaults to DefaultRedisNamespace
	Attempts  int    // connection attempts, defaults to 3
}

// RedisCache stores entries in Redis. Keys are namespaced so Clear only
// touches entries this cache wrote.
type RedisCache struct {
	client    *redis.Client
	namespace string
}

// NewRedisCache connects to Redis and verifies the server responds,
// retrying the initial ping with backoff.
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	if opts.Namespace == "" {
		opts.Namespace = DefaultRedisNamespace
	}
	if opts.Attempts <= 0 {
		opts.Attempts = 3
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	err := RetryWithBackoff(ctx, opts.Attempts, func() error {
		if err := client.Ping(ctx).Err(); err != nil {
			return Retryable(fmt.Errorf("%w: %s: %v", ErrUnavailable, opts.Addr, err))
		}
		return nil
	})
	if err != nil {
		client.Close()
		return nil, err
	}
	return NewRedisCacheFromClient(client, opts.Namespace), nil
}

// NewRedisCacheFromClient wraps an existing client without pinging it.
func NewRedisCacheFromClient(client *redis.Client, namespace string) *RedisCache {
	return &RedisCache{client: client, namespace: namespace}
}

func (c *RedisCache) key(k string) string { return c.namespace + k }

// Get retrieves a value from Redis.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value with the given expiry.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return c.client.Set(ctx, c.key(key), data, ttl).Err()
}

// Delete removes a value.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

// Clear deletes every key in the namespace.
func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.namespace+"*", 256).Iterator()
	batch := make([]string, 0, 256)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return c.client.Del(ctx, batch...).Err()
	}
	return nil
}

// Close closes the client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ Cache = (*RedisCache)(nil)
