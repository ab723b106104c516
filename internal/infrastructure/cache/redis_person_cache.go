package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/campusclear/backend/internal/domain/dues"
	"github.com/redis/go-redis/v9"
)

// RedisPersonCache implements PersonCache using Redis. This is suitable for
// distributed deployments where multiple instances share directory lookups.
type RedisPersonCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisPersonCache creates a Redis-backed person cache and verifies the
// connection
func NewRedisPersonCache(addr, password string, db int) (*RedisPersonCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisPersonCache{
		client:    client,
		keyPrefix: "directory:person:",
	}, nil
}

// NewRedisPersonCacheWithClient creates a cache with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisPersonCacheWithClient(client *redis.Client, keyPrefix string) *RedisPersonCache {
	if keyPrefix == "" {
		keyPrefix = "directory:person:"
	}
	return &RedisPersonCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (c *RedisPersonCache) key(personType dues.PersonType, personID string) string {
	return c.keyPrefix + string(personType) + ":" + personID
}

// Get returns the cached person, or (nil, nil) on a miss
func (c *RedisPersonCache) Get(ctx context.Context, personType dues.PersonType, personID string) (*dues.Person, error) {
	payload, err := c.client.Get(ctx, c.key(personType, personID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached person: %w", err)
	}

	var person dues.Person
	if err := json.Unmarshal(payload, &person); err != nil {
		// A corrupt entry is treated as a miss
		return nil, nil
	}

	return &person, nil
}

// Set stores a person with the given TTL
func (c *RedisPersonCache) Set(ctx context.Context, person *dues.Person, ttl time.Duration) error {
	payload, err := json.Marshal(person)
	if err != nil {
		return fmt.Errorf("failed to encode person: %w", err)
	}

	if err := c.client.Set(ctx, c.key(person.Type, person.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache person: %w", err)
	}

	return nil
}

// Invalidate removes a cached person
func (c *RedisPersonCache) Invalidate(ctx context.Context, personType dues.PersonType, personID string) error {
	if err := c.client.Del(ctx, c.key(personType, personID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached person: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisPersonCache) Close() error {
	return c.client.Close()
}

// Ensure RedisPersonCache implements PersonCache
var _ PersonCache = (*RedisPersonCache)(nil)
