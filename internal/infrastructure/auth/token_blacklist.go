package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist defines the interface for token revocation.
// It is used to invalidate JWT tokens before they expire (e.g., on logout)
type TokenBlacklist interface {
	// AddToBlacklist adds a token's JTI (JWT ID) to the blacklist.
	// ttl should be set to the remaining time until token expiration
	AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error

	// IsBlacklisted checks if a token's JTI is in the blacklist
	IsBlacklisted(ctx context.Context, jti string) (bool, error)

	// AddOperatorTokensToBlacklist blacklists all tokens for an operator
	// (force logout all sessions). Tokens issued before the stored timestamp
	// are invalid
	AddOperatorTokensToBlacklist(ctx context.Context, operatorID string, ttl time.Duration) error

	// IsOperatorTokenInvalidated checks if a token issued at the given time
	// predates the operator's invalidation timestamp
	IsOperatorTokenInvalidated(ctx context.Context, operatorID string, tokenIssuedAt time.Time) (bool, error)
}

// RedisTokenBlacklist implements TokenBlacklist using Redis
type RedisTokenBlacklist struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisTokenBlacklist creates a Redis-based token blacklist on a dedicated client
func NewRedisTokenBlacklist(addr, password string, db int) (*RedisTokenBlacklist, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis for token blacklist: %w", err)
	}

	return NewRedisTokenBlacklistWithClient(client), nil
}

// NewRedisTokenBlacklistWithClient creates a token blacklist with an existing Redis client
func NewRedisTokenBlacklistWithClient(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{
		client:    client,
		keyPrefix: "token:blacklist:",
	}
}

// jtiKey returns the Redis key for a JTI
func (b *RedisTokenBlacklist) jtiKey(jti string) string {
	return b.keyPrefix + "jti:" + jti
}

// operatorKey returns the Redis key for operator token invalidation
func (b *RedisTokenBlacklist) operatorKey(operatorID string) string {
	return b.keyPrefix + "operator:" + operatorID
}

// AddToBlacklist adds a token's JTI to the blacklist
func (b *RedisTokenBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	key := b.jtiKey(jti)

	if err := b.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}

	return nil
}

// IsBlacklisted checks if a token's JTI is in the blacklist
func (b *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	key := b.jtiKey(jti)

	exists, err := b.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}

	return exists > 0, nil
}

// AddOperatorTokensToBlacklist invalidates all tokens for an operator by
// storing the current timestamp. Any token issued before this timestamp is
// considered invalid
func (b *RedisTokenBlacklist) AddOperatorTokensToBlacklist(ctx context.Context, operatorID string, ttl time.Duration) error {
	key := b.operatorKey(operatorID)

	invalidationTime := time.Now().Unix()
	if err := b.client.Set(ctx, key, invalidationTime, ttl).Err(); err != nil {
		return fmt.Errorf("failed to invalidate operator tokens: %w", err)
	}

	return nil
}

// IsOperatorTokenInvalidated checks if a token was issued before the
// operator's invalidation timestamp
func (b *RedisTokenBlacklist) IsOperatorTokenInvalidated(ctx context.Context, operatorID string, tokenIssuedAt time.Time) (bool, error) {
	key := b.operatorKey(operatorID)

	invalidationTimeStr, err := b.client.Get(ctx, key).Result()
	if err == redis.Nil {
		// No invalidation timestamp, token is valid
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check operator token invalidation: %w", err)
	}

	var invalidationTime int64
	if _, err = fmt.Sscanf(invalidationTimeStr, "%d", &invalidationTime); err != nil {
		return false, fmt.Errorf("failed to parse invalidation timestamp: %w", err)
	}

	return tokenIssuedAt.Unix() <= invalidationTime, nil
}

// Close closes the Redis client
func (b *RedisTokenBlacklist) Close() error {
	return b.client.Close()
}

// Ensure RedisTokenBlacklist implements TokenBlacklist
var _ TokenBlacklist = (*RedisTokenBlacklist)(nil)

// InMemoryTokenBlacklist provides an in-memory implementation for testing.
// WARNING: not suitable for production with multiple instances
type InMemoryTokenBlacklist struct {
	mu                        sync.RWMutex
	jtiBlacklist              map[string]time.Time // JTI -> expiration time
	operatorInvalidationTimes map[string]time.Time // operatorID -> invalidation time
}

// NewInMemoryTokenBlacklist creates a new in-memory token blacklist
func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		jtiBlacklist:              make(map[string]time.Time),
		operatorInvalidationTimes: make(map[string]time.Time),
	}
}

// AddToBlacklist adds a token's JTI to the in-memory blacklist
func (b *InMemoryTokenBlacklist) AddToBlacklist(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.jtiBlacklist[jti] = time.Now().Add(ttl)
	return nil
}

// IsBlacklisted checks if a token's JTI is blacklisted (and not expired)
func (b *InMemoryTokenBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	expiration, exists := b.jtiBlacklist[jti]
	if !exists {
		return false, nil
	}

	if time.Now().After(expiration) {
		delete(b.jtiBlacklist, jti)
		return false, nil
	}

	return true, nil
}

// AddOperatorTokensToBlacklist invalidates all tokens for an operator
func (b *InMemoryTokenBlacklist) AddOperatorTokensToBlacklist(_ context.Context, operatorID string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.operatorInvalidationTimes[operatorID] = time.Now()
	return nil
}

// IsOperatorTokenInvalidated checks if a token was issued before the operator's invalidation timestamp
func (b *InMemoryTokenBlacklist) IsOperatorTokenInvalidated(_ context.Context, operatorID string, tokenIssuedAt time.Time) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	invalidationTime, exists := b.operatorInvalidationTimes[operatorID]
	if !exists {
		return false, nil
	}

	// UnixNano for sub-second precision in testing
	return tokenIssuedAt.UnixNano() <= invalidationTime.UnixNano(), nil
}

// Ensure InMemoryTokenBlacklist implements TokenBlacklist
var _ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)
