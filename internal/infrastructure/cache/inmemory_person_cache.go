package cache

import (
	"context"
	"sync"
	"time"

	"github.com/campusclear/backend/internal/domain/dues"
)

// personEntry represents a cached person with expiration
type personEntry struct {
	person    dues.Person
	expiresAt time.Time
}

// InMemoryPersonCache implements PersonCache using an in-memory map. This is
// suitable for single-instance deployments and testing.
type InMemoryPersonCache struct {
	mu        sync.RWMutex
	entries   map[string]personEntry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryPersonCache creates a new in-memory person cache. It starts a
// background goroutine to clean up expired entries.
func NewInMemoryPersonCache() *InMemoryPersonCache {
	cache := &InMemoryPersonCache{
		entries:  make(map[string]personEntry),
		stopChan: make(chan struct{}),
	}

	cache.wg.Add(1)
	go cache.cleanupLoop()

	return cache
}

func personKey(personType dues.PersonType, personID string) string {
	return string(personType) + ":" + personID
}

// Get returns the cached person, or (nil, nil) on a miss
func (c *InMemoryPersonCache) Get(ctx context.Context, personType dues.PersonType, personID string) (*dues.Person, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[personKey(personType, personID)]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, nil
	}

	person := e.person
	return &person, nil
}

// Set stores a person with the given TTL
func (c *InMemoryPersonCache) Set(ctx context.Context, person *dues.Person, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[personKey(person.Type, person.ID)] = personEntry{
		person:    *person,
		expiresAt: time.Now().Add(ttl),
	}

	return nil
}

// Invalidate removes a cached person
func (c *InMemoryPersonCache) Invalidate(ctx context.Context, personType dues.PersonType, personID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, personKey(personType, personID))
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemoryPersonCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (c *InMemoryPersonCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemoryPersonCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Size returns the number of entries in the cache (for testing/monitoring)
func (c *InMemoryPersonCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure InMemoryPersonCache implements PersonCache
var _ PersonCache = (*InMemoryPersonCache)(nil)
