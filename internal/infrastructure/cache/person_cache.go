// Package cache provides read-through caching for the campus directory.
// Directory records change rarely, so lookups made on every due creation are
// served from cache with a short TTL.
package cache

import (
	"context"
	"time"

	"github.com/campusclear/backend/internal/domain/dues"
)

// DefaultPersonTTL is how long a resolved person stays cached
const DefaultPersonTTL = 10 * time.Minute

// PersonCache stores resolved directory records keyed by person type and ID
type PersonCache interface {
	// Get returns the cached person, or (nil, nil) on a miss
	Get(ctx context.Context, personType dues.PersonType, personID string) (*dues.Person, error)

	// Set stores a person with the given TTL
	Set(ctx context.Context, person *dues.Person, ttl time.Duration) error

	// Invalidate removes a cached person
	Invalidate(ctx context.Context, personType dues.PersonType, personID string) error
}

// CachedPersonDirectory decorates a PersonDirectory with read-through caching.
// Cache failures degrade to direct directory lookups, never to request errors.
type CachedPersonDirectory struct {
	inner dues.PersonDirectory
	cache PersonCache
	ttl   time.Duration
}

// NewCachedPersonDirectory wraps the given directory with the given cache
func NewCachedPersonDirectory(inner dues.PersonDirectory, cache PersonCache, ttl time.Duration) *CachedPersonDirectory {
	if ttl <= 0 {
		ttl = DefaultPersonTTL
	}
	return &CachedPersonDirectory{
		inner: inner,
		cache: cache,
		ttl:   ttl,
	}
}

// FindPerson returns the cached person when present, otherwise resolves it
// through the underlying directory and caches the result
func (d *CachedPersonDirectory) FindPerson(ctx context.Context, personType dues.PersonType, personID string) (*dues.Person, error) {
	if cached, err := d.cache.Get(ctx, personType, personID); err == nil && cached != nil {
		return cached, nil
	}

	person, err := d.inner.FindPerson(ctx, personType, personID)
	if err != nil {
		return nil, err
	}

	// Best effort: a failed write only costs the next lookup
	_ = d.cache.Set(ctx, person, d.ttl)

	return person, nil
}

// Ensure CachedPersonDirectory implements PersonDirectory
var _ dues.PersonDirectory = (*CachedPersonDirectory)(nil)
