package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/zatekoja/placeviewer/internal/domain/providers"
)

// MemoryAdapter implements the CacheProvider interface in process memory.
// It backs the geocode cache when Redis is disabled.
type MemoryAdapter struct {
	store *gocache.Cache
}

// NewMemoryAdapter creates an in-memory cache that sweeps expired entries
// every cleanupInterval.
func NewMemoryAdapter(cleanupInterval time.Duration) providers.CacheProvider {
	return &MemoryAdapter{
		store: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

// Get retrieves a value from cache
func (a *MemoryAdapter) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := a.store.Get(key)
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	data, ok := value.([]byte)
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Set stores a copy of value; zero or negative seconds keep it until deleted
func (a *MemoryAdapter) Set(_ context.Context, key string, value []byte, expirationSeconds int) error {
	expiration := gocache.NoExpiration
	if expirationSeconds > 0 {
		expiration = time.Duration(expirationSeconds) * time.Second
	}
	data := make([]byte, len(value))
	copy(data, value)
	a.store.Set(key, data, expiration)
	return nil
}

// Delete removes a value from cache
func (a *MemoryAdapter) Delete(_ context.Context, key string) error {
	a.store.Delete(key)
	return nil
}

// Exists checks if a live key exists in cache
func (a *MemoryAdapter) Exists(_ context.Context, key string) (bool, error) {
	_, ok := a.store.Get(key)
	return ok, nil
}
