package repository

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryCache is an in-process expiring cache.
type MemoryCache struct {
	store *cache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		store: cache.New(ttl, 2*ttl),
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	v, ok := m.store.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (m *MemoryCache) Set(_ context.Context, key string, value string) error {
	m.store.SetDefault(key, value)
	return nil
}

// Flush drops every cached entry.
func (m *MemoryCache) Flush() {
	m.store.Flush()
}

// Len returns the number of cached entries, expired ones included until
// the janitor runs.
func (m *MemoryCache) Len() int {
	return m.store.ItemCount()
}
