package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrCacheMiss is returned by CacheHandlerI.Get when the key is absent or stale.
var ErrCacheMiss = errors.New("cache miss")

// CacheHandlerI stores JSON-serializable values under string keys with a TTL.
// Implementations: MemoryCacheHandler (process local) and redis_utils.RedisHandler.
type CacheHandlerI interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string, result interface{}) error
	Delete(key string) error
}

type cacheEntry[T any] struct {
	value      T
	cachedAt   time.Time
	expiration time.Time
}

// Cache is a keyed in-memory cache with per-entry expiration.
// There is no eviction besides overwrite on Set and explicit Delete.
type Cache[T any] struct {
	entries map[string]cacheEntry[T]
	now     func() time.Time
	mutex   sync.RWMutex
}

// NewCache initializes an empty cache.
func NewCache[T any]() *Cache[T] {
	return &Cache[T]{
		entries: make(map[string]cacheEntry[T]),
		now:     time.Now,
	}
}

// Set stores value under key with an expiration time.
func (c *Cache[T]) Set(key string, value T, duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	c.entries[key] = cacheEntry[T]{
		value:      value,
		cachedAt:   now,
		expiration: now.Add(duration),
	}
}

// Get retrieves the cached value, reporting false when it is missing or expired.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, ok := c.entries[key]
	if !ok || !c.now().Before(entry.expiration) {
		var zero T
		return zero, false
	}
	return entry.value, true
}

// CachedAt returns when key was last written.
func (c *Cache[T]) CachedAt(key string) (time.Time, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, ok := c.entries[key]
	return entry.cachedAt, ok
}

// Delete removes key.
func (c *Cache[T]) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, key)
}

// Clear removes every cached value.
func (c *Cache[T]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]cacheEntry[T])
}

// MemoryCacheHandler adapts Cache to CacheHandlerI by storing JSON payloads,
// so values round-trip the same way they do through Redis.
type MemoryCacheHandler struct {
	cache *Cache[[]byte]
}

func NewMemoryCacheHandler() *MemoryCacheHandler {
	return &MemoryCacheHandler{cache: NewCache[[]byte]()}
}

func (m *MemoryCacheHandler) Set(key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize value: %w", err)
	}
	m.cache.Set(key, data, expiration)
	return nil
}

func (m *MemoryCacheHandler) Get(key string, result interface{}) error {
	data, ok := m.cache.Get(key)
	if !ok {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to deserialize value: %w", err)
	}
	return nil
}

func (m *MemoryCacheHandler) Delete(key string) error {
	m.cache.Delete(key)
	return nil
}
