package cache

import "time"

// Cache defines the interface for caching services. The API uses it for
// signed video URLs, whose lifetime matches the signing TTL.
type Cache interface {
	Get(key string) (string, error)
	Set(key string, value interface{}, expiration time.Duration) error
	Delete(key string) error
}

// Noop is a Cache that stores nothing. Used when no Redis address is
// configured so callers never branch on cache availability.
type Noop struct{}

// Get always misses.
func (Noop) Get(key string) (string, error) { return "", nil }

// Set discards the value.
func (Noop) Set(key string, value interface{}, expiration time.Duration) error { return nil }

// Delete does nothing.
func (Noop) Delete(key string) error { return nil }
