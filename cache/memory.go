package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CleanupInterval is how often expired entries are swept from Memory
const CleanupInterval = time.Minute

// Memory is an in-process Store. It is used when no memcached server is
// configured, which is only sensible for a single instance of the service.
type Memory struct {
	c *gocache.Cache
}

// NewMemory returns an empty in-process cache
func NewMemory() *Memory {
	return &Memory{
		c: gocache.New(gocache.NoExpiration, CleanupInterval),
	}
}

// Get returns a copy of the value held for key. Expired entries are misses.
func (s *Memory) Get(key string) ([]byte, bool, error) {
	v, found := s.c.Get(key)
	if !found {
		return nil, false, nil
	}

	b, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}

	value := make([]byte, len(b))
	copy(value, b)

	return value, true, nil
}

// Set stores a copy of value. A timeToLive of zero means no expiry, matching
// memcached.
func (s *Memory) Set(key string, value []byte, timeToLive int32) error {
	b := make([]byte, len(value))
	copy(b, value)

	d := gocache.NoExpiration
	if timeToLive > 0 {
		d = time.Duration(timeToLive) * time.Second
	}
	s.c.Set(key, b, d)

	return nil
}

// Delete removes key if present
func (s *Memory) Delete(key string) error {
	s.c.Delete(key)
	return nil
}

// Exists reports whether an unexpired value is held for key
func (s *Memory) Exists(key string) (bool, error) {
	_, found := s.c.Get(key)
	return found, nil
}

// Ping always succeeds
func (s *Memory) Ping() error {
	return nil
}
