package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/golang/glog"
)

// Store is the set of operations the application needs from a key-value
// cache. Values are opaque bytes; callers choose the encoding.
type Store interface {
	// Get returns the value for key. found is false on a cache miss, which
	// is not an error.
	Get(key string) (value []byte, found bool, err error)

	// Set stores value against key for timeToLive seconds
	Set(key string, value []byte, timeToLive int32) error

	// Delete removes key. Deleting a key that does not exist is not an error.
	Delete(key string) error

	// Exists reports whether key is currently held
	Exists(key string) (bool, error)

	// Ping checks that the cache server is reachable
	Ping() error
}

// Memcache is a Store backed by one or more memcached servers
type Memcache struct {
	mc *memcache.Client
}

// DefaultTimeout is the socket read/write timeout for memcached calls
const DefaultTimeout = 500 * time.Millisecond

// NewMemcache creates the cache client. It is the responsibility of whatever
// has the values for this function (usually main.go shortly after reading the
// config file) to call this.
func NewMemcache(host string, port int64) *Memcache {
	mc := memcache.New(fmt.Sprintf("%s:%d", host, port))
	mc.Timeout = DefaultTimeout

	return &Memcache{mc: mc}
}

// Get gets the data for the given key, if the data is in the cache
func (s *Memcache) Get(key string) ([]byte, bool, error) {
	item, err := s.mc.Get(key)
	if err != nil {
		// Cache misses are expected
		if errors.Is(err, memcache.ErrCacheMiss) {
			return nil, false, nil
		}
		glog.Warningf("mc.Get(%s) %+v", key, err)
		return nil, false, err
	}

	return item.Value, true, nil
}

// Set puts the given bytes into the cache
func (s *Memcache) Set(key string, value []byte, timeToLive int32) error {
	err := s.mc.Set(
		&memcache.Item{
			Key:        key,
			Value:      value,
			Expiration: timeToLive, // time in seconds
		},
	)
	if err != nil {
		glog.Errorf("mc.Set(%s) %+v", key, err)
		return err
	}

	return nil
}

// Delete removes items matching the given key from the cache, if it is in
// the cache
func (s *Memcache) Delete(key string) error {
	err := s.mc.Delete(key)
	if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		glog.Warningf("mc.Delete(%s) %+v", key, err)
		return err
	}

	return nil
}

// Exists reports whether the key is in the cache. memcached has no native
// exists so this is a Get with the value discarded.
func (s *Memcache) Exists(key string) (bool, error) {
	_, found, err := s.Get(key)
	return found, err
}

// Ping checks every configured memcached server
func (s *Memcache) Ping() error {
	return s.mc.Ping()
}
