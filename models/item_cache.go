package models

import (
	"context"
	"time"

	"github.com/golang/glog"

	c "github.com/microcosm-collective/itemcache/cache"
	e "github.com/microcosm-collective/itemcache/errors"
)

// ItemsCacheKey holds the JSON snapshot of the full item list
const ItemsCacheKey string = "items"

// DefaultItemsTTL is how long, in seconds, the snapshot lives if nothing
// invalidates it first
const DefaultItemsTTL int32 = 60

// Values of ItemStatsType.CacheStatus
const (
	CacheStatusCached    string = "cached"
	CacheStatusNotCached string = "not cached"
)

// ItemStatsType describes the collection and the state of its cache entry
type ItemStatsType struct {
	TotalItems  int64   `json:"totalItems"`
	CacheStatus string  `json:"cacheStatus"`
	Uptime      float64 `json:"uptime"`
}

// HealthType reports connectivity to the backing stores
type HealthType struct {
	Message   string  `json:"message"`
	Uptime    float64 `json:"uptime"`
	Timestamp int64   `json:"timestamp"`
	Database  string  `json:"database"`
	Cache     string  `json:"cache"`
}

// Healthy is true when both stores answered
func (m HealthType) Healthy() bool {
	return m.Database == connected && m.Cache == connected
}

const (
	connected    = "connected"
	disconnected = "disconnected"
)

// ItemCache mediates every read and write of items. Reads are served from
// the cache when the snapshot is present; writes go to the store and then
// delete the snapshot so the next read rebuilds it.
//
// There is no locking here. A read that misses can race a write and put a
// stale snapshot back, which then lives until the TTL expires.
type ItemCache struct {
	store ItemStore
	cache c.Store
	ttl   int32
}

// NewItemCache returns a gateway over the given store and cache. A ttl below
// one second takes DefaultItemsTTL.
func NewItemCache(store ItemStore, cache c.Store, ttl int32) *ItemCache {
	if ttl < 1 {
		ttl = DefaultItemsTTL
	}

	return &ItemCache{
		store: store,
		cache: cache,
		ttl:   ttl,
	}
}

// GetItems returns every item, newest first
func (m *ItemCache) GetItems(ctx context.Context) ([]Item, error) {
	ems := []Item{}
	found, err := c.GetJSON(m.cache, ItemsCacheKey, &ems)
	if err != nil {
		return nil, e.Wrap("models.GetItems", e.CacheUnavailable, err)
	}
	if found {
		if ems == nil {
			ems = []Item{}
		}
		if glog.V(2) {
			glog.Info("Cache hit - returning cached items")
		}
		return ems, nil
	}

	if glog.V(2) {
		glog.Info("Cache miss - fetching from database")
	}

	ems, err = m.store.GetItems(ctx)
	if err != nil {
		return nil, err
	}
	if ems == nil {
		ems = []Item{}
	}

	err = c.SetJSON(m.cache, ItemsCacheKey, ems, m.ttl)
	if err != nil {
		return nil, e.Wrap("models.GetItems", e.CacheUnavailable, err)
	}

	return ems, nil
}

// CreateItem validates and saves a new item, then invalidates the snapshot.
// If the invalidation fails the item has still been saved; it is returned
// alongside the error.
func (m *ItemCache) CreateItem(ctx context.Context, name string) (Item, error) {
	name = CleanItemName(name)
	if name == "" {
		return Item{}, e.New("models.CreateItem", e.ItemNameRequired,
			"Item name is required")
	}

	item, err := m.store.InsertItem(ctx, name)
	if err != nil {
		return Item{}, err
	}

	err = m.purge()
	if err != nil {
		glog.Errorf("Cache invalidation failed after creating item %d: %+v", item.ID, err)
		return item, e.Wrap("models.CreateItem", e.CacheUnavailable, err)
	}

	if glog.V(2) {
		glog.Info("Cache invalidated after creating item")
	}

	return item, nil
}

// DeleteItem removes an item, then invalidates the snapshot. Nothing is
// invalidated when the item did not exist.
func (m *ItemCache) DeleteItem(ctx context.Context, itemID int64) error {
	deleted, err := m.store.DeleteItem(ctx, itemID)
	if err != nil {
		return err
	}
	if !deleted {
		return e.New("models.DeleteItem", e.ItemNotFound, "Item not found")
	}

	err = m.purge()
	if err != nil {
		glog.Errorf("Cache invalidation failed after deleting item %d: %+v", itemID, err)
		return e.Wrap("models.DeleteItem", e.CacheUnavailable, err)
	}

	if glog.V(2) {
		glog.Info("Cache invalidated after deleting item")
	}

	return nil
}

// GetStats counts the items directly from the store and reports whether the
// snapshot is currently cached. Uptime is left for the caller to fill.
func (m *ItemCache) GetStats(ctx context.Context) (ItemStatsType, error) {
	total, err := m.store.CountItems(ctx)
	if err != nil {
		return ItemStatsType{}, err
	}

	exists, err := m.cache.Exists(ItemsCacheKey)
	if err != nil {
		return ItemStatsType{}, e.Wrap("models.GetStats", e.CacheUnavailable, err)
	}

	stats := ItemStatsType{
		TotalItems:  total,
		CacheStatus: CacheStatusNotCached,
	}
	if exists {
		stats.CacheStatus = CacheStatusCached
	}

	return stats, nil
}

// CheckHealth pings both stores. It never fails; the result says which
// store, if any, is unreachable.
func (m *ItemCache) CheckHealth(ctx context.Context, started time.Time) HealthType {
	now := time.Now()
	health := HealthType{
		Message:   "OK",
		Uptime:    now.Sub(started).Seconds(),
		Timestamp: now.UnixMilli(),
		Database:  connected,
		Cache:     connected,
	}

	if err := m.store.Ping(ctx); err != nil {
		glog.Warningf("Database ping failed: %+v", err)
		health.Database = disconnected
	}

	if err := m.cache.Ping(); err != nil {
		glog.Warningf("Cache ping failed: %+v", err)
		health.Cache = disconnected
	}

	if !health.Healthy() {
		health.Message = "DEGRADED"
	}

	return health
}

// purge deletes the snapshot. A missing snapshot is not an error.
func (m *ItemCache) purge() error {
	return m.cache.Delete(ItemsCacheKey)
}
