package models

import (
	"context"
	"sort"
	"sync"
	"time"

	c "github.com/microcosm-collective/itemcache/cache"
)

// memItemStore is an ItemStore held in memory. Each insert is one second
// newer than the last so ordering is deterministic.
type memItemStore struct {
	mu     sync.Mutex
	items  map[int64]Item
	nextID int64
	clock  time.Time

	getItemsCalls int

	InsertItemFunc func(ctx context.Context, name string) (Item, error)
	GetItemsFunc   func(ctx context.Context) ([]Item, error)
	DeleteItemFunc func(ctx context.Context, itemID int64) (bool, error)
	CountItemsFunc func(ctx context.Context) (int64, error)
	PingFunc       func(ctx context.Context) error
}

func newMemItemStore() *memItemStore {
	return &memItemStore{
		items:  map[int64]Item{},
		nextID: 1,
		clock:  time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (s *memItemStore) InsertItem(ctx context.Context, name string) (Item, error) {
	if s.InsertItemFunc != nil {
		return s.InsertItemFunc(ctx, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clock = s.clock.Add(time.Second)
	m := Item{ID: s.nextID, Name: name, Created: s.clock}
	s.items[m.ID] = m
	s.nextID++

	return m, nil
}

func (s *memItemStore) GetItems(ctx context.Context) ([]Item, error) {
	s.mu.Lock()
	s.getItemsCalls++
	s.mu.Unlock()

	if s.GetItemsFunc != nil {
		return s.GetItemsFunc(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ems := []Item{}
	for _, m := range s.items {
		ems = append(ems, m)
	}
	sort.Slice(ems, func(i, j int) bool {
		if ems[i].Created.Equal(ems[j].Created) {
			return ems[i].ID > ems[j].ID
		}
		return ems[i].Created.After(ems[j].Created)
	})

	return ems, nil
}

func (s *memItemStore) DeleteItem(ctx context.Context, itemID int64) (bool, error) {
	if s.DeleteItemFunc != nil {
		return s.DeleteItemFunc(ctx, itemID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[itemID]; !ok {
		return false, nil
	}
	delete(s.items, itemID)

	return true, nil
}

func (s *memItemStore) CountItems(ctx context.Context) (int64, error) {
	if s.CountItemsFunc != nil {
		return s.CountItemsFunc(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return int64(len(s.items)), nil
}

func (s *memItemStore) Ping(ctx context.Context) error {
	if s.PingFunc != nil {
		return s.PingFunc(ctx)
	}
	return nil
}

func (s *memItemStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getItemsCalls
}

// hookedCache is an in-process cache whose calls can be made to fail
type hookedCache struct {
	*c.Memory

	GetFunc    func(key string) ([]byte, bool, error)
	SetFunc    func(key string, value []byte, timeToLive int32) error
	DeleteFunc func(key string) error
	ExistsFunc func(key string) (bool, error)
	PingFunc   func() error

	lastTTL int32
}

func newHookedCache() *hookedCache {
	return &hookedCache{Memory: c.NewMemory()}
}

func (s *hookedCache) Get(key string) ([]byte, bool, error) {
	if s.GetFunc != nil {
		return s.GetFunc(key)
	}
	return s.Memory.Get(key)
}

func (s *hookedCache) Set(key string, value []byte, timeToLive int32) error {
	s.lastTTL = timeToLive
	if s.SetFunc != nil {
		return s.SetFunc(key, value, timeToLive)
	}
	return s.Memory.Set(key, value, timeToLive)
}

func (s *hookedCache) Delete(key string) error {
	if s.DeleteFunc != nil {
		return s.DeleteFunc(key)
	}
	return s.Memory.Delete(key)
}

func (s *hookedCache) Exists(key string) (bool, error) {
	if s.ExistsFunc != nil {
		return s.ExistsFunc(key)
	}
	return s.Memory.Exists(key)
}

func (s *hookedCache) Ping() error {
	if s.PingFunc != nil {
		return s.PingFunc()
	}
	return nil
}
