// Package cache holds short-lived derived values, such as the dashboard
// summary, so hot read endpoints do not recompute them on every request.
package cache

import (
	"sync"
	"time"
)

// Store is a bounded TTL cache. Writes past capacity evict the least
// recently used entry; eviction scans the map, which is fine at the
// handful of entries this service caches.
type Store[T any] struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	entries    map[string]*entry[T]

	stopJanitor chan struct{}
	janitorDone chan struct{}
}

type entry[T any] struct {
	value    T
	expires  time.Time
	lastUsed time.Time
}

func New[T any](maxEntries int, ttl time.Duration) *Store[T] {
	return &Store[T]{
		maxEntries: maxEntries,
		ttl:        ttl,
		entries:    make(map[string]*entry[T]),
	}
}

// Get returns the cached value for key, unless it has expired.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	e, ok := s.entries[key]
	if !ok {
		return zero, false
	}
	if time.Now().After(e.expires) {
		delete(s.entries, key)
		return zero, false
	}
	e.lastUsed = time.Now()
	return e.value, true
}

// Put stores value under key with a fresh TTL.
func (s *Store[T]) Put(key string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.entries[key] = &entry[T]{
		value:    value,
		expires:  now.Add(s.ttl),
		lastUsed: now,
	}

	if len(s.entries) <= s.maxEntries {
		return
	}
	oldestKey := ""
	var oldest time.Time
	for k, e := range s.entries {
		if k == key {
			continue
		}
		if oldestKey == "" || e.lastUsed.Before(oldest) {
			oldestKey = k
			oldest = e.lastUsed
		}
	}
	delete(s.entries, oldestKey)
}

// Invalidate drops the entry for key, if present.
func (s *Store[T]) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Purge removes expired entries and reports how many were dropped.
func (s *Store[T]) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	dropped := 0
	for k, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, k)
			dropped++
		}
	}
	return dropped
}

// Len reports the number of entries, expired ones included until purged.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// StartJanitor purges expired entries on the given interval until Stop.
func (s *Store[T]) StartJanitor(interval time.Duration) {
	s.stopJanitor = make(chan struct{})
	s.janitorDone = make(chan struct{})
	go func() {
		defer close(s.janitorDone)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Purge()
			case <-s.stopJanitor:
				return
			}
		}
	}()
}

// Stop halts the janitor. Safe to call when it was never started.
func (s *Store[T]) Stop() {
	if s.stopJanitor == nil {
		return
	}
	close(s.stopJanitor)
	<-s.janitorDone
	s.stopJanitor = nil
}
