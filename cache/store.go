// Package cache keeps fetched upstream payloads: an in-process Store keyed by
// query that rejects stale responses, and an optional Redis layer shared
// between portal instances for public catalog pages.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Store caches raw payloads per query key.
//
// Every fetch takes a token from Begin before going upstream and hands it back
// to Commit with the response. Tokens increase monotonically, so a response
// that arrives after a fresher one, or after the key was invalidated, is
// discarded instead of overwriting newer state. Entries are replaced
// wholesale, never merged.
type Store struct {
	ttl time.Duration
	seq uint64
	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

type entry struct {
	token   uint64
	value   []byte
	expires time.Time
}

// NewStore returns a Store whose entries live for ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// Begin returns the token for a fetch about to start.
func (s *Store) Begin() uint64 {
	return atomic.AddUint64(&s.seq, 1)
}

// Commit stores value under key unless a fetch that began later, or an
// invalidation, already got there. It reports whether value was kept.
func (s *Store) Commit(key string, token uint64, value []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok && e.token > token {
		return false
	}
	s.entries[key] = entry{token: token, value: value, expires: s.now().Add(s.ttl)}
	return true
}

// Get returns the live value under key.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.value == nil || !s.now().Before(e.expires) {
		return nil, false
	}
	return e.value, true
}

// Invalidate drops the keys and fences off fetches already in flight for
// them, so the next read goes upstream.
func (s *Store) Invalidate(keys ...string) {
	token := s.Begin()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		s.entries[k] = entry{token: token, expires: s.now().Add(s.ttl)}
	}
}

// Len reports the number of entries, tombstones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Run evicts expired entries every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.evict()
		}
	}
}

func (s *Store) evict() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, k)
		}
	}
}
