// Package memory provides an in-memory Store implementation. It is safe
// for concurrent use and is primarily intended for tests and local
// development.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/scorebridge/scoring-api/internal/app/storage"
)

type entry struct {
	value   string
	expires time.Time // zero means no expiry
}

// Store is a mutex-guarded map with per-key TTL.
type Store struct {
	mu   sync.RWMutex
	data map[string]entry
}

var _ storage.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{data: make(map[string]entry)}
}

// Set stores a value without expiry. Used to seed lookup data.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = entry{value: value}
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok || (!e.expires.IsZero() && time.Now().After(e.expires)) {
		return "", storage.ErrNotFound
	}
	return e.value, nil
}

func (s *Store) CacheGet(ctx context.Context, key string) (string, bool) {
	v, err := s.Get(ctx, key)
	return v, err == nil
}

func (s *Store) CacheSet(_ context.Context, key, value string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.expires = time.Now().Add(ttl)
	}
	s.data[key] = e
}
