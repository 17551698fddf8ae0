// Package testutil provides common testing utilities and mock implementations.
package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/scorebridge/scoring-api/internal/app/storage"
)

// ErrStoreDown is returned by a MockStore whose Get calls are failing.
var ErrStoreDown = errors.New("store unavailable")

// MockStore is a test implementation of storage.Store with error injection
// and call counting.
type MockStore struct {
	mu   sync.Mutex
	data map[string]string

	// FailGet makes every Get return ErrStoreDown.
	FailGet bool
	// DisableCache makes CacheGet always miss and CacheSet drop writes.
	DisableCache bool

	GetCalls      int
	CacheGetCalls int
	CacheSetCalls int
}

var _ storage.Store = (*MockStore)(nil)

// NewMockStore creates an empty mock store.
func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string]string)}
}

// Seed stores a value for lookup.
func (m *MockStore) Seed(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

func (m *MockStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	if m.FailGet {
		return "", ErrStoreDown
	}
	v, ok := m.data[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (m *MockStore) CacheGet(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheGetCalls++
	if m.DisableCache {
		return "", false
	}
	v, ok := m.data[key]
	return v, ok
}

func (m *MockStore) CacheSet(_ context.Context, key, value string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheSetCalls++
	if m.DisableCache {
		return
	}
	m.data[key] = value
}
