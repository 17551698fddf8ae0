// Package storage defines the opaque key/value store handle passed through
// the dispatcher to the scoring collaborators. The validation core never
// opens it.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("key not found")

// Store is the persistence contract of the scoring collaborators. Get is an
// authoritative lookup whose failures propagate to the caller; CacheGet and
// CacheSet are best-effort and never fail the request.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	CacheGet(ctx context.Context, key string) (string, bool)
	CacheSet(ctx context.Context, key, value string, ttl time.Duration)
}
