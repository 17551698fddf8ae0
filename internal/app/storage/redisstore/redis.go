// Package redisstore implements the Store contract on Redis.
package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/scorebridge/scoring-api/internal/app/storage"
	"github.com/scorebridge/scoring-api/internal/logging"
)

// Store wraps a Redis client. Cache operations are best-effort: a broken
// cache degrades to recomputation, only authoritative lookups fail the
// request.
type Store struct {
	client *redis.Client
	log    *logging.Logger
}

var _ storage.Store = (*Store)(nil)

// New creates a Store for the given Redis address and database.
func New(addr string, db int, log *logging.Logger) *Store {
	if log == nil {
		log = logging.NewDefault("redisstore")
	}
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	return &Store{client: client, log: log}
}

// Ping verifies connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *Store) CacheGet(ctx context.Context, key string) (string, bool) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.WithError(err).WithFields(map[string]interface{}{"key": key}).Warn("cache get failed")
		}
		return "", false
	}
	return val, true
}

func (s *Store) CacheSet(ctx context.Context, key, value string, ttl time.Duration) {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.log.WithError(err).WithFields(map[string]interface{}{"key": key}).Warn("cache set failed")
	}
}
