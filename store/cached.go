package store

import (
	"context"

	"github.com/geobrowser/geo-stream/cache"
	"github.com/geobrowser/geo-stream/metrics"
)

// CachedStore remembers keys known to be present so repeated writes for the
// same address skip the backing store. Present is terminal, so a cached key
// can never be stale.
type CachedStore struct {
	inner Store
	known *cache.Cache[string, struct{}]
}

func NewCachedStore(inner Store, size int) *CachedStore {
	return &CachedStore{
		inner: inner,
		known: cache.New[string, struct{}](size),
	}
}

func (s *CachedStore) SetIfAbsent(ctx context.Context, key, value string) (bool, error) {
	if _, ok := s.known.Get(key); ok {
		metrics.TrackCacheLookup(true)
		return false, nil
	}
	metrics.TrackCacheLookup(false)

	inserted, err := s.inner.SetIfAbsent(ctx, key, value)
	if err != nil {
		return false, err
	}
	s.known.Set(key, struct{}{})
	return inserted, nil
}

func (s *CachedStore) Close() error {
	return s.inner.Close()
}
