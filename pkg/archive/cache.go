package archive

import (
	"context"
	"sync/atomic"

	"github.com/VictoriaMetrics/fastcache"
)

// CachedStore is a read-through cache over another Store. Snapshot records
// are immutable while serving, so entries never need invalidation. Content
// values routinely exceed 64 KiB and go through the fastcache *Big calls.
type CachedStore struct {
	cache *fastcache.Cache
	store Store

	hits   atomic.Uint64
	misses atomic.Uint64
}

// CacheStats reports cache effectiveness counters.
type CacheStats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

// NewCachedStore wraps store with an in-process cache of at most maxBytes.
func NewCachedStore(maxBytes int, store Store) *CachedStore {
	return &CachedStore{
		cache: fastcache.New(maxBytes),
		store: store,
	}
}

// Get returns the cached record for key, falling back to the wrapped store
// and populating the cache on a hit there.
func (s *CachedStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	mkey := []byte(mimetypePrefix + key)
	ckey := []byte(contentPrefix + key)

	if mimetype, ok := s.cache.HasGet(nil, mkey); ok {
		content := s.cache.GetBig(nil, ckey)
		if len(content) > 0 {
			s.hits.Add(1)
			return content, string(mimetype), nil
		}
	}
	s.misses.Add(1)

	content, mimetype, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, "", err
	}

	// Empty bodies are not cached: GetBig cannot distinguish them from
	// evicted entries.
	if len(content) > 0 {
		s.cache.Set(mkey, []byte(mimetype))
		s.cache.SetBig(ckey, content)
	}

	return content, mimetype, nil
}

// Put writes through to the wrapped store and refreshes the cache.
func (s *CachedStore) Put(ctx context.Context, key string, content []byte, mimetype string) error {
	if err := s.store.Put(ctx, key, content, mimetype); err != nil {
		return err
	}
	if len(content) > 0 {
		s.cache.Set([]byte(mimetypePrefix+key), []byte(mimetype))
		s.cache.SetBig([]byte(contentPrefix+key), content)
	}
	return nil
}

// Stats returns the hit/miss counters since startup.
func (s *CachedStore) Stats() CacheStats {
	return CacheStats{
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
	}
}

// Close closes the wrapped store.
func (s *CachedStore) Close() error {
	s.cache.Reset()
	return s.store.Close()
}

// Ensure CachedStore implements Store.
var _ Store = (*CachedStore)(nil)
