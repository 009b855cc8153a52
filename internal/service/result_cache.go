package service

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"stablepay/internal/domain/entity"
	"stablepay/pkg/metrics"
)

// ResultCache memoizes aggregate results per (address, chain-set) key with a
// short TTL. Writers are guarded by a per-key fetch generation: only the
// most recently started aggregation for a key may populate it, so a slow
// superseded fetch can never overwrite fresher data.
type ResultCache struct {
	store  *cache.Cache
	mu     sync.Mutex
	latest map[string]uint64
	logger *zap.Logger
}

// NewResultCache creates a cache with the given TTL.
func NewResultCache(ttl time.Duration, logger *zap.Logger) *ResultCache {
	return &ResultCache{
		store:  cache.New(ttl, 2*ttl),
		latest: make(map[string]uint64),
		logger: logger.Named("ResultCache"),
	}
}

// Get returns the cached result for a key while fresh.
func (c *ResultCache) Get(key string) (*entity.AggregateResult, bool) {
	v, found := c.store.Get(key)
	if !found {
		metrics.ResultCacheHits.WithLabelValues("miss").Inc()
		return nil, false
	}
	res, ok := v.(*entity.AggregateResult)
	if !ok {
		// Unreachable with correct writers; treat as a miss and recompute.
		c.logger.Error("Cache entry has unexpected type, discarding", zap.String("key", key))
		c.store.Delete(key)
		metrics.ResultCacheHits.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.ResultCacheHits.WithLabelValues("hit").Inc()
	return res, true
}

// BeginFetch registers a new fetch for the key and returns its generation.
func (c *ResultCache) BeginFetch(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest[key]++
	return c.latest[key]
}

// CompleteFetch stores the result unless a newer fetch for the same key has
// started since gen was issued. Reports whether the result was stored.
func (c *ResultCache) CompleteFetch(key string, gen uint64, res *entity.AggregateResult) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.latest[key] != gen {
		return false
	}
	c.store.Set(key, res, cache.DefaultExpiration)
	return true
}
