package competitor

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/aeo-monitor/internal/model"
	"github.com/sells-group/aeo-monitor/internal/store"
)

// StoreCache persists identification results through the relational store so
// memoization survives process restarts. Store errors degrade to cache
// misses.
type StoreCache struct {
	store store.Store
}

// NewStoreCache wraps a store as a Cache.
func NewStoreCache(s store.Store) *StoreCache {
	return &StoreCache{store: s}
}

func (c *StoreCache) Get(key string) (*model.IdentificationResult, bool) {
	raw, ok, err := c.store.CacheGet(context.Background(), key)
	if err != nil {
		zap.L().Warn("competitor: cache read failed", zap.Error(err), zap.String("key", key))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var result model.IdentificationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		zap.L().Warn("competitor: discarding undecodable cache entry", zap.Error(err), zap.String("key", key))
		return nil, false
	}
	return &result, true
}

func (c *StoreCache) Put(key string, value *model.IdentificationResult, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		zap.L().Warn("competitor: cache encode failed", zap.Error(err), zap.String("key", key))
		return
	}
	if err := c.store.CachePut(context.Background(), key, raw, ttl); err != nil {
		zap.L().Warn("competitor: cache write failed", zap.Error(err), zap.String("key", key))
	}
}
