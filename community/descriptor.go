package community

import (
	"context"
	"errors"
	"time"

	"github.com/BaSui01/genstudio/internal/cache"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// Descriptor is the signed download descriptor returned by the metadata API.
type Descriptor struct {
	Success     bool   `json:"success"`
	DownloadURL string `json:"downloadUrl,omitempty"`
	Error       string `json:"error,omitempty"`
}

// DescriptorCache keeps resolved descriptors for a bounded interval.
type DescriptorCache interface {
	Get(ctx context.Context, id string) (Descriptor, bool)
	Set(ctx context.Context, id string, d Descriptor, ttl time.Duration)
	Delete(ctx context.Context, id string)
}

// =============================================================================
// 🧠 进程内缓存
// =============================================================================

const defaultMemoryEntries = 1024

// MemoryCache is an in-process LRU DescriptorCache. Entries expire after the
// ttl given to NewMemoryCache; the ttl passed to Set only disables caching
// when it is not positive.
type MemoryCache struct {
	lru *expirable.LRU[string, Descriptor]
}

// NewMemoryCache creates a MemoryCache holding at most maxEntries descriptors
// (1024 when maxEntries <= 0) for ttl each.
func NewMemoryCache(maxEntries int, ttl time.Duration) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = defaultMemoryEntries
	}
	if ttl <= 0 {
		ttl = DefaultConfig().FreshnessTTL
	}
	return &MemoryCache{lru: expirable.NewLRU[string, Descriptor](maxEntries, nil, ttl)}
}

func (c *MemoryCache) Get(_ context.Context, id string) (Descriptor, bool) {
	return c.lru.Get(id)
}

func (c *MemoryCache) Set(_ context.Context, id string, d Descriptor, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.lru.Add(id, d)
}

func (c *MemoryCache) Delete(_ context.Context, id string) {
	c.lru.Remove(id)
}

// Len reports the number of cached descriptors, including expired ones not
// yet purged.
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

// =============================================================================
// 🗄️ Redis 缓存
// =============================================================================

// JSONStore is the subset of cache.Manager used by RedisCache.
type JSONStore interface {
	GetJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

const redisKeyPrefix = "community:descriptor:"

// RedisCache stores descriptors through the shared cache manager. Cache errors
// degrade to a miss.
type RedisCache struct {
	store  JSONStore
	logger *zap.Logger
}

// NewRedisCache creates a RedisCache.
func NewRedisCache(store JSONStore, logger *zap.Logger) *RedisCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCache{store: store, logger: logger.With(zap.String("component", "descriptor_cache"))}
}

func (c *RedisCache) Get(ctx context.Context, id string) (Descriptor, bool) {
	var d Descriptor
	if err := c.store.GetJSON(ctx, redisKeyPrefix+id, &d); err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn("descriptor cache read failed", zap.String("id", id), zap.Error(err))
		}
		return Descriptor{}, false
	}
	return d, true
}

func (c *RedisCache) Set(ctx context.Context, id string, d Descriptor, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := c.store.SetJSON(ctx, redisKeyPrefix+id, d, ttl); err != nil {
		c.logger.Warn("descriptor cache write failed", zap.String("id", id), zap.Error(err))
	}
}

func (c *RedisCache) Delete(ctx context.Context, id string) {
	if err := c.store.Delete(ctx, redisKeyPrefix+id); err != nil {
		c.logger.Warn("descriptor cache delete failed", zap.String("id", id), zap.Error(err))
	}
}
