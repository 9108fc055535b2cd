package geo

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// GeoInfo is the location derived for one client IP. Only Country ends up
// on the stored event; the rest is kept for the cache so a later consumer
// does not need a second lookup.
type GeoInfo struct {
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	City        string `json:"city,omitempty"`
	Region      string `json:"region,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
}

// Cache stores per-IP lookup results. Implementations must be safe for
// concurrent use; keys (IPs) are independent, no cross-key ordering.
type Cache interface {
	Get(ctx context.Context, ip string) (GeoInfo, bool)
	Set(ctx context.Context, ip string, info GeoInfo)
}

// MemoryCache is a process-local cache with no eviction. Entries live for
// the process lifetime, which keeps the at-most-one-lookup-per-IP promise.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]GeoInfo
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]GeoInfo)}
}

func (c *MemoryCache) Get(_ context.Context, ip string) (GeoInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.entries[ip]
	return info, ok
}

func (c *MemoryCache) Set(_ context.Context, ip string, info GeoInfo) {
	c.mu.Lock()
	c.entries[ip] = info
	c.mu.Unlock()
}

const redisGeoTTL = 7 * 24 * time.Hour

// RedisCache shares lookup results across instances. Redis errors degrade
// to a cache miss or a skipped write; the resolver never sees them.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) key(ip string) string {
	return "geo:ip:" + ip
}

func (c *RedisCache) Get(ctx context.Context, ip string) (GeoInfo, bool) {
	var info GeoInfo
	raw, err := c.client.Get(ctx, c.key(ip)).Bytes()
	if err != nil {
		return info, false
	}
	if err := json.Unmarshal(raw, &info); err != nil {
		return info, false
	}
	return info, true
}

func (c *RedisCache) Set(ctx context.Context, ip string, info GeoInfo) {
	raw, err := json.Marshal(info)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.key(ip), raw, redisGeoTTL)
}
