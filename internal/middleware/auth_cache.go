package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	firmCacheTTL       = 5 * time.Minute
	negativeCacheTTL   = 30 * time.Second
	maxCacheEntries    = 10000
	cacheCleanupPeriod = 60 * time.Second
)

// negativeSentinel is stored in firmID to indicate a cached lookup failure.
const negativeSentinel = "\x00negative"

// errCachedNotFound is returned for negative cache hits.
var errCachedNotFound = errors.New("firm not found (cached)")

type cachedFirm struct {
	firmID    string
	fetchedAt time.Time
}

// isNegative returns true if this entry represents a cached lookup failure.
func (cf cachedFirm) isNegative() bool {
	return cf.firmID == negativeSentinel
}

// ttl returns the appropriate TTL for this entry.
func (cf cachedFirm) ttl() time.Duration {
	if cf.isNegative() {
		return negativeCacheTTL
	}
	return firmCacheTTL
}

// hashKey returns a hex-encoded SHA-256 hash of the API key so raw keys
// are never stored in memory.
func hashKey(apiKey string) string {
	h := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(h[:])
}

// CachedFirmLookup wraps a FirmLookup with a bounded in-memory cache.
// Concurrent misses for the same key collapse into a single store query.
type CachedFirmLookup struct {
	inner FirmLookup
	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]cachedFirm
}

// NewCachedFirmLookup creates a caching wrapper around the given FirmLookup.
// The provided context controls the lifetime of the background eviction goroutine.
func NewCachedFirmLookup(ctx context.Context, inner FirmLookup) *CachedFirmLookup {
	c := &CachedFirmLookup{
		inner: inner,
		cache: make(map[string]cachedFirm),
	}
	go c.evictLoop(ctx)
	return c
}

// evictLoop periodically removes expired entries from the cache.
func (c *CachedFirmLookup) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(cacheCleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for k, v := range c.cache {
				if now.Sub(v.fetchedAt) >= v.ttl() {
					delete(c.cache, k)
				}
			}
			c.mu.Unlock()
		}
	}
}

// lookup returns the cached entry for hk if present and fresh.
func (c *CachedFirmLookup) lookup(hk string) (cachedFirm, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.cache[hk]
	if !ok || time.Since(entry.fetchedAt) >= entry.ttl() {
		return cachedFirm{}, false
	}

	return entry, true
}

// GetFirmByAPIKey returns a cached firm ID or delegates to the inner lookup.
// Failed lookups are negatively cached for 30s to prevent brute-force DB hammering.
func (c *CachedFirmLookup) GetFirmByAPIKey(ctx context.Context, apiKey string) (string, error) {
	hk := hashKey(apiKey)

	if entry, ok := c.lookup(hk); ok {
		if entry.isNegative() {
			return "", errCachedNotFound
		}
		return entry.firmID, nil
	}

	val, err, _ := c.group.Do(hk, func() (any, error) {
		// Double-check cache after winning the singleflight race.
		if entry, ok := c.lookup(hk); ok {
			if entry.isNegative() {
				return "", errCachedNotFound
			}
			return entry.firmID, nil
		}

		firmID, err := c.inner.GetFirmByAPIKey(ctx, apiKey)
		if err != nil {
			c.store(hk, negativeSentinel)
			return "", err
		}

		c.store(hk, firmID)

		return firmID, nil
	})
	if err != nil {
		return "", err
	}

	return val.(string), nil
}

// store caches a lookup result, trimming the cache when over capacity.
func (c *CachedFirmLookup) store(hk, firmID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.cache) >= maxCacheEntries {
		// Evict expired entries, then trim if still over limit.
		now := time.Now()
		for k, v := range c.cache {
			if now.Sub(v.fetchedAt) >= v.ttl() {
				delete(c.cache, k)
			}
		}
		for k := range c.cache {
			if len(c.cache) < maxCacheEntries {
				break
			}
			delete(c.cache, k)
		}
	}

	c.cache[hk] = cachedFirm{firmID: firmID, fetchedAt: time.Now()}
}
