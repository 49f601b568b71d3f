package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache memoizes loaded datasets keyed by source identity. Cached datasets
// are shared read-only between runs. A nil *Cache is valid and caches nothing.
type Cache struct {
	store *gocache.Cache
}

// NewCache creates an in-memory cache. A zero ttl keeps entries until
// they are invalidated.
func NewCache(ttl, cleanupInterval time.Duration) *Cache {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &Cache{store: gocache.New(ttl, cleanupInterval)}
}

type cacheEntry struct {
	// version is mtime+size for local files; remote entries use validators.
	version    string
	validators Validators
	ds         *Dataset
}

// CacheKey derives a cache key from a source and the options that shape parsing.
func CacheKey(source, fingerprint string) string {
	hash := sha256.Sum256([]byte(source + "\x00" + fingerprint))
	return "census:v1:" + hex.EncodeToString(hash[:])
}

func (c *Cache) get(key string) (*cacheEntry, bool) {
	if c == nil {
		return nil, false
	}
	if v, found := c.store.Get(key); found {
		return v.(*cacheEntry), true
	}
	return nil, false
}

func (c *Cache) set(key string, e *cacheEntry) {
	if c == nil {
		return
	}
	c.store.SetDefault(key, e)
}

// Invalidate drops every entry of source, whatever options it was loaded with.
func (c *Cache) Invalidate(source string) {
	if c == nil {
		return
	}
	for k, item := range c.store.Items() {
		if e, ok := item.Object.(*cacheEntry); ok && e.ds != nil && e.ds.Source == source {
			c.store.Delete(k)
		}
	}
}

// Flush empties the cache.
func (c *Cache) Flush() {
	if c == nil {
		return
	}
	c.store.Flush()
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.store.ItemCount()
}
