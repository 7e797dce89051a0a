package admin

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"
)

// RenderCache memoizes rendered chart HTML so repeated page loads are cheap.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// ChartCache is an in-memory TTL cache for rendered chart fragments.
type ChartCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cachedFragment
}

type cachedFragment struct {
	html    string
	expires time.Time
}

// NewChartCache builds a cache with the provided TTL. A non-positive TTL
// disables caching entirely.
func NewChartCache(ttl time.Duration) *ChartCache {
	return &ChartCache{ttl: ttl, entries: make(map[string]cachedFragment)}
}

// GetOrRender returns a live cached fragment or renders and stores a new one.
func (c *ChartCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if c != nil && c.ttl > 0 {
		c.mu.RLock()
		entry, ok := c.entries[key]
		c.mu.RUnlock()
		if ok && time.Now().Before(entry.expires) {
			return entry.html, nil
		}
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	if c != nil && c.ttl > 0 {
		c.mu.Lock()
		c.entries[key] = cachedFragment{html: html, expires: time.Now().Add(c.ttl)}
		c.mu.Unlock()
	}
	return html, nil
}

// cacheKey hashes an arbitrary view model into a stable cache key.
func cacheKey(prefix string, model any) string {
	data, err := json.Marshal(model)
	if err != nil {
		return prefix + ":invalid"
	}
	sum := sha1.Sum(data)
	return prefix + ":" + hex.EncodeToString(sum[:])
}
