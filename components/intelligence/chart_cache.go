package intelligence

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultChartCacheSize = 512

// RenderCache memoizes rendered chart HTML so repeated fetches are cheap.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// ChartCache is a bounded LRU of rendered charts whose entries expire after ttl.
type ChartCache struct {
	ttl     time.Duration
	entries *lru.Cache[string, cachedChart]
	now     func() time.Time
}

type cachedChart struct {
	html    string
	expires time.Time
}

// NewChartCache builds a cache with the provided TTL and capacity.
// A non-positive ttl disables caching.
func NewChartCache(ttl time.Duration, size int) *ChartCache {
	if size <= 0 {
		size = defaultChartCacheSize
	}
	// lru.New only fails for non-positive sizes.
	entries, _ := lru.New[string, cachedChart](size)
	return &ChartCache{ttl: ttl, entries: entries, now: time.Now}
}

// GetOrRender returns a cached entry or renders/stores a new one.
func (c *ChartCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if html, ok := c.get(key); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	c.set(key, html)
	return html, nil
}

// Len reports the number of live entries, expired or not.
func (c *ChartCache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}

func (c *ChartCache) get(key string) (string, bool) {
	if c == nil || c.ttl <= 0 {
		return "", false
	}
	entry, ok := c.entries.Get(key)
	if !ok {
		return "", false
	}
	if c.now().After(entry.expires) {
		c.entries.Remove(key)
		return "", false
	}
	return entry.html, true
}

func (c *ChartCache) set(key, html string) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.entries.Add(key, cachedChart{html: html, expires: c.now().Add(c.ttl)})
}

// configHash returns a deterministic hash for a chart input.
func configHash(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "invalid"
	}
	if string(b) == "null" || string(b) == "{}" {
		return "empty"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
