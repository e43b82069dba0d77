package mclang

import "sync"

// buildCache is a generic memoizing cache keyed by expression-tree
// identity, adapted from the teacher's Database/Query[K,V] query cache
// (query.go): the same write-once-per-key, read-many-times shape,
// trimmed down to what Builder.Build needs and without the
// dependency-invalidation machinery query.go carries for its grammar
// queries — Expression trees are immutable once constructed (§3), so a
// cache entry is never invalidated, only superseded by a new root ID
// when a Layer rebuilds a fresh tree.
type buildCache struct {
	mu      sync.RWMutex
	entries map[uint64]string
}

func newBuildCache() *buildCache {
	return &buildCache{entries: make(map[uint64]string)}
}

func (c *buildCache) get(id uint64) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	src, ok := c.entries[id]
	return src, ok
}

func (c *buildCache) set(id uint64, src string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = src
}

// stats reports the cache's current size, mirroring the teacher's
// DatabaseStats for debugging/testing.
func (c *buildCache) stats() buildCacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return buildCacheStats{CachedCount: len(c.entries)}
}

type buildCacheStats struct {
	CachedCount int
}
