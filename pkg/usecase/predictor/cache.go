package predictor

import (
	"sync"

	"github.com/m-mizutani/burrow/pkg/model"
)

const defaultCacheSize = 8

// Cache is a bounded in-memory cache of deserialized artifacts. Entries
// are invalidated only by explicit caller action; the registry pushes no
// invalidation events.
type Cache struct {
	mu      sync.Mutex
	max     int
	order   []model.ModelID
	entries map[model.ModelID]*model.Artifact
}

// NewCache creates a cache holding at most max artifacts
func NewCache(max int) *Cache {
	if max < 1 {
		max = 1
	}
	return &Cache{
		max:     max,
		entries: make(map[model.ModelID]*model.Artifact, max),
	}
}

// Get returns the cached artifact for id, if any
func (c *Cache) Get(id model.ModelID) (*model.Artifact, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	artifact, ok := c.entries[id]
	return artifact, ok
}

// Put stores the artifact, evicting the oldest entry when full
func (c *Cache) Put(id model.ModelID, artifact *model.Artifact) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[id]; ok {
		c.entries[id] = artifact
		return
	}

	for len(c.entries) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[id] = artifact
	c.order = append(c.order, id)
}

// Invalidate drops the entry for id, if present
func (c *Cache) Invalidate(id model.ModelID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[id]; !ok {
		return
	}
	delete(c.entries, id)
	for i, cached := range c.order {
		if cached == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of cached artifacts
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
