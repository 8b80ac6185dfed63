// Package texture finds and decodes preview textures for material slots.
package texture

import (
	"image"
	"sync"

	"go.uber.org/zap"
)

// Resolver resolves a material slot name to a decoded image.
type Resolver interface {
	Resolve(name string) *image.NRGBA
}

// Cache is a concurrency-safe texture cache shared by batch workers.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*image.NRGBA // path → image, nil when decoding failed
	index *Index
	log   *zap.Logger
}

// NewCache creates a texture cache backed by the given index. A nil logger
// discards decode failures.
func NewCache(index *Index, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{
		items: make(map[string]*image.NRGBA),
		index: index,
		log:   log,
	}
}

// Resolve loads and caches a texture by name. Returns nil if not found.
func (c *Cache) Resolve(name string) *image.NRGBA {
	path, ok := c.index.ResolvePath(name)
	if !ok {
		return nil
	}

	// Fast path: read lock
	c.mu.RLock()
	img, exists := c.items[path]
	c.mu.RUnlock()
	if exists {
		return img
	}

	img, err := LoadTexture(path)
	if err != nil {
		c.log.Warn("texture unusable", zap.String("path", path), zap.Error(err))
	}

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, exists := c.items[path]; exists {
		return cached
	}
	c.items[path] = img
	return img
}
