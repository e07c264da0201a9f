package engine

import "sync"

// ContentIndex is the read-mostly registry of recommendable items. Items are
// added or replaced whole by the ingestion collaborator; the engine never
// mutates one in place.
type ContentIndex struct {
	mu    sync.RWMutex
	items map[string]ContentItem
}

// NewContentIndex creates an empty ContentIndex.
func NewContentIndex() *ContentIndex {
	return &ContentIndex{items: make(map[string]ContentItem)}
}

// Add registers or replaces an item.
func (c *ContentIndex) Add(item ContentItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[item.ID] = item
}

// Get returns the item for id, if present.
func (c *ContentIndex) Get(id string) (ContentItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	return item, ok
}

// All returns every item in the index.
func (c *ContentIndex) All() []ContentItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ContentItem, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, item)
	}
	return out
}

// Len returns the number of indexed items.
func (c *ContentIndex) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
