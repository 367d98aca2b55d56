package inmemory

import (
	"sync"
	"time"

	categorydomain "homestash/internal/domain/category"
)

type InMemoryCategoryCache struct {
	mu    sync.RWMutex
	items map[string]categoryItem
}

type categoryItem struct {
	value     categorydomain.Category
	expiresAt time.Time
}

func NewInMemoryCategoryCache() *InMemoryCategoryCache {
	return &InMemoryCategoryCache{
		items: make(map[string]categoryItem),
	}
}

func (c *InMemoryCategoryCache) GetByID(categoryID string) (*categorydomain.Category, bool) {
	now := time.Now()

	c.mu.RLock()
	item, ok := c.items[categoryID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[categoryID]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, categoryID)
		}
		c.mu.Unlock()
		return nil, false
	}

	cloned := cloneCategory(item.value)
	return &cloned, true
}

func (c *InMemoryCategoryCache) SetByID(categoryID string, cat *categorydomain.Category, ttl time.Duration) {
	if cat == nil || ttl <= 0 {
		c.DeleteByID(categoryID)
		return
	}

	c.mu.Lock()
	c.items[categoryID] = categoryItem{
		value:     cloneCategory(*cat),
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *InMemoryCategoryCache) DeleteByID(categoryID string) {
	c.mu.Lock()
	delete(c.items, categoryID)
	c.mu.Unlock()
}

func (c *InMemoryCategoryCache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]categoryItem)
	c.mu.Unlock()
}

func cloneCategory(cat categorydomain.Category) categorydomain.Category {
	cloned := cat
	if cat.ParentID != nil {
		parentID := *cat.ParentID
		cloned.ParentID = &parentID
	}
	return cloned
}
