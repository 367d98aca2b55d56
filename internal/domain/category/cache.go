package category

import "time"

// Cache holds taxonomy rows for read-side traversals. The catalog is
// shared across tenants and mutates rarely, so a short TTL is plenty.
type Cache interface {
	GetByID(categoryID string) (*Category, bool)
	SetByID(categoryID string, c *Category, ttl time.Duration)
	DeleteByID(categoryID string)
	Clear()
}

type noopCache struct{}

func (noopCache) GetByID(string) (*Category, bool) {
	return nil, false
}

func (noopCache) SetByID(string, *Category, time.Duration) {}

func (noopCache) DeleteByID(string) {}

func (noopCache) Clear() {}
