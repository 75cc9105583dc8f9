package vault

import (
	"sort"

	"github.com/starford/ansuz/internal/models"
)

// Catalog owns the canonical collection of pages, keyed by KeyFor(path).
// It is not safe for concurrent use on its own; the Index serializes access.
type Catalog struct {
	pages map[string]models.Page
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{pages: make(map[string]models.Page)}
}

// Upsert inserts or wholesale-replaces the page at its key and returns the
// prior page, so callers can diff title/alias changes.
func (c *Catalog) Upsert(p models.Page) (models.Page, bool) {
	old, existed := c.pages[p.Key]
	c.pages[p.Key] = p
	return old, existed
}

// Remove deletes the page stored under KeyFor(relPath) and returns it.
func (c *Catalog) Remove(relPath string) (models.Page, bool) {
	key := KeyFor(relPath)
	old, existed := c.pages[key]
	if existed {
		delete(c.pages, key)
	}
	return old, existed
}

// Get returns the page for an exact key.
func (c *Catalog) Get(key string) (models.Page, bool) {
	p, ok := c.pages[key]
	return p, ok
}

// Has reports whether a page exists under the exact key.
func (c *Catalog) Has(key string) bool {
	_, ok := c.pages[key]
	return ok
}

// All returns every page. Order is unspecified; callers that need stable
// order sort explicitly.
func (c *Catalog) All() []models.Page {
	out := make([]models.Page, 0, len(c.pages))
	for _, p := range c.pages {
		out = append(out, p)
	}
	return out
}

// Keys returns all page keys in ascending order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.pages))
	for k := range c.pages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of pages.
func (c *Catalog) Len() int {
	return len(c.pages)
}
