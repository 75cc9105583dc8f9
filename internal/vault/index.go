package vault

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/storage"
)

// Index is the externally visible façade over the catalog, the resolution
// tables, and the link graph. All derived state is owned here and guarded by
// one RWMutex: file-change notifications run the full update sequence under
// the write lock, queries run under the read lock, so a reader always
// observes either the pre- or post-notification state, never a partial one.
//
// Returned Page values are copies; callers must treat their slice and map
// fields as read-only.
type Index struct {
	mu     sync.RWMutex
	store  storage.Provider
	logger *slog.Logger

	catalog  *Catalog
	resolver *Resolver
	graph    *Graph

	// refs holds every page's scanned reference texts; unresolved holds the
	// subset that currently resolves nowhere, retried when the vault changes
	// so the graph converges regardless of indexing order.
	refs       map[string][]string
	unresolved map[string][]string
}

// New creates an empty index over the given vault storage.
func New(store storage.Provider, logger *slog.Logger) *Index {
	catalog := NewCatalog()
	return &Index{
		store:      store,
		logger:     logger,
		catalog:    catalog,
		resolver:   NewResolver(catalog),
		graph:      NewGraph(),
		refs:       make(map[string][]string),
		unresolved: make(map[string][]string),
	}
}

// Build populates the index from an exhaustive vault scan. Unreadable files
// are logged and skipped. No readers exist yet, so the bulk build is not
// atomic as a whole; each page still goes through the same invariant-
// preserving update sequence as a live notification.
func (ix *Index) Build() error {
	metas, err := ix.store.List("")
	if err != nil {
		return fmt.Errorf("vault: scan: %w", err)
	}
	for _, meta := range metas {
		data, readErr := ix.store.Read(meta.Path)
		if readErr != nil {
			ix.logger.Warn("index: read failed", slog.String("path", meta.Path), slog.String("error", readErr.Error()))
			continue
		}
		ix.upsert(meta.Path, data, meta.UpdatedAt)
	}
	ix.logger.Info("index: built", slog.Int("pages", ix.PageCount()))
	return nil
}

// NotifyAdded indexes a newly created page file.
func (ix *Index) NotifyAdded(relPath string) error {
	return ix.NotifyChanged(relPath)
}

// NotifyChanged re-indexes a page file after a content change. The page's
// fields are replaced wholesale. On a read failure the previous in-memory
// state is left untouched.
func (ix *Index) NotifyChanged(relPath string) error {
	data, err := ix.store.Read(relPath)
	if err != nil {
		ix.logger.Warn("index: read failed, keeping previous state",
			slog.String("path", relPath), slog.String("error", err.Error()))
		return err
	}
	mod, err := ix.store.ModTime(relPath)
	if err != nil {
		mod = time.Now()
	}
	ix.upsert(relPath, data, mod)
	return nil
}

// NotifyRemoved drops a page and all its derived index state. Removing an
// unknown path is a no-op.
func (ix *Index) NotifyRemoved(relPath string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	old, existed := ix.catalog.Remove(relPath)
	if !existed {
		return
	}
	ix.resolver.Reindex(&old, nil)
	delete(ix.refs, old.Key)
	delete(ix.unresolved, old.Key)

	// Pages that linked here lose their edges; recompute them so their
	// unresolved sets pick up the now-dangling references.
	for _, source := range ix.graph.RemoveDocument(old.Key) {
		ix.setUnresolved(source, ix.graph.RecomputeOutgoing(source, ix.refs[source], ix.resolver.Resolve))
	}
}

// upsert runs the full update sequence for one page under the write lock:
// extract metadata → catalog upsert → resolution reindex → link scan →
// recompute outgoing edges → retry other pages' unresolved references.
func (ix *Index) upsert(relPath string, data []byte, mod time.Time) {
	res := parser.Parse(data)

	rel := filepathToSlash(relPath)
	page := models.Page{
		Key:          KeyFor(rel),
		Title:        res.Title,
		Aliases:      res.Aliases,
		Properties:   res.Properties,
		RelativePath: rel,
		Checksum:     checksum.Sum(data),
		LastModified: mod,
	}
	if page.Title == "" {
		page.Title = Stem(rel)
	}
	refs := parser.CollectLinks(res.Body)

	ix.mu.Lock()
	defer ix.mu.Unlock()

	old, existed := ix.catalog.Upsert(page)
	var oldPage *models.Page
	if existed {
		oldPage = &old
	}
	ix.resolver.Reindex(oldPage, &page)
	ix.refs[page.Key] = refs
	ix.setUnresolved(page.Key, ix.graph.RecomputeOutgoing(page.Key, refs, ix.resolver.Resolve))
	ix.retryUnresolved(page.Key)
}

// retryUnresolved re-resolves other pages' dangling references after the
// page under changed was (re)indexed, e.g. a reference to a page that did
// not exist yet. Only pages whose pending references now resolve are
// recomputed, so the cost is bounded by the affected set.
func (ix *Index) retryUnresolved(changed string) {
	var affected []string
	for key, pending := range ix.unresolved {
		if key == changed {
			continue
		}
		for _, ref := range pending {
			if _, ok := ix.resolver.Resolve(ref); ok {
				affected = append(affected, key)
				break
			}
		}
	}
	for _, key := range affected {
		ix.setUnresolved(key, ix.graph.RecomputeOutgoing(key, ix.refs[key], ix.resolver.Resolve))
	}
}

func (ix *Index) setUnresolved(key string, pending []string) {
	if len(pending) == 0 {
		delete(ix.unresolved, key)
		return
	}
	ix.unresolved[key] = pending
}

// GetPage returns the page stored under the exact key.
func (ix *Index) GetPage(key string) (models.Page, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.catalog.Get(key)
}

// GetPageByPath returns the page stored for a vault-relative path.
func (ix *Index) GetPageByPath(relPath string) (models.Page, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.catalog.Get(KeyFor(relPath))
}

// Resolve turns wikilink reference text into a page key via the fallback
// chain, or reports false for an unresolved reference.
func (ix *Index) Resolve(text string) (string, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.resolver.Resolve(text)
}

// Backlinks returns the pages that link to key, sorted by key. Keys whose
// page has since been removed are silently excluded.
func (ix *Index) Backlinks(key string) []models.Page {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.pagesFor(ix.graph.Backlinks(key))
}

// ForwardLinks returns the pages that key's page links to, sorted by key.
func (ix *Index) ForwardLinks(key string) []models.Page {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.pagesFor(ix.graph.Forward(key))
}

// pagesFor maps keys to current page values, dropping keys the catalog no
// longer holds. Callers hold at least the read lock.
func (ix *Index) pagesFor(keys []string) []models.Page {
	out := make([]models.Page, 0, len(keys))
	for _, k := range keys {
		if p, ok := ix.catalog.Get(k); ok {
			out = append(out, p)
		}
	}
	return out
}

// Search scores and ranks pages against the query. limit <= 0 means no
// truncation. The result is computed against a consistent snapshot.
func (ix *Index) Search(query string, limit int) []models.Page {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return Search(ix.catalog.All(), query, limit)
}

// AllPages returns every page, sorted by relative path.
func (ix *Index) AllPages() []models.Page {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	pages := ix.catalog.All()
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].RelativePath < pages[j].RelativePath
	})
	return pages
}

// RecentPages returns up to limit pages sorted by last-modified descending,
// ties broken by relative path.
func (ix *Index) RecentPages(limit int) []models.Page {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	pages := ix.catalog.All()
	sort.Slice(pages, func(i, j int) bool {
		if !pages[i].LastModified.Equal(pages[j].LastModified) {
			return pages[i].LastModified.After(pages[j].LastModified)
		}
		return pages[i].RelativePath < pages[j].RelativePath
	})
	if limit > 0 && len(pages) > limit {
		pages = pages[:limit]
	}
	return pages
}

// PageCount returns the number of indexed pages.
func (ix *Index) PageCount() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.catalog.Len()
}

// Links returns every resolved edge in the link graph.
func (ix *Index) Links() []models.Link {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.graph.Edges()
}

// Checksums returns the content checksum for every indexed page, keyed by
// relative path. Used by the watcher's reconciliation pass.
func (ix *Index) Checksums() map[string]string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make(map[string]string, ix.catalog.Len())
	for _, p := range ix.catalog.All() {
		out[p.RelativePath] = p.Checksum
	}
	return out
}
