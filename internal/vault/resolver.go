package vault

import (
	"strings"

	"github.com/starford/ansuz/internal/models"
)

// Resolver maintains the normalized title and alias lookup tables and turns
// reference text into a page key via an ordered fallback chain. It holds only
// keys, never page values; the catalog stays authoritative.
type Resolver struct {
	catalog *Catalog
	byTitle map[string]string // normalize(title) and normalize(filename stem) → key
	byAlias map[string]string // normalize(alias) → key
}

// NewResolver creates a resolver over the given catalog.
func NewResolver(catalog *Catalog) *Resolver {
	return &Resolver{
		catalog: catalog,
		byTitle: make(map[string]string),
		byAlias: make(map[string]string),
	}
}

// Reindex patches the tables for one page transition. Either side may be nil:
// (nil, new) on add, (old, nil) on remove, (old, new) on change. Stale entries
// for the old state are purged before the new state is inserted, so no table
// entry ever references a page the catalog no longer holds. Calling with
// identical old and new states is a no-op.
func (r *Resolver) Reindex(old, updated *models.Page) {
	if old != nil {
		r.drop(r.byTitle, normalize(old.Title), old.Key)
		r.drop(r.byTitle, normalize(Stem(old.RelativePath)), old.Key)
		for _, a := range old.Aliases {
			r.drop(r.byAlias, normalize(a), old.Key)
		}
	}
	if updated != nil {
		r.byTitle[normalize(updated.Title)] = updated.Key
		r.byTitle[normalize(Stem(updated.RelativePath))] = updated.Key
		for _, a := range updated.Aliases {
			r.byAlias[normalize(a)] = updated.Key
		}
	}
}

// drop removes table[entry] only while it still points at key, so a later
// page that claimed the same normalized text is not clobbered.
func (r *Resolver) drop(table map[string]string, entry, key string) {
	if table[entry] == key {
		delete(table, entry)
	}
}

// resolveRule is one strategy in the fallback chain: pure, first match wins.
type resolveRule func(r *Resolver, text string) (string, bool)

// resolveChain is the resolution precedence order. The case-insensitive
// filename-tail rule comes last and is kept exactly as the historical
// behavior: in vaults with duplicate basenames across folders it matches the
// lexically smallest key.
var resolveChain = []resolveRule{
	matchAlias,
	matchTitle,
	matchExactKey,
	matchKeyFold,
	matchKeyTail,
}

// Resolve turns reference text into a page key, or reports false for an
// unresolved reference. Unresolved is an expected outcome, not an error.
func (r *Resolver) Resolve(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	for _, rule := range resolveChain {
		if key, ok := rule(r, text); ok {
			return key, ok
		}
	}
	return "", false
}

func matchAlias(r *Resolver, text string) (string, bool) {
	key, ok := r.byAlias[normalize(text)]
	return key, ok
}

func matchTitle(r *Resolver, text string) (string, bool) {
	key, ok := r.byTitle[normalize(text)]
	return key, ok
}

// matchExactKey treats the text as a page path/key, case-sensitive.
func matchExactKey(r *Resolver, text string) (string, bool) {
	key := KeyFor(text)
	if r.catalog.Has(key) {
		return key, true
	}
	return "", false
}

func matchKeyFold(r *Resolver, text string) (string, bool) {
	want := KeyFor(text)
	for _, key := range r.catalog.Keys() {
		if strings.EqualFold(key, want) {
			return key, true
		}
	}
	return "", false
}

func matchKeyTail(r *Resolver, text string) (string, bool) {
	want := keyTail(KeyFor(text))
	for _, key := range r.catalog.Keys() {
		if strings.EqualFold(keyTail(key), want) {
			return key, true
		}
	}
	return "", false
}
