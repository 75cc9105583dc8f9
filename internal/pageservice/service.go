// Package pageservice coordinates vault storage writes with the in-memory
// index, and exposes the query surface consumed by the API and MCP layers.
package pageservice

import (
	"context"
	"errors"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/vault"
)

// PageDetail is the full representation of a page.
type PageDetail struct {
	Key        string                  `json:"key"`
	Path       string                  `json:"path"`
	Title      string                  `json:"title"`
	Aliases    []string                `json:"aliases"`
	Properties map[string]models.Value `json:"properties,omitempty"`
	Content    string                  `json:"content"`
	Checksum   string                  `json:"checksum"`
	Backlinks  []string                `json:"backlinks"`
	Links      []string                `json:"links"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

// PageListItem is a lightweight item in a list response.
type PageListItem struct {
	Key       string    `json:"key"`
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GraphNode is one vertex in the graph response.
type GraphNode struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// Service coordinates storage and index operations.
type Service struct {
	store storage.Provider
	ix    *vault.Index
}

// NewService creates a new page service.
func NewService(store storage.Provider, ix *vault.Index) *Service {
	return &Service{store: store, ix: ix}
}

// GetPage returns a page by key, with its raw content and link neighborhood.
func (s *Service) GetPage(_ context.Context, key string) (*PageDetail, error) {
	page, ok := s.ix.GetPage(key)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	data, err := s.store.Read(page.RelativePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return s.buildDetail(page, data), nil
}

// CreatePage writes a new page file and indexes it.
func (s *Service) CreatePage(_ context.Context, path string, content []byte) (*PageDetail, error) {
	if _, err := s.store.Read(path); err == nil {
		return nil, apperr.ErrAlreadyExists
	}
	if err := s.store.Write(path, content); err != nil {
		return nil, err
	}
	if err := s.ix.NotifyAdded(path); err != nil {
		return nil, err
	}
	page, _ := s.ix.GetPageByPath(path)
	return s.buildDetail(page, content), nil
}

// UpdatePage writes updated content with optimistic concurrency: when
// ifMatch is non-empty it must equal the checksum of the current content.
func (s *Service) UpdatePage(_ context.Context, key string, content []byte, ifMatch string) (*PageDetail, error) {
	page, ok := s.ix.GetPage(key)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	existing, err := s.store.Read(page.RelativePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if ifMatch != "" && ifMatch != checksum.Sum(existing) {
		return nil, apperr.ErrConflict
	}
	if err := s.store.Write(page.RelativePath, content); err != nil {
		return nil, err
	}
	if err := s.ix.NotifyChanged(page.RelativePath); err != nil {
		return nil, err
	}
	updated, _ := s.ix.GetPage(key)
	return s.buildDetail(updated, content), nil
}

// DeletePage removes a page from storage and the index.
func (s *Service) DeletePage(_ context.Context, key string) error {
	page, ok := s.ix.GetPage(key)
	if !ok {
		return apperr.ErrNotFound
	}
	if err := s.store.Delete(page.RelativePath); err != nil {
		return err
	}
	s.ix.NotifyRemoved(page.RelativePath)
	return nil
}

// ListPages returns paginated pages. sortBy is "path" (default), "title",
// or "updated_at" (descending).
func (s *Service) ListPages(_ context.Context, limit, offset int, sortBy string) ([]PageListItem, int, error) {
	pages := s.ix.AllPages()
	switch sortBy {
	case "title":
		sort.Slice(pages, func(i, j int) bool {
			return strings.ToLower(pages[i].Title) < strings.ToLower(pages[j].Title)
		})
	case "updated_at":
		sort.Slice(pages, func(i, j int) bool {
			return pages[i].LastModified.After(pages[j].LastModified)
		})
	}
	total := len(pages)

	if offset > len(pages) {
		offset = len(pages)
	}
	pages = pages[offset:]
	if limit > 0 && len(pages) > limit {
		pages = pages[:limit]
	}

	items := make([]PageListItem, len(pages))
	for i, p := range pages {
		items[i] = listItem(p)
	}
	return items, total, nil
}

// RecentPages returns up to limit pages by last-modified descending.
func (s *Service) RecentPages(_ context.Context, limit int) []PageListItem {
	pages := s.ix.RecentPages(limit)
	items := make([]PageListItem, len(pages))
	for i, p := range pages {
		items[i] = listItem(p)
	}
	return items
}

// Search delegates ranked search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) []PageListItem {
	pages := s.ix.Search(query, limit)
	items := make([]PageListItem, len(pages))
	for i, p := range pages {
		items[i] = listItem(p)
	}
	return items
}

// Resolve turns wikilink reference text into a page key.
func (s *Service) Resolve(_ context.Context, text string) (string, bool) {
	return s.ix.Resolve(text)
}

// Backlinks returns the pages linking to key.
func (s *Service) Backlinks(_ context.Context, key string) []PageListItem {
	pages := s.ix.Backlinks(key)
	items := make([]PageListItem, len(pages))
	for i, p := range pages {
		items[i] = listItem(p)
	}
	return items
}

// ForwardLinks returns the pages key links to.
func (s *Service) ForwardLinks(_ context.Context, key string) []PageListItem {
	pages := s.ix.ForwardLinks(key)
	items := make([]PageListItem, len(pages))
	for i, p := range pages {
		items[i] = listItem(p)
	}
	return items
}

// Graph returns all nodes and resolved edges for graph visualization.
func (s *Service) Graph(_ context.Context) ([]GraphNode, []models.Link) {
	pages := s.ix.AllPages()
	nodes := make([]GraphNode, len(pages))
	for i, p := range pages {
		nodes[i] = GraphNode{Key: p.Key, Title: p.Title}
	}
	return nodes, s.ix.Links()
}

// PageCount returns the number of indexed pages.
func (s *Service) PageCount(_ context.Context) int {
	return s.ix.PageCount()
}

func (s *Service) buildDetail(page models.Page, data []byte) *PageDetail {
	return &PageDetail{
		Key:        page.Key,
		Path:       page.RelativePath,
		Title:      page.Title,
		Aliases:    nonNilSlice(page.Aliases),
		Properties: page.Properties,
		Content:    string(data),
		Checksum:   page.Checksum,
		Backlinks:  keysOf(s.ix.Backlinks(page.Key)),
		Links:      keysOf(s.ix.ForwardLinks(page.Key)),
		UpdatedAt:  page.LastModified,
	}
}

func listItem(p models.Page) PageListItem {
	return PageListItem{
		Key:       p.Key,
		Path:      p.RelativePath,
		Title:     p.Title,
		Checksum:  p.Checksum,
		UpdatedAt: p.LastModified,
	}
}

func keysOf(pages []models.Page) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.Key
	}
	return out
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
