package api

import (
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/pageservice"
)

// CreatePageRequest is the request body for creating a page.
type CreatePageRequest struct {
	Path    string `json:"path" example:"notes/hello.md" validate:"required"`
	Content string `json:"content" example:"# Hello\nWorld" validate:"required"`
}

// UpdatePageRequest is the request body for updating a page.
type UpdatePageRequest struct {
	Content string `json:"content" example:"# Updated\nContent" validate:"required"`
}

// PageDetail is the full page response type (aliased from the domain layer).
type PageDetail = pageservice.PageDetail

// PageListItem is a lightweight item in a list response (aliased from the domain layer).
type PageListItem = pageservice.PageListItem

// PageListResponse wraps paginated page listings.
type PageListResponse struct {
	Pages []PageListItem `json:"pages" validate:"required"`
	Total int            `json:"total" example:"42" validate:"required"`
}

// SearchResponse wraps ranked search results.
type SearchResponse struct {
	Results []PageListItem `json:"results" validate:"required"`
}

// ResolveResponse is the result of resolving wikilink reference text.
type ResolveResponse struct {
	Key      string `json:"key,omitempty" example:"notes/hello"`
	Resolved bool   `json:"resolved" example:"true"`
}

// GraphResponse wraps the full link graph.
type GraphResponse struct {
	Nodes []pageservice.GraphNode `json:"nodes" validate:"required"`
	Links []models.Link           `json:"links" validate:"required"`
}
