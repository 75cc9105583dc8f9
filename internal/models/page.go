// Package models defines the domain types for Ansuz.
package models

import "time"

// Page represents one indexed Markdown document in the vault.
//
// Key is the stable, URL-safe identifier derived from RelativePath: the .md
// extension is stripped and every path segment is percent-escaped, with the
// forward slashes preserved. Two distinct relative paths never collide.
type Page struct {
	Key          string           `json:"key"`
	Title        string           `json:"title"`
	Aliases      []string         `json:"aliases,omitempty"`
	Properties   map[string]Value `json:"properties,omitempty"`
	RelativePath string           `json:"relative_path"`
	Checksum     string           `json:"checksum"`
	LastModified time.Time        `json:"last_modified"`
}

// PageMetadata is a lightweight representation returned by list operations.
type PageMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Link represents a directed edge between two pages, identified by key.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}
