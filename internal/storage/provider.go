// Package storage defines the vault file-system abstraction.
package storage

import (
	"time"

	"github.com/starford/ansuz/internal/models"
)

// Provider is the interface for vault file operations. Paths are relative to
// the vault root, forward-slash separated.
type Provider interface {
	// List returns metadata for every .md file under dir. Hidden entries
	// (dot-prefixed files and directories) are excluded.
	List(dir string) ([]models.PageMetadata, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// ModTime returns the last-modified time of the file at path.
	ModTime(path string) (time.Time, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
	// Move renames oldPath to newPath.
	Move(oldPath, newPath string) error
}
