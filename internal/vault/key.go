// Package vault implements the in-memory page index: the canonical page
// catalog, title/alias resolution tables, the wikilink graph, and ranked
// search, composed behind a single reader/writer-locked Index.
package vault

import (
	"net/url"
	"path"
	"strings"
)

// KeyFor derives the stable page key from a vault-relative path. The .md
// extension is stripped and each path segment is percent-escaped so the key
// is safe as a URL path, with the forward slashes preserved. Distinct
// relative paths never produce the same key.
func KeyFor(relPath string) string {
	p := strings.TrimSuffix(filepathToSlash(relPath), ".md")
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// Stem returns the filename without directory or .md extension.
func Stem(relPath string) string {
	return strings.TrimSuffix(path.Base(filepathToSlash(relPath)), ".md")
}

// keyTail returns the final path segment of a key.
func keyTail(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// normalize prepares a title or alias for table lookup: lowercased and
// trimmed of surrounding whitespace. Internal whitespace is preserved so
// lookups match the declared text exactly.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
