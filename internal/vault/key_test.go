package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyFor(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"hello.md", "hello"},
		{"notes/hello.md", "notes/hello"},
		{"notes/hello world.md", "notes/hello%20world"},
		{"a b/c d.md", "a%20b/c%20d"},
		{"plain", "plain"},
		{"nested/deep/file.md", "nested/deep/file"},
		{"weird?.md", "weird%3F"},
		{"slash\\win.md", "slash/win"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, KeyFor(tc.path), "KeyFor(%q)", tc.path)
	}
}

func TestKeyForDistinctPaths(t *testing.T) {
	// Escaping must not collapse distinct paths onto one key.
	assert.NotEqual(t, KeyFor("a/b.md"), KeyFor("a%2Fb.md"))
}

func TestStem(t *testing.T) {
	assert.Equal(t, "hello", Stem("notes/hello.md"))
	assert.Equal(t, "hello world", Stem("hello world.md"))
	assert.Equal(t, "file", Stem("file"))
}

func TestKeyTail(t *testing.T) {
	assert.Equal(t, "c", keyTail("a/b/c"))
	assert.Equal(t, "solo", keyTail("solo"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "hello world", normalize("  Hello World "))
	assert.Equal(t, "a  b", normalize("A  B"), "internal whitespace preserved")
}
