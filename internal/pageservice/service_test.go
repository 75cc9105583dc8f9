package pageservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/testutil"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	_, store := testutil.TestVault(t)
	ix := testutil.TestIndex(t, store)
	return NewService(store, ix)
}

func TestGetPageDetail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreatePage(ctx, "target.md", []byte("---\ntitle: Target\n---\nbody"))
	require.NoError(t, err)
	_, err = svc.CreatePage(ctx, "source.md", []byte("see [[Target]]"))
	require.NoError(t, err)

	detail, err := svc.GetPage(ctx, "target")
	require.NoError(t, err)
	assert.Equal(t, "target", detail.Key)
	assert.Equal(t, "target.md", detail.Path)
	assert.Equal(t, "Target", detail.Title)
	assert.Equal(t, "---\ntitle: Target\n---\nbody", detail.Content)
	assert.Equal(t, []string{"source"}, detail.Backlinks)
	assert.NotEmpty(t, detail.Checksum)

	detail, err = svc.GetPage(ctx, "source")
	require.NoError(t, err)
	assert.Equal(t, []string{"target"}, detail.Links)
}

func TestGetPageNotFound(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.GetPage(context.Background(), "nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreatePageDuplicate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreatePage(ctx, "dup.md", []byte("a"))
	require.NoError(t, err)
	_, err = svc.CreatePage(ctx, "dup.md", []byte("b"))
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)
}

func TestUpdatePageChecksumConflict(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreatePage(ctx, "a.md", []byte("v1"))
	require.NoError(t, err)

	updated, err := svc.UpdatePage(ctx, "a", []byte("v2"), created.Checksum)
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Content)

	_, err = svc.UpdatePage(ctx, "a", []byte("v3"), created.Checksum)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// Empty If-Match skips the check.
	_, err = svc.UpdatePage(ctx, "a", []byte("v3"), "")
	assert.NoError(t, err)
}

func TestDeletePage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreatePage(ctx, "bye.md", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, svc.DeletePage(ctx, "bye"))
	assert.ErrorIs(t, svc.DeletePage(ctx, "bye"), apperr.ErrNotFound)
	_, err = svc.GetPage(ctx, "bye")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListPagesSortAndPaginate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, p := range []struct{ path, content string }{
		{"c.md", "---\ntitle: Apple\n---\n."},
		{"a.md", "---\ntitle: Cherry\n---\n."},
		{"b.md", "---\ntitle: banana\n---\n."},
	} {
		_, err := svc.CreatePage(ctx, p.path, []byte(p.content))
		require.NoError(t, err)
	}

	items, total, err := svc.ListPages(ctx, 0, 0, "path")
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"a.md", "b.md", "c.md"}, itemPaths(items))

	items, _, err = svc.ListPages(ctx, 0, 0, "title")
	require.NoError(t, err)
	assert.Equal(t, []string{"c.md", "b.md", "a.md"}, itemPaths(items),
		"title sort is case-insensitive")

	items, total, err = svc.ListPages(ctx, 2, 1, "path")
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"b.md", "c.md"}, itemPaths(items))

	items, _, err = svc.ListPages(ctx, 10, 99, "path")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGraph(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreatePage(ctx, "a.md", []byte("see [[b]]"))
	require.NoError(t, err)
	_, err = svc.CreatePage(ctx, "b.md", []byte("."))
	require.NoError(t, err)

	nodes, links := svc.Graph(ctx)
	assert.Len(t, nodes, 2)
	require.Len(t, links, 1)
	assert.Equal(t, "a", links[0].Source)
	assert.Equal(t, "b", links[0].Target)
}

func itemPaths(items []PageListItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Path
	}
	return out
}
