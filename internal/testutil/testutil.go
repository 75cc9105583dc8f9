// Package testutil provides shared test helpers for setting up vaults and indexes.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/vault"
)

// TestVault creates a temporary vault directory with a storage.Provider.
func TestVault(t *testing.T) (string, storage.Provider) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}

// TestIndex builds an in-memory index over the given provider.
func TestIndex(t *testing.T, store storage.Provider) *vault.Index {
	t.Helper()
	ix := vault.New(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := ix.Build(); err != nil {
		t.Fatal(err)
	}
	return ix
}
