package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mmynk/spendbook/internal/models"
	"github.com/mmynk/spendbook/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("Get missing key returns ErrNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "items:nobody@example.com")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("got err %v, want ErrNotFound", err)
		}
	})

	t.Run("Set then Get returns the value", func(t *testing.T) {
		if err := store.Set(ctx, "k", []byte(`[1,2,3]`)); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, err := store.Get(ctx, "k")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(got) != `[1,2,3]` {
			t.Errorf("value mismatch: got %s, want [1,2,3]", got)
		}
	})

	t.Run("Set replaces the whole value", func(t *testing.T) {
		if err := store.Set(ctx, "k", []byte(`[4]`)); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, _ := store.Get(ctx, "k")
		if string(got) != `[4]` {
			t.Errorf("value mismatch: got %s, want [4]", got)
		}
	})

	t.Run("Delete removes key and tolerates missing keys", func(t *testing.T) {
		if err := store.Delete(ctx, "k"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := store.Get(ctx, "k"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("got err %v after delete, want ErrNotFound", err)
		}
		if err := store.Delete(ctx, "k"); err != nil {
			t.Errorf("Delete of missing key failed: %v", err)
		}
	})
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	store, err := New(path)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	items := []models.Item{{ID: "item_1_abcdefghi", Name: "Coffee", Price: 4500, Category: "Drinks"}}
	if err := storage.SaveJSON(ctx, store, storage.ItemsKey("Alice@Example.com"), items); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}
	store.Close()

	// Migrations must be idempotent on an existing database.
	reopened, err := New(path)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	got, version, err := storage.LoadJSON[[]models.Item](ctx, reopened, storage.ItemsKey("alice@example.com"))
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if version != storage.SchemaVersion {
		t.Errorf("version = %d, want %d", version, storage.SchemaVersion)
	}
	if len(got) != 1 || got[0] != items[0] {
		t.Errorf("items mismatch: got %+v, want %+v", got, items)
	}
}
