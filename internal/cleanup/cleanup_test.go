package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"cardapio-go/internal/imaging"
	"cardapio-go/internal/model"
	"cardapio-go/internal/storage"
	"cardapio-go/internal/store"
	"cardapio-go/internal/testutil"
)

func TestRunRemovesOrphanedUploads(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	root := t.TempDir()
	bucket := storage.NewBucket(root, "menu_images", "")
	if err := bucket.Ensure(); err != nil {
		t.Fatal(err)
	}
	processor := imaging.NewProcessor(bucket.Dir())
	items := store.NewItemStore(db)

	// Two stored uploads, one referenced by an item.
	for _, id := range []string{"referenced-id", "orphan-id"} {
		dir := filepath.Join(bucket.Dir(), "originals", id)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "foto.jpg"), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	_, err := items.Create(context.Background(), model.MenuItem{
		Name:        "X-Burger",
		Description: "Com queijo",
		PriceCents:  1500,
		Category:    "Lanches",
		ImageURL:    "/uploads/menu_images/originals/referenced-id/foto.jpg",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	j := New(items, bucket, processor, testutil.TestLogger())
	if err := j.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, err := os.Stat(filepath.Join(bucket.Dir(), "originals", "referenced-id")); err != nil {
		t.Errorf("referenced upload was removed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(bucket.Dir(), "originals", "orphan-id")); !os.IsNotExist(err) {
		t.Error("orphaned upload still present")
	}
}

func TestRunEmptyBucketIsNoOp(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	bucket := storage.NewBucket(t.TempDir(), "menu_images", "")
	j := New(store.NewItemStore(db), bucket, imaging.NewProcessor(bucket.Dir()), testutil.TestLogger())

	if err := j.Run(context.Background()); err != nil {
		t.Fatalf("Run on empty bucket: %v", err)
	}
}
