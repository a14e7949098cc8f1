package blobstore

import (
	"bytes"
	"context"
	"testing"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	content := []byte("module artifact contents")
	if err := store.Put(ctx, "geom.symgraph", content); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	blob, err := store.Open(ctx, "geom.symgraph")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer blob.Close()

	if blob.Size() != int64(len(content)) {
		t.Errorf("Size mismatch: got %d, want %d", blob.Size(), len(content))
	}

	got, err := blob.(Mappable).Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestLocalStoreOverwriteAtomic(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	if err := store.Put(ctx, "m.symgraph", []byte("v1")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put(ctx, "m.symgraph", []byte("v2")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	data, err := ReadAll(ctx, store, "m.symgraph")
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(data) != "v2" {
		t.Errorf("got %q, want v2", data)
	}
}

func TestLocalStoreMissing(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	if _, err := store.Open(context.Background(), "nope.symgraph"); err == nil {
		t.Fatal("Open of missing artifact should fail")
	}
}

func TestLocalStoreDeleteAndList(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	for _, name := range []string{"lib/a.symgraph", "lib/b.symgraph", "app.symgraph"} {
		if err := store.Put(ctx, name, []byte(name)); err != nil {
			t.Fatalf("Put %s failed: %v", name, err)
		}
	}

	names, err := store.List(ctx, "lib/")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("List got %v, want 2 entries", names)
	}

	if err := store.Delete(ctx, "lib/a.symgraph"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "lib/a.symgraph"); err != nil {
		t.Errorf("deleting a missing artifact should not fail: %v", err)
	}

	names, err = store.List(ctx, "lib/")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 1 || names[0] != "lib/b.symgraph" {
		t.Errorf("List after delete got %v", names)
	}
}
