package blobstore

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Open(ctx, "m.symgraph"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Open missing: got %v, want ErrNotFound", err)
	}

	if err := store.Put(ctx, "m.symgraph", []byte("data")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	data, err := ReadAll(ctx, store, "m.symgraph")
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(data) != "data" {
		t.Errorf("got %q", data)
	}

	// Mutating the caller's slice must not reach the store.
	input := []byte("aaaa")
	_ = store.Put(ctx, "other", input)
	input[0] = 'z'
	data, _ = ReadAll(ctx, store, "other")
	if string(data) != "aaaa" {
		t.Errorf("store aliased caller bytes: %q", data)
	}

	if err := store.Delete(ctx, "m.symgraph"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Open(ctx, "m.symgraph"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open after delete: got %v, want ErrNotFound", err)
	}
}
