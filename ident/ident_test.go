package ident

import "testing"

func TestInternResolve(t *testing.T) {
	b := NewBuilder()
	names := []string{"Point", "x", "y", "makePoint"}
	ids := make([]ID, len(names))
	for i, n := range names {
		ids[i] = b.Intern(n)
	}

	// Interning again returns the same ID, no new entry.
	if got := b.Intern("x"); got != ids[1] {
		t.Errorf("re-intern of x: got %d, want %d", got, ids[1])
	}
	if b.Len() != len(names) {
		t.Errorf("Len = %d, want %d", b.Len(), len(names))
	}

	blob, offsets := b.Blob()
	tbl := NewTable(blob, offsets)
	for i, n := range names {
		s, err := tbl.Resolve(ids[i])
		if err != nil {
			t.Fatalf("Resolve(%d) failed: %v", ids[i], err)
		}
		if s != n {
			t.Errorf("Resolve(%d) = %q, want %q", ids[i], s, n)
		}
	}
}

func TestEmptyIdentifier(t *testing.T) {
	b := NewBuilder()
	if id := b.Intern(""); id != NoID {
		t.Errorf("empty string interned as %d, want NoID", id)
	}
	blob, offsets := b.Blob()
	s, err := NewTable(blob, offsets).Resolve(NoID)
	if err != nil || s != "" {
		t.Errorf("Resolve(NoID) = %q, %v", s, err)
	}
}

func TestResolveOutOfRange(t *testing.T) {
	b := NewBuilder()
	b.Intern("only")
	blob, offsets := b.Blob()
	if _, err := NewTable(blob, offsets).Resolve(5); err == nil {
		t.Error("expected error for out-of-range ID")
	}
}
