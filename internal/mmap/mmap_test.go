package mmap

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blob")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestOpenReadClose(t *testing.T) {
	content := []byte("serialized module bytes")
	m, err := Open(writeFile(t, content))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if got := m.Bytes(); !bytes.Equal(got, content) {
		t.Errorf("Bytes mismatch: got %q, want %q", got, content)
	}
	if m.Size() != len(content) {
		t.Errorf("Size mismatch: got %d, want %d", m.Size(), len(content))
	}

	buf := make([]byte, 6)
	n, err := m.ReadAt(buf, 11)
	if err != nil {
		t.Fatalf("ReadAt failed: %v", err)
	}
	if string(buf[:n]) != "module" {
		t.Errorf("ReadAt got %q", buf[:n])
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
	if m.Bytes() != nil {
		t.Error("Bytes after Close should be nil")
	}
	if _, err := m.ReadAt(buf, 0); err != ErrClosed {
		t.Errorf("ReadAt after Close: got %v, want ErrClosed", err)
	}
}

func TestOpenEmptyFile(t *testing.T) {
	m, err := Open(writeFile(t, nil))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer m.Close()

	if m.Size() != 0 {
		t.Errorf("empty file should map to size 0, got %d", m.Size())
	}
}

func TestAdvise(t *testing.T) {
	m, err := Open(writeFile(t, make([]byte, 8192)))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer m.Close()

	if err := m.Advise(AccessRandom); err != nil {
		t.Errorf("Advise(AccessRandom) failed: %v", err)
	}
}

func TestReadAtBounds(t *testing.T) {
	m, err := Open(writeFile(t, []byte("abc")))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer m.Close()

	if _, err := m.ReadAt(make([]byte, 1), -1); err != ErrInvalidOffset {
		t.Errorf("negative offset: got %v, want ErrInvalidOffset", err)
	}
	if _, err := m.ReadAt(make([]byte, 1), 99); err == nil {
		t.Error("offset past end should fail")
	}
}
