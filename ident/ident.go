// Package ident interns the identifier strings of one module.
//
// Strings are stored once, in a single opaque blob of NUL-terminated
// UTF-8, to avoid per-identifier framing overhead. An identifier ID is an
// index into the offset table built alongside the blob; ID 0 is reserved
// for the empty identifier. The table is write-once: a Builder produces
// it during serialization and a Table reads it back, immutably, at load.
package ident

import (
	"bytes"
	"fmt"
)

// ID addresses an interned identifier. 0 means "empty/absent".
type ID uint32

// NoID is the reserved empty identifier.
const NoID ID = 0

// IsValid reports whether the ID names a real identifier.
func (id ID) IsValid() bool { return id != NoID }

// Builder interns strings during serialization.
type Builder struct {
	byName map[string]ID
	names  []string
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{byName: make(map[string]ID)}
}

// Intern returns the ID for s, assigning the next one on first use.
// The empty string always maps to NoID.
func (b *Builder) Intern(s string) ID {
	if s == "" {
		return NoID
	}
	if id, ok := b.byName[s]; ok {
		return id
	}
	id := ID(len(b.names) + 1)
	b.byName[s] = id
	b.names = append(b.names, s)
	return id
}

// Len reports the number of interned identifiers, excluding NoID.
func (b *Builder) Len() int { return len(b.names) }

// Blob builds the identifier blob and the per-ID byte offsets into it.
// offsets[i] is the offset of ID i+1.
func (b *Builder) Blob() (blob []byte, offsets []uint64) {
	var buf bytes.Buffer
	offsets = make([]uint64, len(b.names))
	for i, s := range b.names {
		offsets[i] = uint64(buf.Len())
		buf.WriteString(s)
		buf.WriteByte(0)
	}
	return buf.Bytes(), offsets
}

// Table resolves identifier IDs against a loaded blob.
type Table struct {
	blob    []byte
	offsets []uint64
}

// NewTable wraps a loaded blob and its offset index.
func NewTable(blob []byte, offsets []uint64) *Table {
	return &Table{blob: blob, offsets: offsets}
}

// Len reports the number of identifiers in the table, excluding NoID.
func (t *Table) Len() int { return len(t.offsets) }

// Resolve returns the string for the given ID. NoID resolves to "".
func (t *Table) Resolve(id ID) (string, error) {
	if id == NoID {
		return "", nil
	}
	i := int(id) - 1
	if i >= len(t.offsets) {
		return "", fmt.Errorf("identifier ID %d out of range (have %d)", id, len(t.offsets))
	}
	off := t.offsets[i]
	if off >= uint64(len(t.blob)) {
		return "", fmt.Errorf("identifier offset %d beyond blob of %d bytes", off, len(t.blob))
	}
	end := bytes.IndexByte(t.blob[off:], 0)
	if end < 0 {
		return "", fmt.Errorf("unterminated identifier at offset %d", off)
	}
	return string(t.blob[off : off+uint64(end)]), nil
}
