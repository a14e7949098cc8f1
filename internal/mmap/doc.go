// Package mmap provides read-only memory-mapped file access.
//
// Serialized modules are decoded lazily with small random reads spread
// across the whole artifact, which is the access pattern memory mapping
// serves best: no read-ahead copies, and untouched records never leave
// the page cache.
//
//	m, err := mmap.Open("geom.symgraph")
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()
//	_ = m.Advise(mmap.AccessRandom)
//
// Unix platforms use mmap(2) with madvise(2) hints; Windows uses
// CreateFileMapping/MapViewOfFile and ignores access hints. Mapping is
// safe for concurrent reads, and Close is idempotent, but callers must
// not touch Bytes() after Close returns.
package mmap
