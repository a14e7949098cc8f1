// Package bcio implements the framed block/record container that module
// files are built from.
//
// A stream is a sequence of items. Each item starts with a one-byte tag:
// tag 0 introduces a nested block (uvarint block ID, uvarint payload
// length, payload bytes), tag 1 introduces a record. A record is fully
// length-prefixed:
//
//	[len uvarint] [kind uvarint]
//	[nscalars uvarint] [scalar uvarint]...
//	[nelems uvarint] [elem uvarint]...
//	[nbytes uvarint] [blob bytes]
//
// Because every record carries its own length, a reader that understands
// only a prefix of a record's fields can skip the remainder without
// manual byte counting. That is what makes additive minor-version format
// changes safe for older readers.
//
// Offsets handed out by the writer are byte offsets into the payload of
// the enclosing block, pointing at the item tag. Seeking a cursor to such
// an offset and reading resumes exactly at that record.
package bcio
