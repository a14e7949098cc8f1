package bcio

import (
	"encoding/binary"
	"fmt"
)

// Block is a decoded block frame. Payload is a sub-slice of the original
// stream; no bytes are copied.
type Block struct {
	ID      uint64
	Payload []byte
}

// Cursor returns a cursor positioned at the start of the block payload.
func (b *Block) Cursor() *Cursor {
	return &Cursor{data: b.Payload}
}

// CursorAt returns a cursor positioned at the given payload offset. The
// offset must address the start of a record item.
func (b *Block) CursorAt(off uint64) (*Cursor, error) {
	if off >= uint64(len(b.Payload)) {
		return nil, fmt.Errorf("%w: offset %d beyond block of %d bytes", ErrBadOffset, off, len(b.Payload))
	}
	if b.Payload[off] != tagRecord {
		return nil, fmt.Errorf("%w: offset %d", ErrBadOffset, off)
	}
	return &Cursor{data: b.Payload, pos: int(off)}, nil
}

// Item is a single stream entry: either a nested block or a record.
type Item struct {
	Block  *Block
	Record *Record
}

// Cursor iterates over the items of one block payload.
type Cursor struct {
	data []byte
	pos  int
}

// AtEnd reports whether the cursor has consumed the whole payload.
func (c *Cursor) AtEnd() bool { return c.pos >= len(c.data) }

func (c *Cursor) uvarint() (uint64, error) {
	v, n := binary.Uvarint(c.data[c.pos:])
	if n <= 0 {
		return 0, ErrTruncated
	}
	c.pos += n
	return v, nil
}

// Next decodes the next item. It returns ErrEndOfBlock once the payload
// is exhausted.
func (c *Cursor) Next() (Item, error) {
	if c.AtEnd() {
		return Item{}, ErrEndOfBlock
	}
	tag := c.data[c.pos]
	c.pos++
	switch tag {
	case tagBlock:
		id, err := c.uvarint()
		if err != nil {
			return Item{}, err
		}
		size, err := c.uvarint()
		if err != nil {
			return Item{}, err
		}
		if uint64(len(c.data)-c.pos) < size {
			return Item{}, ErrTruncated
		}
		payload := c.data[c.pos : c.pos+int(size)]
		c.pos += int(size)
		return Item{Block: &Block{ID: id, Payload: payload}}, nil
	case tagRecord:
		rec, err := c.readRecord()
		if err != nil {
			return Item{}, err
		}
		return Item{Record: rec}, nil
	default:
		return Item{}, fmt.Errorf("bcio: unknown item tag %d at offset %d", tag, c.pos-1)
	}
}

// NextRecord decodes the next item and requires it to be a record.
func (c *Cursor) NextRecord() (*Record, error) {
	item, err := c.Next()
	if err != nil {
		return nil, err
	}
	if item.Record == nil {
		return nil, fmt.Errorf("bcio: expected record, found block %d", item.Block.ID)
	}
	return item.Record, nil
}

func (c *Cursor) readRecord() (*Record, error) {
	size, err := c.uvarint()
	if err != nil {
		return nil, err
	}
	if uint64(len(c.data)-c.pos) < size {
		return nil, ErrTruncated
	}
	body := &Cursor{data: c.data[c.pos : c.pos+int(size)]}
	c.pos += int(size)

	rec := &Record{}
	if rec.Kind, err = body.uvarint(); err != nil {
		return nil, err
	}
	nscalars, err := body.uvarint()
	if err != nil {
		return nil, err
	}
	if nscalars > uint64(len(body.data)) {
		return nil, ErrTruncated
	}
	rec.Scalars = make([]uint64, nscalars)
	for i := range rec.Scalars {
		if rec.Scalars[i], err = body.uvarint(); err != nil {
			return nil, err
		}
	}
	nelems, err := body.uvarint()
	if err != nil {
		return nil, err
	}
	if nelems > uint64(len(body.data)) {
		return nil, ErrTruncated
	}
	rec.Array = make([]uint64, nelems)
	for i := range rec.Array {
		if rec.Array[i], err = body.uvarint(); err != nil {
			return nil, err
		}
	}
	nbytes, err := body.uvarint()
	if err != nil {
		return nil, err
	}
	if uint64(len(body.data)-body.pos) < nbytes {
		return nil, ErrTruncated
	}
	rec.Blob = body.data[body.pos : body.pos+int(nbytes)]
	// Bytes beyond the blob belong to fields from a newer minor version;
	// the length prefix already skipped them.
	return rec, nil
}

// TopLevel wraps a whole stream (after any file signature) as a cursor
// over its top-level items.
func TopLevel(data []byte) *Cursor {
	return &Cursor{data: data}
}
