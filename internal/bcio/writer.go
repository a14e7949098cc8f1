package bcio

import (
	"bytes"
	"encoding/binary"
)

// Writer builds a block/record stream in memory.
//
// Blocks may nest; each open block buffers its payload so the length
// prefix can be written when the block ends. The writer is single-use:
// after Bytes it must not be reused.
type Writer struct {
	top    bytes.Buffer
	stack  []*blockFrame
	varbuf [binary.MaxVarintLen64]byte
}

type blockFrame struct {
	id  uint64
	buf bytes.Buffer
}

// NewWriter creates an empty writer.
func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) sink() *bytes.Buffer {
	if n := len(w.stack); n > 0 {
		return &w.stack[n-1].buf
	}
	return &w.top
}

func (w *Writer) putUvarint(buf *bytes.Buffer, v uint64) {
	n := binary.PutUvarint(w.varbuf[:], v)
	buf.Write(w.varbuf[:n])
}

// BeginBlock opens a nested block with the given ID.
func (w *Writer) BeginBlock(id uint64) {
	w.stack = append(w.stack, &blockFrame{id: id})
}

// EndBlock closes the innermost open block and appends it to its parent.
func (w *Writer) EndBlock() {
	n := len(w.stack)
	frame := w.stack[n-1]
	w.stack = w.stack[:n-1]

	sink := w.sink()
	sink.WriteByte(tagBlock)
	w.putUvarint(sink, frame.id)
	w.putUvarint(sink, uint64(frame.buf.Len()))
	sink.Write(frame.buf.Bytes())
}

// Offset returns the byte offset at which the next item will start,
// relative to the payload of the innermost open block.
func (w *Writer) Offset() uint64 {
	return uint64(w.sink().Len())
}

// WriteRecord appends a record to the innermost open block.
func (w *Writer) WriteRecord(r Record) {
	var body bytes.Buffer
	w.putUvarint(&body, r.Kind)
	w.putUvarint(&body, uint64(len(r.Scalars)))
	for _, s := range r.Scalars {
		w.putUvarint(&body, s)
	}
	w.putUvarint(&body, uint64(len(r.Array)))
	for _, e := range r.Array {
		w.putUvarint(&body, e)
	}
	w.putUvarint(&body, uint64(len(r.Blob)))
	body.Write(r.Blob)

	sink := w.sink()
	sink.WriteByte(tagRecord)
	w.putUvarint(sink, uint64(body.Len()))
	sink.Write(body.Bytes())
}

// Bytes returns the serialized stream. All blocks must be closed.
func (w *Writer) Bytes() []byte {
	if len(w.stack) != 0 {
		panic("bcio: Bytes called with open blocks")
	}
	return w.top.Bytes()
}
