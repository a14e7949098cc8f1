package bcio

import "errors"

// Item tags.
const (
	tagBlock  = 0
	tagRecord = 1
)

var (
	// ErrTruncated is returned when the stream ends inside an item.
	ErrTruncated = errors.New("bcio: truncated stream")

	// ErrEndOfBlock is returned by Cursor.Next at the end of a block.
	ErrEndOfBlock = errors.New("bcio: end of block")

	// ErrBadOffset is returned when a cursor is positioned at a byte that
	// does not begin a record.
	ErrBadOffset = errors.New("bcio: offset does not address a record")
)

// Record is a single framed record.
type Record struct {
	Kind    uint64
	Scalars []uint64
	Array   []uint64
	Blob    []byte
}

// Scalar returns the i-th scalar field, or 0 if the record carries fewer
// fields. Missing trailing scalars are how older writers appear to newer
// readers, so absence is not an error.
func (r *Record) Scalar(i int) uint64 {
	if i >= len(r.Scalars) {
		return 0
	}
	return r.Scalars[i]
}
