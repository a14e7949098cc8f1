package serial

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBadSignature is returned when the file does not start with the
	// module signature. The whole file is rejected.
	ErrBadSignature = errors.New("not a serialized module: bad signature")

	// ErrMalformed is returned for framing or index inconsistencies. The
	// whole file is rejected; no partial graph is exposed.
	ErrMalformed = errors.New("malformed module file")

	// ErrStaleModule is returned when the file carries the discard
	// marker; the caller should rebuild the module from its inputs.
	ErrStaleModule = errors.New("stale module: rebuild from inputs")

	// ErrNoEntity is returned when decoding entity ID 0, which is
	// reserved for "absent" and never addresses a record.
	ErrNoEntity = errors.New("entity ID 0 is reserved")
)

// VersionError reports a major-version mismatch. It is distinct from
// ErrMalformed so tooling can suggest recompiling the module instead of
// treating the file as corrupt.
type VersionError struct {
	Major, Minor   uint16
	SupportedMajor uint16
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("module format version %d.%d not supported (reader supports major %d); recompile the module",
		e.Major, e.Minor, e.SupportedMajor)
}

// IDOutOfRangeError reports an entity ID beyond the offset index. This is
// file corruption, not a missing feature.
type IDOutOfRangeError struct {
	ID  uint64
	Max uint64
}

func (e *IDOutOfRangeError) Error() string {
	return fmt.Sprintf("entity ID %d out of range (index holds %d entities)", e.ID, e.Max)
}

// UnresolvedXRefError reports a cross-module reference whose path no
// longer resolves in the target module. It is recoverable at the point of
// use: the caller may substitute a placeholder and keep loading.
type UnresolvedXRefError struct {
	Module string
	Path   []string
	cause  error
}

func (e *UnresolvedXRefError) Error() string {
	return fmt.Sprintf("unresolved reference to %s.%s", e.Module, strings.Join(e.Path, "."))
}

func (e *UnresolvedXRefError) Unwrap() error { return e.cause }

// UnknownValueError reports an enumerated record field holding a value
// outside the frozen enumeration. The record came from a newer minor
// version; the single decode fails but the rest of the module stays
// loadable.
type UnknownValueError struct {
	Field string
	Value uint64
}

func (e *UnknownValueError) Error() string {
	return fmt.Sprintf("unknown %s value %d (newer format?)", e.Field, e.Value)
}
