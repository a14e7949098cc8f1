package graph

// EntityID addresses a record in a serialized module. Declarations and
// types share one dense ID space; a type that merely wraps a declaration
// reuses that declaration's ID. IDs are assigned in first-encounter order
// by the writer and are only meaningful within the module that assigned
// them.
type EntityID uint32

// NoEntityID marks the absence of an entity reference.
const NoEntityID EntityID = 0

// IsValid reports whether the ID refers to a real entity.
func (id EntityID) IsValid() bool { return id != NoEntityID }
