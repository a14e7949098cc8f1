// Package graph defines the in-memory symbol graph that module files
// serialize: declarations, the types that describe them, the patterns
// that bind them, and the generic and conformance structures that hang
// off them.
//
// Nodes are plain mutable structs addressed by pointer. Identity matters:
// the deserializer guarantees that two references to the same entity
// yield the same node, and cyclic graphs are expected (a member's
// Context points back at its container). Nodes must therefore tolerate
// being observed before all fields are populated; holders of a handle
// see the final state once decoding completes.
package graph
