// Package serial encodes and decodes the symbol graph of one module.
//
// The writer walks an in-memory graph once, assigning dense entity IDs in
// first-encounter order and emitting exactly one record per distinct
// entity, with trailing record groups written inline after their owner.
// The offset index and name lookup tables are built from the same
// traversal.
//
// The reader is lazy: loading a module validates the control block and
// reads the index eagerly, but decodes symbol graph records only when an
// entity is first dereferenced. Decoded entities are cached per load with
// identity preserved; cache slots move through absent, decoding, and
// resolved states so that cyclic graphs decode without unbounded
// recursion. References to entities owned by other modules are stored as
// structural cross-references and resolved by name against the target
// module's own index, never by raw ID.
package serial
