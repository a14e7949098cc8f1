package graph

import "github.com/symgraph/symgraph/format"

// GenericParamList carries the generic parameters and requirements of a
// generic declaration. It trails the owning record as a fixed-order
// group: the list record, then one record per parameter, then one per
// requirement.
type GenericParamList struct {
	Params       []*GenericParamDecl
	Requirements []GenericRequirement
}

// GenericRequirement constrains the types of a generic signature.
type GenericRequirement struct {
	Kind   format.RequirementKind
	First  Type
	Second Type
}

// Conformance records that a declaration conforms to a protocol.
// Conformances are consumed positionally, so a missing conformance is an
// explicit Absent entry rather than an omitted record.
type Conformance struct {
	Protocol  Decl
	Absent    bool
	Witnesses []Decl
}

// Module is the root of an in-memory symbol graph handed to the writer.
type Module struct {
	Name     string
	TopLevel []Decl

	// KnownConformances lists decls known to conform to compiler-known
	// protocols; it feeds the known-conformances sub-block of the index.
	KnownConformances map[format.KnownProtocol][]Decl
}
