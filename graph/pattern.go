package graph

import "github.com/symgraph/symgraph/format"

// ParenPattern wraps a sub-pattern in parentheses.
type ParenPattern struct {
	patternBase
	Sub      Pattern
	Implicit bool
}

// TuplePatternElt is one element of a tuple pattern. The element's
// sub-pattern trails its record.
type TuplePatternElt struct {
	DefaultArg format.DefaultArgumentKind
	Sub        Pattern
}

// TuplePattern destructures a tuple.
type TuplePattern struct {
	patternBase
	Type      Type
	Implicit  bool
	HasVararg bool
	Elements  []TuplePatternElt
}

// NamedPattern binds a single variable.
type NamedPattern struct {
	patternBase
	Var      *VarDecl
	Implicit bool
}

// AnyPattern matches anything ("_").
type AnyPattern struct {
	patternBase
	Type     Type
	Implicit bool
}

// TypedPattern annotates a sub-pattern with a type.
type TypedPattern struct {
	patternBase
	Sub      Pattern
	Type     Type
	Implicit bool
}

// VarPattern marks its sub-pattern as introducing variable bindings.
type VarPattern struct {
	patternBase
	Sub      Pattern
	Implicit bool
}
