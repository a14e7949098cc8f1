package graph

import "github.com/symgraph/symgraph/format"

// TypeAliasDecl declares a named alias for a type.
type TypeAliasDecl struct {
	DeclBase
	Underlying   Type
	Conformances []*Conformance
}

// GenericParamDecl declares one generic type parameter. Depth is the
// nesting level of the owning generic context; Index is the position
// within that context's parameter list. The pair, not the name, is what
// cross-module references use to address the parameter.
type GenericParamDecl struct {
	DeclBase
	Depth uint32
	Index uint32
}

// StructDecl declares a struct.
type StructDecl struct {
	DeclBase
	GenericParams *GenericParamList
	Conformances  []*Conformance
	Members       []Decl
}

// ClassDecl declares a class.
type ClassDecl struct {
	DeclBase
	Superclass    Type
	GenericParams *GenericParamList
	Conformances  []*Conformance
	Members       []Decl
}

// ProtocolDecl declares a protocol.
type ProtocolDecl struct {
	DeclBase
	ClassProtocol bool
	Inherited     []Decl
	Members       []Decl
}

// EnumDecl declares an enum.
type EnumDecl struct {
	DeclBase
	GenericParams *GenericParamList
	Conformances  []*Conformance
	Members       []Decl
}

// EnumElementDecl declares one case of an enum.
type EnumElementDecl struct {
	DeclBase
	ArgumentType Type
	ResultType   Type
}

// VarDecl declares a variable or property.
type VarDecl struct {
	DeclBase
	Type       Type
	Getter     Decl
	Setter     Decl
	Overridden Decl
}

// FuncDecl declares a function or method.
type FuncDecl struct {
	DeclBase
	Static        bool
	Signature     Type
	Operator      Decl
	Overridden    Decl
	AsmName       string
	GenericParams *GenericParamList
	Params        []Pattern
}

// ConstructorDecl declares an initializer.
type ConstructorDecl struct {
	DeclBase
	Signature     Type
	GenericParams *GenericParamList
	Param         Pattern
}

// DestructorDecl declares a deinitializer.
type DestructorDecl struct {
	DeclBase
	Signature Type
}

// SubscriptDecl declares a subscript.
type SubscriptDecl struct {
	DeclBase
	ElementType Type
	Getter      Decl
	Setter      Decl
	Overridden  Decl
	Indices     Pattern
}

// PatternBindingDecl binds a pattern, e.g. the left-hand side of a
// variable declaration.
type PatternBindingDecl struct {
	DeclBase
	Pattern Pattern
}

// PrefixOperatorDecl declares a prefix operator.
type PrefixOperatorDecl struct {
	DeclBase
}

// PostfixOperatorDecl declares a postfix operator.
type PostfixOperatorDecl struct {
	DeclBase
}

// InfixOperatorDecl declares an infix operator with its parse attributes.
type InfixOperatorDecl struct {
	DeclBase
	Associativity format.Associativity
	Precedence    uint8
}

// ExtensionDecl extends a nominal type with additional members. The
// extension may live in a different module than the extended type; the
// cross-reference encoding records both module names.
type ExtensionDecl struct {
	DeclBase
	ExtendedType Type
	Conformances []*Conformance
	Members      []Decl
}

// Fixity returns the operator fixity for an operator decl, or false for
// non-operator decls.
func Fixity(d Decl) (format.OperatorFixity, bool) {
	switch d.(type) {
	case *PrefixOperatorDecl:
		return format.Prefix, true
	case *PostfixOperatorDecl:
		return format.Postfix, true
	case *InfixOperatorDecl:
		return format.Infix, true
	default:
		return 0, false
	}
}
