package graph

import "github.com/symgraph/symgraph/format"

// AliasType is the type introduced by a typealias declaration. It shares
// the decl's entity ID.
type AliasType struct {
	typeBase
	Decl *TypeAliasDecl
}

// GenericParamType is the type of a generic parameter declaration. It
// shares the decl's entity ID.
type GenericParamType struct {
	typeBase
	Decl *GenericParamDecl
}

// NominalType names a struct, class, enum, or protocol, optionally
// qualified by the parent type it is nested in.
type NominalType struct {
	typeBase
	Decl   Decl
	Parent Type
}

// ParenType is a parenthesized type.
type ParenType struct {
	typeBase
	Inner Type
}

// TupleTypeElt is one element of a tuple type.
type TupleTypeElt struct {
	Name       string
	Type       Type
	DefaultArg format.DefaultArgumentKind
	Vararg     bool
}

// TupleType is a tuple of zero or more elements.
type TupleType struct {
	typeBase
	Elements []TupleTypeElt
}

// FunctionType is a monomorphic function type.
type FunctionType struct {
	typeBase
	Input       Type
	Output      Type
	Convention  format.CallingConvention
	AutoClosure bool
	Thin        bool
	NoReturn    bool
}

// MetatypeType is the type of a type.
type MetatypeType struct {
	typeBase
	Instance Type
}

// LValueType is the type of an assignable location.
type LValueType struct {
	typeBase
	Object      Type
	Implicit    bool
	NonSettable bool
}

// BoundGenericType applies generic arguments to a generic nominal decl.
type BoundGenericType struct {
	typeBase
	Decl   Decl
	Parent Type
	Args   []Type
}

// ArrayType is a fixed-size array type.
type ArrayType struct {
	typeBase
	Element Type
	Size    uint64
}

// SliceType is the sugared slice form of an array type.
type SliceType struct {
	typeBase
	Element Type
}

// OptionalType is the sugared optional form of a type.
type OptionalType struct {
	typeBase
	Element Type
}

// ReferenceStorageType wraps a referent type with an ownership attribute.
type ReferenceStorageType struct {
	typeBase
	Ownership format.Ownership
	Referent  Type
}

// ProtocolCompositionType is the composition of zero or more protocols.
type ProtocolCompositionType struct {
	typeBase
	Protocols []Type
}
