package graph

// Entity is anything addressable by an EntityID: a declaration or a type.
type Entity interface {
	isEntity()
}

// Decl is a declaration node.
type Decl interface {
	Entity
	isDecl()
	// Base returns the embedded common declaration fields.
	Base() *DeclBase
}

// Type is a type node.
type Type interface {
	Entity
	isType()
}

// Pattern is a binding pattern node. Patterns are serialized only as
// trailing records of their owning declaration and are not themselves
// ID-addressable.
type Pattern interface {
	isPattern()
}

// DeclBase carries the fields common to every declaration.
type DeclBase struct {
	// Name is the declared name; empty for unnamed decls such as
	// constructors and extensions.
	Name string

	// Module is the name of the defining module. Empty means the decl
	// belongs to the module currently being serialized; anything else
	// makes the writer emit a cross-reference instead of a full record.
	Module string

	// Context is the owning declaration, or nil at module top level.
	Context Decl

	// Implicit marks compiler-synthesized declarations.
	Implicit bool
}

func (*DeclBase) isEntity()       {}
func (*DeclBase) isDecl()         {}
func (b *DeclBase) Base() *DeclBase { return b }

type typeBase struct{}

func (typeBase) isEntity() {}
func (typeBase) isType()   {}

type patternBase struct{}

func (patternBase) isPattern() {}
