package format

// The enumerations below are stored in records using the minimum bit width
// that covers their cardinality. Decoders must reject values outside the
// known range rather than masking them; an unknown value in a minor-newer
// file is a forward-compatibility signal, not corruption.

// ReferenceKind discriminates cross-module reference records.
type ReferenceKind uint8

const (
	XRefValue ReferenceKind = iota
	XRefOperator
	XRefGenericParam
)

// IsValid reports whether the value is a known reference kind.
func (k ReferenceKind) IsValid() bool { return k <= XRefGenericParam }

// OperatorFixity is the stable encoding of an operator's fixity.
type OperatorFixity uint8

const (
	Infix OperatorFixity = iota
	Prefix
	Postfix
)

// IsValid reports whether the value is a known fixity.
func (f OperatorFixity) IsValid() bool { return f <= Postfix }

// Associativity is the stable encoding of infix operator associativity.
type Associativity uint8

const (
	NonAssociative Associativity = iota
	LeftAssociative
	RightAssociative
)

// IsValid reports whether the value is a known associativity.
func (a Associativity) IsValid() bool { return a <= RightAssociative }

// Ownership is the stable encoding of reference storage ownership.
type Ownership uint8

const (
	Strong Ownership = iota
	Weak
	Unowned
)

// IsValid reports whether the value is a known ownership.
func (o Ownership) IsValid() bool { return o <= Unowned }

// CallingConvention is the stable encoding of a function type's convention.
type CallingConvention uint8

const (
	ConventionC CallingConvention = iota
	ConventionObjCMethod
	ConventionFreestanding
	ConventionMethod
)

// IsValid reports whether the value is a known calling convention.
func (c CallingConvention) IsValid() bool { return c <= ConventionMethod }

// DefaultArgumentKind is the stable encoding of a parameter's default
// argument.
type DefaultArgumentKind uint8

const (
	NoDefaultArgument DefaultArgumentKind = iota
	NormalDefaultArgument
	FileDefaultArgument
	LineDefaultArgument
	ColumnDefaultArgument
)

// IsValid reports whether the value is a known default argument kind.
func (d DefaultArgumentKind) IsValid() bool { return d <= ColumnDefaultArgument }

// LibraryKind is the stable encoding of a link-library requirement.
type LibraryKind uint8

const (
	StaticLibrary LibraryKind = iota
	DynamicLibrary
)

// IsValid reports whether the value is a known library kind.
func (l LibraryKind) IsValid() bool { return l <= DynamicLibrary }

// RequirementKind is the stable encoding of a generic requirement.
type RequirementKind uint8

const (
	ConformanceRequirement RequirementKind = iota
	SameTypeRequirement
)

// IsValid reports whether the value is a known requirement kind.
func (g RequirementKind) IsValid() bool { return g <= SameTypeRequirement }

// KnownProtocol identifies a compiler-known protocol in the
// known-conformances sub-block of the index.
type KnownProtocol uint8

const (
	// ForceDeserialization is not a real protocol; decls listed under it
	// are decoded eagerly on load.
	ForceDeserialization KnownProtocol = iota

	KnownEnumerable
	KnownEnumerator
	KnownLogicValue
	KnownArrayLiteralConvertible
	KnownDictionaryLiteralConvertible
	KnownFloatLiteralConvertible
	KnownIntegerLiteralConvertible
	KnownStringLiteralConvertible
)

// IsValid reports whether the value is a known protocol code.
func (p KnownProtocol) IsValid() bool { return p <= KnownStringLiteralConvertible }
