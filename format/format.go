package format

// Signature identifies serialized module files. It is the first four bytes
// of every artifact.
var Signature = [4]byte{0xE2, 0x9C, 0xA8, 0x0E}

const (
	// VersionMajor is bumped when older readers can no longer understand
	// the file at all.
	VersionMajor uint16 = 1

	// VersionMinor is bumped for backwards-compatible format additions.
	VersionMinor uint16 = 0
)

// EntityIDBits is the width of entity, identifier, and offset ID fields.
// IDs are 31-bit values; 0 always means "none".
const EntityIDBits = 31

// MaxEntityID is the largest encodable entity or identifier ID.
const MaxEntityID = 1<<EntityIDBits - 1

// BlockID identifies a top-level or nested block within a module file.
type BlockID uint32

// Block IDs. The numbering has deliberate gaps: IDs below
// FirstApplicationBlockID are reserved by the container codec, the
// known-conformances sub-block sits at 64, and the discard marker at 100.
// The unassigned ranges are reserved for forward growth; new block kinds
// must not assume contiguous numbering.
const (
	// FirstApplicationBlockID is the lowest block ID available to the
	// module format; smaller values belong to the container codec.
	FirstApplicationBlockID BlockID = 8

	// ControlBlockID contains everything that must be validated before
	// committing to loading the module.
	ControlBlockID BlockID = FirstApplicationBlockID + iota - 1

	// InputBlockID lists the files and modules this module was built from.
	InputBlockID

	// SymbolGraphBlockID holds one record per declaration or type.
	// Types share the declaration ID space so that a type that merely
	// wraps a decl does not need a second entry.
	SymbolGraphBlockID

	// IdentifierBlockID holds a single opaque blob of NUL-terminated
	// UTF-8 strings. Identifier offsets point directly into the blob.
	IdentifierBlockID

	// IndexBlockID holds the offset and name-lookup tables.
	IndexBlockID

	// KnownConformancesBlockID is a sub-block of the index listing decls
	// known to conform to each compiler-known protocol.
	KnownConformancesBlockID BlockID = 64

	// DiscardBlockID is an empty block telling the reader to throw the
	// module away and rebuild from the inputs listed in the input block.
	DiscardBlockID BlockID = 100
)

// RecordKind tags every record in the symbol graph block. Kinds are
// partitioned into numeric bands by syntactic category: types from 1,
// declarations from 100, patterns from 200, generic constructs from 240,
// and conformance/reference records from 250.
type RecordKind uint16

const (
	// Type records. Types that merely wrap a declaration (alias types,
	// generic parameter types) have no record kind of their own: they
	// reuse the wrapped decl's ID and record.
	NominalTypeKind RecordKind = iota + 1
	ParenTypeKind
	TupleTypeKind
	TupleTypeEltKind
	FunctionTypeKind
	MetatypeTypeKind
	LValueTypeKind
	BoundGenericTypeKind
	ArrayTypeKind
	SliceTypeKind
	OptionalTypeKind
	ReferenceStorageTypeKind
	ProtocolCompositionTypeKind
)

const (
	// Declaration records.
	TypeAliasDeclKind RecordKind = iota + 100
	GenericParamDeclKind
	StructDeclKind
	ClassDeclKind
	ProtocolDeclKind
	EnumDeclKind
	EnumElementDeclKind
	VarDeclKind
	FuncDeclKind
	ConstructorDeclKind
	DestructorDeclKind
	SubscriptDeclKind
	PatternBindingDeclKind
	PrefixOperatorDeclKind
	PostfixOperatorDeclKind
	InfixOperatorDeclKind
	ExtensionDeclKind
)

const (
	// Pattern records. Patterns are only ever emitted as trailing records
	// of a declaration; they have no entries in the offset index.
	ParenPatternKind RecordKind = iota + 200
	TuplePatternKind
	TuplePatternEltKind
	NamedPatternKind
	AnyPatternKind
	TypedPatternKind
	VarPatternKind
)

const (
	// Generic construct records.
	GenericParamListKind RecordKind = iota + 240
	GenericParamKind
	GenericRequirementKind
)

const (
	// Conformance and reference records. 252 and 253 are reserved for
	// specialized and inherited conformances.
	NoConformanceKind     RecordKind = 250
	NormalConformanceKind RecordKind = 251
	MemberListKind        RecordKind = 254
	XRefKind              RecordKind = 255
)

// IsDecl reports whether the kind lies in the declaration band.
func (k RecordKind) IsDecl() bool { return k >= 100 && k < 200 }

// IsType reports whether the kind lies in the type band.
func (k RecordKind) IsType() bool { return k >= 1 && k < 100 }

// IsPattern reports whether the kind lies in the pattern band.
func (k RecordKind) IsPattern() bool { return k >= 200 && k < 240 }

// Control block record codes.
const (
	ControlMetadataCode = 1
)

// Input block record codes.
const (
	InputSourceFileCode = iota + 1
	InputImportedModuleCode
	InputLinkLibraryCode
)

// Identifier block record codes.
const (
	IdentifierDataCode = 1
)

// Index block record codes.
const (
	IndexEntityOffsetsCode = iota + 1
	IndexIdentifierOffsetsCode
	IndexTopLevelCode
	IndexOperatorsCode
	IndexExtensionsCode
	IndexMembersCode
)

// KnownConformancesCode is the record code inside the known-conformances
// sub-block. Each record carries a KnownProtocol scalar and a bitmap blob
// of conforming decl IDs.
const KnownConformancesCode = 1
