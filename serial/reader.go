package serial

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/symgraph/symgraph/format"
	"github.com/symgraph/symgraph/graph"
	"github.com/symgraph/symgraph/ident"
	"github.com/symgraph/symgraph/internal/bcio"
	"github.com/symgraph/symgraph/manifest"
)

// ModuleOptions configures a module load.
type ModuleOptions struct {
	// Resolver locates sibling modules for cross-reference resolution.
	// A module loaded without one can decode everything except foreign
	// entities.
	Resolver Resolver

	// Logger receives debug output; defaults to a discard logger.
	Logger *slog.Logger
}

// WithResolver sets the sibling-module resolver.
func WithResolver(r Resolver) func(*ModuleOptions) {
	return func(o *ModuleOptions) { o.Resolver = r }
}

// WithLogger sets the load logger.
func WithLogger(l *slog.Logger) func(*ModuleOptions) {
	return func(o *ModuleOptions) { o.Logger = l }
}

type slotState uint8

const (
	slotAbsent slotState = iota
	slotDecoding
	slotResolved
)

// slot tracks the decode state of one entity ID. The decoding state
// exists so that a record referring back to an entity higher up the
// decode stack receives the partially populated node instead of
// recursing forever.
type slot struct {
	state  slotState
	entity graph.Entity
}

type opKey struct {
	name   string
	fixity format.OperatorFixity
}

// Module is a lazily decoded serialized module. Loading validates the
// control block and reads the index; graph records are decoded on first
// demand, one entity at a time.
type Module struct {
	// Name is the module name the file was loaded under.
	Name string

	manifest *manifest.Manifest
	info     string
	idents   *ident.Table

	graph        *bcio.Block
	offsets      []uint64
	identOffsets []uint64

	// Raw index triplets, kept until identifiers are available.
	topLevelEntries  []uint64
	operatorEntries  []uint64
	extensionEntries []uint64
	memberEntries    map[graph.EntityID][]uint64

	topLevel   map[string][]tableEntry
	operators  map[opKey]graph.EntityID
	extensions map[string][]graph.EntityID
	members    map[graph.EntityID]map[string][]tableEntry
	known      map[format.KnownProtocol]*roaring.Bitmap

	slots []slot

	// wrapped memoizes the alias and generic-parameter type nodes that
	// share their declaration's entity ID.
	wrapped map[graph.EntityID]graph.Type

	resolver Resolver
	logger   *slog.Logger
	decoded  int
}

// Load parses a serialized module and eagerly decodes its
// force-deserialization set. The byte slice must stay valid for the
// lifetime of the returned module; records reference it without
// copying.
func Load(name string, data []byte, optFns ...func(*ModuleOptions)) (*Module, error) {
	m, err := Parse(name, data, optFns...)
	if err != nil {
		return nil, err
	}
	if err := m.ForceDeserialize(); err != nil {
		return nil, err
	}
	return m, nil
}

// Parse validates the control block and reads the index and name tables
// without decoding any entity. The module is fully addressable when
// Parse returns: lookups and Decode work, and the caller may publish
// the handle before running ForceDeserialize, so that modules whose
// force-decoded entities refer back into a module still being loaded
// receive the in-progress handle.
func Parse(name string, data []byte, optFns ...func(*ModuleOptions)) (*Module, error) {
	var opts ModuleOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if len(data) < len(format.Signature) || !bytes.Equal(data[:len(format.Signature)], format.Signature[:]) {
		return nil, ErrBadSignature
	}

	m := &Module{
		Name:          name,
		memberEntries: make(map[graph.EntityID][]uint64),
		topLevel:      make(map[string][]tableEntry),
		operators:     make(map[opKey]graph.EntityID),
		extensions:    make(map[string][]graph.EntityID),
		members:       make(map[graph.EntityID]map[string][]tableEntry),
		known:         make(map[format.KnownProtocol]*roaring.Bitmap),
		wrapped:       make(map[graph.EntityID]graph.Type),
		resolver:      opts.Resolver,
		logger:        logger,
	}

	var identBlob []byte
	sawControl := false

	cur := bcio.TopLevel(data[len(format.Signature):])
	for !cur.AtEnd() {
		item, err := cur.Next()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if item.Block == nil {
			// Top-level records are reserved for future use.
			continue
		}
		b := item.Block
		switch format.BlockID(b.ID) {
		case format.ControlBlockID:
			if err := m.loadControl(b); err != nil {
				return nil, err
			}
			sawControl = true
		case format.InputBlockID:
			man, err := manifest.ReadBlock(b)
			if err != nil {
				return nil, err
			}
			m.manifest = man
		case format.SymbolGraphBlockID:
			m.graph = b
		case format.IdentifierBlockID:
			rec, err := b.Cursor().NextRecord()
			if err != nil {
				return nil, fmt.Errorf("%w: identifier block: %v", ErrMalformed, err)
			}
			if rec.Kind == format.IdentifierDataCode {
				identBlob = rec.Blob
			}
		case format.IndexBlockID:
			if err := m.loadIndex(b); err != nil {
				return nil, err
			}
		case format.DiscardBlockID:
			return nil, ErrStaleModule
		default:
			// Unknown top-level blocks come from newer minor versions.
		}
	}

	if !sawControl {
		return nil, fmt.Errorf("%w: no control block", ErrMalformed)
	}
	if m.graph == nil || m.offsets == nil {
		return nil, fmt.Errorf("%w: missing graph or index block", ErrMalformed)
	}
	if uint64(len(m.offsets)) > format.MaxEntityID {
		return nil, fmt.Errorf("%w: entity count %d exceeds ID space", ErrMalformed, len(m.offsets))
	}
	if m.manifest == nil {
		m.manifest = &manifest.Manifest{}
	}

	m.idents = ident.NewTable(identBlob, m.identOffsets)
	if err := m.resolveIdentTables(); err != nil {
		return nil, err
	}
	m.slots = make([]slot, len(m.offsets))

	logger.Debug("module parsed",
		"module", name,
		"entities", len(m.offsets),
		"identifiers", m.idents.Len(),
	)
	return m, nil
}

func (m *Module) loadControl(b *bcio.Block) error {
	rec, err := b.Cursor().NextRecord()
	if err != nil {
		return fmt.Errorf("%w: control block: %v", ErrMalformed, err)
	}
	if rec.Kind != format.ControlMetadataCode {
		return fmt.Errorf("%w: control block lacks metadata record", ErrMalformed)
	}
	major := uint16(rec.Scalar(0))
	minor := uint16(rec.Scalar(1))
	if major != format.VersionMajor {
		return &VersionError{Major: major, Minor: minor, SupportedMajor: format.VersionMajor}
	}
	// A newer minor only adds fields and records this reader skips.
	m.info = string(rec.Blob)
	return nil
}

// ForceDeserialize eagerly decodes the entities the writer flagged as
// load-bearing, so their side effects are visible before any lookup.
// Load runs it automatically; callers of Parse run it themselves once
// the module handle is reachable by its resolver.
func (m *Module) ForceDeserialize() error {
	bm := m.known[format.ForceDeserialization]
	if bm == nil {
		return nil
	}
	it := bm.Iterator()
	for it.HasNext() {
		if _, err := m.Decode(graph.EntityID(it.Next())); err != nil {
			return err
		}
	}
	return nil
}

// Decode materializes the entity with the given ID, decoding its record
// on first call and returning the cached node afterwards. A reentrant
// call during decoding returns the partially populated node.
func (m *Module) Decode(id graph.EntityID) (graph.Entity, error) {
	if id == graph.NoEntityID {
		return nil, ErrNoEntity
	}
	if uint64(id) > uint64(len(m.slots)) {
		return nil, &IDOutOfRangeError{ID: uint64(id), Max: uint64(len(m.slots))}
	}
	s := &m.slots[id-1]
	switch s.state {
	case slotResolved, slotDecoding:
		return s.entity, nil
	}

	cur, err := m.graph.CursorAt(m.offsets[id-1])
	if err != nil {
		return nil, fmt.Errorf("%w: entity %d: %v", ErrMalformed, id, err)
	}
	rec, err := cur.NextRecord()
	if err != nil {
		return nil, fmt.Errorf("%w: entity %d: %v", ErrMalformed, id, err)
	}

	if format.RecordKind(rec.Kind) == format.XRefKind {
		// A foreign entity. The target module's own slots guard against
		// cycles, so no placeholder is needed here.
		e, err := m.resolveXRef(rec)
		if err != nil {
			return nil, err
		}
		s.state = slotResolved
		s.entity = e
		m.decoded++
		return e, nil
	}

	e, err := allocEntity(format.RecordKind(rec.Kind))
	if err != nil {
		return nil, err
	}
	s.state = slotDecoding
	s.entity = e
	if err := m.populate(e, rec, cur); err != nil {
		s.state = slotAbsent
		s.entity = nil
		return nil, err
	}
	s.state = slotResolved
	m.decoded++
	return e, nil
}

// decodeDecl decodes an entity reference that must be a declaration.
// ID 0 yields nil, matching the writer's encoding of absent references.
func (m *Module) decodeDecl(raw uint64) (graph.Decl, error) {
	if raw == 0 {
		return nil, nil
	}
	e, err := m.Decode(graph.EntityID(raw))
	if err != nil {
		return nil, err
	}
	d, ok := e.(graph.Decl)
	if !ok {
		return nil, fmt.Errorf("%w: entity %d is not a declaration", ErrMalformed, raw)
	}
	return d, nil
}

// decodeType decodes an entity reference in type position. Alias and
// generic-parameter declarations share their ID with the type that wraps
// them, so a decl result is wrapped on the way out, memoized per ID.
func (m *Module) decodeType(raw uint64) (graph.Type, error) {
	if raw == 0 {
		return nil, nil
	}
	id := graph.EntityID(raw)
	if t, ok := m.wrapped[id]; ok {
		return t, nil
	}
	e, err := m.Decode(id)
	if err != nil {
		return nil, err
	}
	switch n := e.(type) {
	case graph.Type:
		return n, nil
	case *graph.TypeAliasDecl:
		t := &graph.AliasType{Decl: n}
		m.wrapped[id] = t
		return t, nil
	case *graph.GenericParamDecl:
		t := &graph.GenericParamType{Decl: n}
		m.wrapped[id] = t
		return t, nil
	default:
		return nil, fmt.Errorf("%w: entity %d is not a type", ErrMalformed, raw)
	}
}

func (m *Module) identName(raw uint64) (string, error) {
	if raw == 0 {
		return "", nil
	}
	s, err := m.idents.Resolve(ident.ID(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return s, nil
}

// LookupTopLevel finds an exported top-level declaration by name and
// decodes it.
func (m *Module) LookupTopLevel(name string) (graph.Decl, error) {
	entries := m.topLevel[name]
	if len(entries) == 0 {
		return nil, fmt.Errorf("module %q has no top-level declaration %q", m.Name, name)
	}
	return m.decodeDecl(uint64(entries[0].id))
}

// LookupOperator finds a top-level operator declaration by name and
// fixity and decodes it.
func (m *Module) LookupOperator(name string, fixity format.OperatorFixity) (graph.Decl, error) {
	id, ok := m.lookupOperator(name, fixity)
	if !ok {
		return nil, fmt.Errorf("module %q has no %v operator %q", m.Name, fixity, name)
	}
	return m.decodeDecl(uint64(id))
}

// KnownConforming decodes the declarations recorded as conforming to a
// compiler-known protocol.
func (m *Module) KnownConforming(p format.KnownProtocol) ([]graph.Decl, error) {
	bm := m.known[p]
	if bm == nil {
		return nil, nil
	}
	decls := make([]graph.Decl, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		d, err := m.decodeDecl(uint64(it.Next()))
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return decls, nil
}

// lookup finds a named entity of the expected kind, scoped to owner's
// member table, or the top-level table when owner is absent.
func (m *Module) lookup(owner graph.EntityID, name string, kind format.RecordKind) (graph.EntityID, bool) {
	for _, e := range m.entriesFor(owner, name) {
		if e.kind == kind {
			return e.id, true
		}
	}
	return graph.NoEntityID, false
}

// lookupAny is lookup without the kind filter.
func (m *Module) lookupAny(owner graph.EntityID, name string) (graph.EntityID, bool) {
	entries := m.entriesFor(owner, name)
	if len(entries) == 0 {
		return graph.NoEntityID, false
	}
	return entries[0].id, true
}

func (m *Module) entriesFor(owner graph.EntityID, name string) []tableEntry {
	if owner == graph.NoEntityID {
		return m.topLevel[name]
	}
	tbl := m.members[owner]
	if tbl == nil {
		return nil
	}
	return tbl[name]
}

func (m *Module) lookupOperator(name string, fixity format.OperatorFixity) (graph.EntityID, bool) {
	id, ok := m.operators[opKey{name, fixity}]
	return id, ok
}

// Manifest returns the input manifest the module was built from.
func (m *Module) Manifest() *manifest.Manifest { return m.manifest }

// Info returns the free-form version string of the control block.
func (m *Module) Info() string { return m.info }

// EntityCount returns the number of entities in the offset index.
func (m *Module) EntityCount() int { return len(m.offsets) }

// DecodedCount returns the number of entities decoded so far.
func (m *Module) DecodedCount() int { return m.decoded }
