package serial

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/symgraph/symgraph/format"
	"github.com/symgraph/symgraph/graph"
	"github.com/symgraph/symgraph/ident"
	"github.com/symgraph/symgraph/internal/bcio"
	"github.com/symgraph/symgraph/manifest"
)

// WriterOptions configures serialization.
type WriterOptions struct {
	// Manifest is written into the input block; nil writes an empty one.
	Manifest *manifest.Manifest

	// Info is the free-form version blob of the control block.
	Info string

	// Logger receives debug output; defaults to a discard logger.
	Logger *slog.Logger
}

// Writer serializes one module's symbol graph.
type Writer struct {
	opts   WriterOptions
	module *graph.Module
	idents *ident.Builder
	bc     *bcio.Writer
	logger *slog.Logger

	// ids maps a node to its assigned entity ID; assignment order is
	// first-encounter order, so IDs are dense starting at 1.
	ids     map[graph.Entity]graph.EntityID
	queue   []graph.Entity
	next    int // next queue position to emit
	offsets []uint64

	identOffsets []uint64

	topLevel   []tableEntry
	operators  []opEntry
	extensions []extEntry
	members    []memberTable
}

type tableEntry struct {
	name ident.ID
	kind format.RecordKind
	id   graph.EntityID
}

type opEntry struct {
	name   ident.ID
	fixity format.OperatorFixity
	id     graph.EntityID
}

type extEntry struct {
	extended ident.ID
	id       graph.EntityID
}

type memberTable struct {
	owner   graph.EntityID
	entries []tableEntry
}

// NewWriter creates a writer for the given module graph.
func NewWriter(m *graph.Module, optFns ...func(*WriterOptions)) *Writer {
	opts := WriterOptions{
		Info: fmt.Sprintf("symgraph %d.%d", format.VersionMajor, format.VersionMinor),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Writer{
		opts:   opts,
		module: m,
		idents: ident.NewBuilder(),
		bc:     bcio.NewWriter(),
		logger: logger,
		ids:    make(map[graph.Entity]graph.EntityID),
	}
}

// Serialize writes the module to its binary form.
func (w *Writer) Serialize() ([]byte, error) {
	w.writeControlBlock()

	man := w.opts.Manifest
	if man == nil {
		man = &manifest.Manifest{}
	}
	man.WriteBlock(w.bc)

	if err := w.writeGraphBlock(); err != nil {
		return nil, err
	}
	w.writeIdentifierBlock()
	w.writeIndexBlock()

	out := make([]byte, 0, len(format.Signature)+len(w.bc.Bytes()))
	out = append(out, format.Signature[:]...)
	out = append(out, w.bc.Bytes()...)

	w.logger.Debug("module serialized",
		"module", w.module.Name,
		"entities", len(w.offsets),
		"identifiers", w.idents.Len(),
		"bytes", len(out),
	)
	return out, nil
}

func (w *Writer) writeControlBlock() {
	w.bc.BeginBlock(uint64(format.ControlBlockID))
	w.bc.WriteRecord(bcio.Record{
		Kind:    format.ControlMetadataCode,
		Scalars: []uint64{uint64(format.VersionMajor), uint64(format.VersionMinor)},
		Blob:    []byte(w.opts.Info),
	})
	w.bc.EndBlock()
}

func (w *Writer) writeGraphBlock() error {
	w.bc.BeginBlock(uint64(format.SymbolGraphBlockID))

	// Roots: every exported top-level decl, plus everything listed in the
	// known-conformances table. Referenced sub-entities are picked up by
	// the traversal itself.
	for _, d := range w.module.TopLevel {
		id := w.ref(d)
		w.addTopLevelEntry(d, id)
	}
	for proto := format.KnownProtocol(0); proto.IsValid(); proto++ {
		for _, d := range w.module.KnownConformances[proto] {
			w.ref(d)
		}
	}

	for w.next < len(w.queue) {
		e := w.queue[w.next]
		w.next++
		if err := w.writeEntity(e); err != nil {
			w.bc.EndBlock()
			return err
		}
	}
	w.bc.EndBlock()
	return nil
}

// ref returns the entity ID for e, assigning the next unused ID and
// scheduling a record on first encounter. Alias and generic-parameter
// types wrap a declaration and reuse its ID rather than receiving one.
func (w *Writer) ref(e graph.Entity) graph.EntityID {
	if e == nil {
		return graph.NoEntityID
	}
	switch t := e.(type) {
	case *graph.AliasType:
		return w.ref(t.Decl)
	case *graph.GenericParamType:
		return w.ref(t.Decl)
	}
	if id, ok := w.ids[e]; ok {
		return id
	}
	id := graph.EntityID(len(w.queue) + 1)
	w.ids[e] = id
	w.queue = append(w.queue, e)
	return id
}

func (w *Writer) declRef(d graph.Decl) uint64 {
	if d == nil {
		return 0
	}
	return uint64(w.ref(d))
}

func (w *Writer) typeRef(t graph.Type) uint64 {
	if t == nil {
		return 0
	}
	return uint64(w.ref(t))
}

func (w *Writer) nameRef(s string) uint64 {
	return uint64(w.idents.Intern(s))
}

// foreign reports whether the decl belongs to a different module and must
// be encoded as a cross-reference.
func (w *Writer) foreign(d graph.Decl) bool {
	mod := d.Base().Module
	return mod != "" && mod != w.module.Name
}

// writeEntity emits the record for one entity and its trailing group. The
// record's byte offset within the graph block is captured for the index.
func (w *Writer) writeEntity(e graph.Entity) error {
	w.offsets = append(w.offsets, w.bc.Offset())

	if d, ok := e.(graph.Decl); ok && w.foreign(d) {
		return w.writeXRef(d)
	}
	switch n := e.(type) {
	case graph.Decl:
		return w.writeDecl(n)
	case graph.Type:
		return w.writeType(n)
	default:
		return fmt.Errorf("cannot serialize entity of type %T", e)
	}
}

func (w *Writer) addTopLevelEntry(d graph.Decl, id graph.EntityID) {
	if fix, ok := graph.Fixity(d); ok {
		w.operators = append(w.operators, opEntry{
			name:   w.idents.Intern(d.Base().Name),
			fixity: fix,
			id:     id,
		})
		return
	}
	if ext, ok := d.(*graph.ExtensionDecl); ok {
		if name, ok := extendedName(ext.ExtendedType); ok {
			w.extensions = append(w.extensions, extEntry{
				extended: w.idents.Intern(name),
				id:       id,
			})
		}
		return
	}
	name := d.Base().Name
	if name == "" {
		return
	}
	w.topLevel = append(w.topLevel, tableEntry{
		name: w.idents.Intern(name),
		kind: declKind(d),
		id:   id,
	})
}

// addMemberTable records the name-keyed member list of a container so
// that cross-references can resolve nested paths without decoding
// unrelated siblings.
func (w *Writer) addMemberTable(owner graph.EntityID, members []graph.Decl, memberIDs []uint64) {
	if len(members) == 0 {
		return
	}
	tbl := memberTable{owner: owner}
	for i, m := range members {
		name := m.Base().Name
		if name == "" {
			continue
		}
		tbl.entries = append(tbl.entries, tableEntry{
			name: w.idents.Intern(name),
			kind: declKind(m),
			id:   graph.EntityID(memberIDs[i]),
		})
	}
	if len(tbl.entries) > 0 {
		w.members = append(w.members, tbl)
	}
}

// extendedName extracts the nominal name an extension applies to.
func extendedName(t graph.Type) (string, bool) {
	switch n := t.(type) {
	case *graph.NominalType:
		return n.Decl.Base().Name, true
	case *graph.BoundGenericType:
		return n.Decl.Base().Name, true
	default:
		return "", false
	}
}
