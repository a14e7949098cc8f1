package serial

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/symgraph/symgraph/format"
	"github.com/symgraph/symgraph/graph"
	"github.com/symgraph/symgraph/internal/bcio"
)

// The index block carries everything a reader loads eagerly: the entity
// and identifier offset tables and the name-keyed lookup tables. Its cost
// is linear in entity count, not entity size, which is what makes lazy
// decoding affordable.

func (w *Writer) writeIdentifierBlock() {
	blob, offsets := w.idents.Blob()
	w.identOffsets = offsets
	w.bc.BeginBlock(uint64(format.IdentifierBlockID))
	w.bc.WriteRecord(bcio.Record{
		Kind: format.IdentifierDataCode,
		Blob: blob,
	})
	w.bc.EndBlock()
}

func (w *Writer) writeIndexBlock() {
	w.bc.BeginBlock(uint64(format.IndexBlockID))

	w.bc.WriteRecord(bcio.Record{
		Kind:  format.IndexEntityOffsetsCode,
		Array: w.offsets,
	})
	w.bc.WriteRecord(bcio.Record{
		Kind:  format.IndexIdentifierOffsetsCode,
		Array: w.identOffsets,
	})

	top := make([]uint64, 0, len(w.topLevel)*3)
	for _, e := range w.topLevel {
		top = append(top, uint64(e.name), uint64(e.kind), uint64(e.id))
	}
	w.bc.WriteRecord(bcio.Record{Kind: format.IndexTopLevelCode, Array: top})

	ops := make([]uint64, 0, len(w.operators)*3)
	for _, e := range w.operators {
		ops = append(ops, uint64(e.name), uint64(e.fixity), uint64(e.id))
	}
	w.bc.WriteRecord(bcio.Record{Kind: format.IndexOperatorsCode, Array: ops})

	exts := make([]uint64, 0, len(w.extensions)*2)
	for _, e := range w.extensions {
		exts = append(exts, uint64(e.extended), uint64(e.id))
	}
	w.bc.WriteRecord(bcio.Record{Kind: format.IndexExtensionsCode, Array: exts})

	for _, tbl := range w.members {
		entries := make([]uint64, 0, len(tbl.entries)*3)
		for _, e := range tbl.entries {
			entries = append(entries, uint64(e.name), uint64(e.kind), uint64(e.id))
		}
		w.bc.WriteRecord(bcio.Record{
			Kind:    format.IndexMembersCode,
			Scalars: []uint64{uint64(tbl.owner)},
			Array:   entries,
		})
	}

	w.writeKnownConformances()
	w.bc.EndBlock()
}

// writeKnownConformances emits the known-conformances sub-block: per
// known protocol, a compressed bitmap of conforming decl IDs.
func (w *Writer) writeKnownConformances() {
	if len(w.module.KnownConformances) == 0 {
		return
	}
	w.bc.BeginBlock(uint64(format.KnownConformancesBlockID))
	for proto := format.KnownProtocol(0); proto.IsValid(); proto++ {
		decls := w.module.KnownConformances[proto]
		if len(decls) == 0 {
			continue
		}
		bm := roaring.New()
		for _, d := range decls {
			bm.Add(uint32(w.ids[d]))
		}
		blob, err := bm.MarshalBinary()
		if err != nil {
			// Marshalling an in-memory bitmap cannot fail in practice;
			// skip the entry rather than corrupt the block.
			continue
		}
		w.bc.WriteRecord(bcio.Record{
			Kind:    format.KnownConformancesCode,
			Scalars: []uint64{uint64(proto)},
			Blob:    blob,
		})
	}
	w.bc.EndBlock()
}

// loadIndex parses the index block into the module's tables.
func (m *Module) loadIndex(b *bcio.Block) error {
	cur := b.Cursor()
	for !cur.AtEnd() {
		item, err := cur.Next()
		if err != nil {
			return fmt.Errorf("%w: index block: %v", ErrMalformed, err)
		}
		if item.Block != nil {
			if item.Block.ID == uint64(format.KnownConformancesBlockID) {
				if err := m.loadKnownConformances(item.Block); err != nil {
					return err
				}
			}
			// Unknown sub-blocks belong to newer minors; skip.
			continue
		}
		rec := item.Record
		switch rec.Kind {
		case format.IndexEntityOffsetsCode:
			m.offsets = rec.Array
		case format.IndexIdentifierOffsetsCode:
			m.identOffsets = rec.Array
		case format.IndexTopLevelCode:
			if len(rec.Array)%3 != 0 {
				return fmt.Errorf("%w: top-level table not in triplets", ErrMalformed)
			}
			m.topLevelEntries = rec.Array
		case format.IndexOperatorsCode:
			if len(rec.Array)%3 != 0 {
				return fmt.Errorf("%w: operator table not in triplets", ErrMalformed)
			}
			m.operatorEntries = rec.Array
		case format.IndexExtensionsCode:
			if len(rec.Array)%2 != 0 {
				return fmt.Errorf("%w: extension table not in pairs", ErrMalformed)
			}
			m.extensionEntries = rec.Array
		case format.IndexMembersCode:
			if len(rec.Array)%3 != 0 {
				return fmt.Errorf("%w: member table not in triplets", ErrMalformed)
			}
			owner := graph.EntityID(rec.Scalar(0))
			m.memberEntries[owner] = rec.Array
		default:
			// Newer minor versions may add further index records.
		}
	}
	return nil
}

func (m *Module) loadKnownConformances(b *bcio.Block) error {
	cur := b.Cursor()
	for !cur.AtEnd() {
		rec, err := cur.NextRecord()
		if err != nil {
			return fmt.Errorf("%w: known-conformances block: %v", ErrMalformed, err)
		}
		if rec.Kind != format.KnownConformancesCode {
			continue
		}
		proto := format.KnownProtocol(rec.Scalar(0))
		if !proto.IsValid() {
			// A protocol this reader does not know about yet.
			continue
		}
		bm := roaring.New()
		if err := bm.UnmarshalBinary(rec.Blob); err != nil {
			return fmt.Errorf("%w: conformance bitmap: %v", ErrMalformed, err)
		}
		m.known[proto] = bm
	}
	return nil
}

// resolveIdentTables materializes the name lookup maps once identifiers
// are available. Entries stay as raw triplets until then because the
// identifier block follows the graph block in file order.
func (m *Module) resolveIdentTables() error {
	for i := 0; i+2 < len(m.topLevelEntries); i += 3 {
		name, err := m.identName(m.topLevelEntries[i])
		if err != nil {
			return err
		}
		m.topLevel[name] = append(m.topLevel[name], tableEntry{
			name: 0,
			kind: format.RecordKind(m.topLevelEntries[i+1]),
			id:   graph.EntityID(m.topLevelEntries[i+2]),
		})
	}
	for i := 0; i+2 < len(m.operatorEntries); i += 3 {
		name, err := m.identName(m.operatorEntries[i])
		if err != nil {
			return err
		}
		m.operators[opKey{name, format.OperatorFixity(m.operatorEntries[i+1])}] =
			graph.EntityID(m.operatorEntries[i+2])
	}
	for i := 0; i+1 < len(m.extensionEntries); i += 2 {
		name, err := m.identName(m.extensionEntries[i])
		if err != nil {
			return err
		}
		m.extensions[name] = append(m.extensions[name], graph.EntityID(m.extensionEntries[i+1]))
	}
	for owner, entries := range m.memberEntries {
		tbl := make(map[string][]tableEntry, len(entries)/3)
		for i := 0; i+2 < len(entries); i += 3 {
			name, err := m.identName(entries[i])
			if err != nil {
				return err
			}
			tbl[name] = append(tbl[name], tableEntry{
				kind: format.RecordKind(entries[i+1]),
				id:   graph.EntityID(entries[i+2]),
			})
		}
		m.members[owner] = tbl
	}
	return nil
}
