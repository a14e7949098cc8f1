package serial

import (
	"fmt"

	"github.com/symgraph/symgraph/format"
	"github.com/symgraph/symgraph/graph"
	"github.com/symgraph/symgraph/ident"
	"github.com/symgraph/symgraph/internal/bcio"
)

// Cross-references encode an entity owned by another module structurally:
// a reference kind, a discriminator pair, and an access path of interned
// names. The target module's numeric IDs never appear, so the reference
// survives recompilation of the target as long as its externally visible
// names are unchanged.
//
// XRef record layout:
//
//	scalars: [refKind, disc1, disc2, withinExtension]
//	array:   [extension module name]? [base module name] [path names...]
//
// disc1 is the expected record kind for value references, the fixity for
// operator references, and the depth for generic parameter references;
// disc2 is the parameter index.

// writeXRef emits the cross-reference record standing in for a foreign
// decl in this module's ID space.
func (w *Writer) writeXRef(d graph.Decl) error {
	var (
		refKind format.ReferenceKind
		disc1   uint64
		disc2   uint64
	)
	leafOwner := d
	switch n := d.(type) {
	case *graph.GenericParamDecl:
		refKind = format.XRefGenericParam
		disc1 = uint64(n.Depth)
		disc2 = uint64(n.Index)
		if n.Context == nil {
			return fmt.Errorf("generic parameter %q has no owning context", n.Name)
		}
		// The path addresses the owning declaration; the (depth, index)
		// pair selects the parameter, which is unnamed in the referencing
		// module's address space.
		leafOwner = n.Context
	case *graph.PrefixOperatorDecl, *graph.PostfixOperatorDecl, *graph.InfixOperatorDecl:
		refKind = format.XRefOperator
		fix, _ := graph.Fixity(d)
		disc1 = uint64(fix)
	default:
		refKind = format.XRefValue
		disc1 = uint64(declKind(d))
	}

	names, baseModule, extModule, err := xrefPath(leafOwner)
	if err != nil {
		return err
	}

	idents := make([]uint64, 0, len(names)+2)
	within := uint64(0)
	if extModule != "" {
		within = 1
		idents = append(idents, w.nameRef(extModule))
	}
	idents = append(idents, w.nameRef(baseModule))
	for _, n := range names {
		idents = append(idents, w.nameRef(n))
	}

	w.bc.WriteRecord(bcio.Record{
		Kind:    uint64(format.XRefKind),
		Scalars: []uint64{uint64(refKind), disc1, disc2, within},
		Array:   idents,
	})
	return nil
}

// xrefPath builds the access path for a foreign decl: nested-context
// names from the module root down to the leaf. A context that is an
// extension contributes the extended nominal's name instead of its own,
// and records which module the extension lives in.
func xrefPath(d graph.Decl) (names []string, baseModule, extModule string, err error) {
	leaf := d.Base().Name
	if leaf == "" {
		return nil, "", "", fmt.Errorf("cannot cross-reference unnamed %T", d)
	}
	names = []string{leaf}
	baseModule = d.Base().Module

	for ctx := d.Base().Context; ctx != nil; {
		if ext, ok := ctx.(*graph.ExtensionDecl); ok {
			extModule = ext.Module
			nom, ok := nominalOf(ext.ExtendedType)
			if !ok {
				return nil, "", "", fmt.Errorf("extension of non-nominal type %T", ext.ExtendedType)
			}
			names = append([]string{nom.Base().Name}, names...)
			baseModule = nom.Base().Module
			ctx = nom.Base().Context
			continue
		}
		names = append([]string{ctx.Base().Name}, names...)
		baseModule = ctx.Base().Module
		ctx = ctx.Base().Context
	}
	if baseModule == "" {
		return nil, "", "", fmt.Errorf("decl %q has no defining module", leaf)
	}
	return names, baseModule, extModule, nil
}

func nominalOf(t graph.Type) (graph.Decl, bool) {
	switch n := t.(type) {
	case *graph.NominalType:
		return n.Decl, true
	case *graph.BoundGenericType:
		return n.Decl, true
	default:
		return nil, false
	}
}

// Resolver locates other modules of the load session by name. It is
// implemented by the session layer; a reentrant request for a module
// whose load is already in progress must return the in-progress handle.
type Resolver interface {
	Module(name string) (*Module, error)
}

// resolveXRef walks a cross-reference path against the target module's
// name tables and decodes the final entity there. Resolution is lazy and
// happens at most once per referencing slot.
func (m *Module) resolveXRef(rec *bcio.Record) (graph.Entity, error) {
	refKind := format.ReferenceKind(rec.Scalar(0))
	if !refKind.IsValid() {
		return nil, &UnknownValueError{Field: "reference kind", Value: rec.Scalar(0)}
	}
	disc1, disc2 := rec.Scalar(1), rec.Scalar(2)
	within := rec.Scalar(3) != 0

	strs := make([]string, len(rec.Array))
	for i, id := range rec.Array {
		s, err := m.idents.Resolve(ident.ID(id))
		if err != nil {
			return nil, fmt.Errorf("%w: xref path: %v", ErrMalformed, err)
		}
		strs[i] = s
	}
	i := 0
	extModule := ""
	if within {
		if len(strs) < 1 {
			return nil, fmt.Errorf("%w: xref missing extension module", ErrMalformed)
		}
		extModule = strs[0]
		i++
	}
	if len(strs) < i+2 {
		return nil, fmt.Errorf("%w: xref path too short", ErrMalformed)
	}
	baseModule := strs[i]
	path := strs[i+1:]

	fail := func(cause error) error {
		return &UnresolvedXRefError{Module: baseModule, Path: path, cause: cause}
	}

	target, err := m.sibling(baseModule)
	if err != nil {
		return nil, fail(err)
	}

	// Walk intermediate segments through nested member tables.
	owner := graph.NoEntityID
	for _, seg := range path[:len(path)-1] {
		next, ok := target.lookupAny(owner, seg)
		if !ok {
			return nil, fail(fmt.Errorf("no declaration named %q", seg))
		}
		owner = next
	}
	leaf := path[len(path)-1]

	switch refKind {
	case format.XRefOperator:
		fixity := format.OperatorFixity(disc1)
		if !fixity.IsValid() {
			return nil, &UnknownValueError{Field: "operator fixity", Value: disc1}
		}
		id, ok := target.lookupOperator(leaf, fixity)
		if !ok {
			return nil, fail(fmt.Errorf("no %v operator named %q", fixity, leaf))
		}
		return target.Decode(id)

	case format.XRefGenericParam:
		id, ok := target.lookupAny(owner, leaf)
		if !ok && within {
			id, ok = m.lookupInExtensions(extModule, path, leaf, 0, true)
		}
		if !ok {
			return nil, fail(fmt.Errorf("no generic context named %q", leaf))
		}
		e, err := target.Decode(id)
		if err != nil {
			return nil, err
		}
		p, err := genericParamAt(e, uint32(disc1), uint32(disc2))
		if err != nil {
			return nil, fail(err)
		}
		return p, nil

	default:
		id, ok := target.lookup(owner, leaf, format.RecordKind(disc1))
		if within && !ok {
			// The member lives in an extension declared by extModule, so
			// its record is reachable only through that module's
			// extensions table, keyed by the extended type's name.
			id, ok = m.lookupInExtensions(extModule, path, leaf, format.RecordKind(disc1), false)
			if ok {
				extTarget, err := m.sibling(extModule)
				if err != nil {
					return nil, fail(err)
				}
				target = extTarget
			}
		}
		if !ok {
			return nil, fail(fmt.Errorf("no %q with the expected kind", leaf))
		}
		return target.Decode(id)
	}
}

// lookupInExtensions searches the extensions-by-extended-type table of
// the extension's defining module for the leaf member.
func (m *Module) lookupInExtensions(extModule string, path []string, leaf string, kind format.RecordKind, anyKind bool) (graph.EntityID, bool) {
	extMod, err := m.sibling(extModule)
	if err != nil {
		return graph.NoEntityID, false
	}
	if len(path) < 2 {
		return graph.NoEntityID, false
	}
	extendedName := path[len(path)-2]
	for _, extID := range extMod.extensions[extendedName] {
		var (
			id graph.EntityID
			ok bool
		)
		if anyKind {
			id, ok = extMod.lookupAny(extID, leaf)
		} else {
			id, ok = extMod.lookup(extID, leaf, kind)
		}
		if ok {
			return id, true
		}
	}
	return graph.NoEntityID, false
}

// sibling resolves another module of the session, or this module itself.
func (m *Module) sibling(name string) (*Module, error) {
	if name == m.Name {
		return m, nil
	}
	if m.resolver == nil {
		return nil, fmt.Errorf("no resolver configured for module %q", name)
	}
	return m.resolver.Module(name)
}

// genericParamAt selects the generic parameter with the given structural
// position from a decoded generic context.
func genericParamAt(e graph.Entity, depth, index uint32) (graph.Decl, error) {
	var gp *graph.GenericParamList
	switch n := e.(type) {
	case *graph.StructDecl:
		gp = n.GenericParams
	case *graph.ClassDecl:
		gp = n.GenericParams
	case *graph.EnumDecl:
		gp = n.GenericParams
	case *graph.FuncDecl:
		gp = n.GenericParams
	case *graph.ConstructorDecl:
		gp = n.GenericParams
	default:
		return nil, fmt.Errorf("%T is not a generic context", e)
	}
	if gp == nil {
		return nil, fmt.Errorf("context has no generic parameters")
	}
	for _, p := range gp.Params {
		if p.Depth == depth && p.Index == index {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no generic parameter at depth %d index %d", depth, index)
}
