package serial

import (
	"fmt"

	"github.com/symgraph/symgraph/format"
	"github.com/symgraph/symgraph/graph"
	"github.com/symgraph/symgraph/internal/bcio"
)

// allocEntity creates the empty node for a record kind. Allocation is
// separate from population so the node can be installed in its slot
// before any nested reference is followed.
func allocEntity(kind format.RecordKind) (graph.Entity, error) {
	switch kind {
	case format.TypeAliasDeclKind:
		return &graph.TypeAliasDecl{}, nil
	case format.GenericParamDeclKind:
		return &graph.GenericParamDecl{}, nil
	case format.StructDeclKind:
		return &graph.StructDecl{}, nil
	case format.ClassDeclKind:
		return &graph.ClassDecl{}, nil
	case format.ProtocolDeclKind:
		return &graph.ProtocolDecl{}, nil
	case format.EnumDeclKind:
		return &graph.EnumDecl{}, nil
	case format.EnumElementDeclKind:
		return &graph.EnumElementDecl{}, nil
	case format.VarDeclKind:
		return &graph.VarDecl{}, nil
	case format.FuncDeclKind:
		return &graph.FuncDecl{}, nil
	case format.ConstructorDeclKind:
		return &graph.ConstructorDecl{}, nil
	case format.DestructorDeclKind:
		return &graph.DestructorDecl{}, nil
	case format.SubscriptDeclKind:
		return &graph.SubscriptDecl{}, nil
	case format.PatternBindingDeclKind:
		return &graph.PatternBindingDecl{}, nil
	case format.PrefixOperatorDeclKind:
		return &graph.PrefixOperatorDecl{}, nil
	case format.PostfixOperatorDeclKind:
		return &graph.PostfixOperatorDecl{}, nil
	case format.InfixOperatorDeclKind:
		return &graph.InfixOperatorDecl{}, nil
	case format.ExtensionDeclKind:
		return &graph.ExtensionDecl{}, nil
	case format.NominalTypeKind:
		return &graph.NominalType{}, nil
	case format.ParenTypeKind:
		return &graph.ParenType{}, nil
	case format.TupleTypeKind:
		return &graph.TupleType{}, nil
	case format.FunctionTypeKind:
		return &graph.FunctionType{}, nil
	case format.MetatypeTypeKind:
		return &graph.MetatypeType{}, nil
	case format.LValueTypeKind:
		return &graph.LValueType{}, nil
	case format.BoundGenericTypeKind:
		return &graph.BoundGenericType{}, nil
	case format.ArrayTypeKind:
		return &graph.ArrayType{}, nil
	case format.SliceTypeKind:
		return &graph.SliceType{}, nil
	case format.OptionalTypeKind:
		return &graph.OptionalType{}, nil
	case format.ReferenceStorageTypeKind:
		return &graph.ReferenceStorageType{}, nil
	case format.ProtocolCompositionTypeKind:
		return &graph.ProtocolCompositionType{}, nil
	default:
		return nil, &UnknownValueError{Field: "record kind", Value: uint64(kind)}
	}
}

// populate fills a freshly allocated node from its record and the
// trailing records that follow it in the graph block. Trailing groups
// are consumed positionally in the order their counts appear.
func (m *Module) populate(e graph.Entity, rec *bcio.Record, cur *bcio.Cursor) error {
	switch n := e.(type) {
	case *graph.TypeAliasDecl:
		if err := m.populateBase(&n.DeclBase, rec.Scalar(0), rec.Scalar(1), rec.Scalar(3)); err != nil {
			return err
		}
		var err error
		if n.Underlying, err = m.decodeType(rec.Scalar(2)); err != nil {
			return err
		}
		n.Conformances, err = m.readConformances(cur, rec.Scalar(4))
		return err

	case *graph.GenericParamDecl:
		if err := m.populateBase(&n.DeclBase, rec.Scalar(0), rec.Scalar(1), 0); err != nil {
			return err
		}
		n.Depth = uint32(rec.Scalar(2))
		n.Index = uint32(rec.Scalar(3))
		return nil

	case *graph.StructDecl:
		if err := m.populateBase(&n.DeclBase, rec.Scalar(0), rec.Scalar(1), rec.Scalar(2)); err != nil {
			return err
		}
		var err error
		if n.GenericParams, err = m.readGenericParams(cur, rec.Scalar(3) != 0); err != nil {
			return err
		}
		if n.Conformances, err = m.readConformances(cur, rec.Scalar(4)); err != nil {
			return err
		}
		n.Members, err = m.readMemberList(cur)
		return err

	case *graph.ClassDecl:
		if err := m.populateBase(&n.DeclBase, rec.Scalar(0), rec.Scalar(1), rec.Scalar(2)); err != nil {
			return err
		}
		var err error
		if n.Superclass, err = m.decodeType(rec.Scalar(5)); err != nil {
			return err
		}
		if n.GenericParams, err = m.readGenericParams(cur, rec.Scalar(3) != 0); err != nil {
			return err
		}
		if n.Conformances, err = m.readConformances(cur, rec.Scalar(4)); err != nil {
			return err
		}
		n.Members, err = m.readMemberList(cur)
		return err

	case *graph.EnumDecl:
		if err := m.populateBase(&n.DeclBase, rec.Scalar(0), rec.Scalar(1), rec.Scalar(2)); err != nil {
			return err
		}
		var err error
		if n.GenericParams, err = m.readGenericParams(cur, rec.Scalar(3) != 0); err != nil {
			return err
		}
		if n.Conformances, err = m.readConformances(cur, rec.Scalar(4)); err != nil {
			return err
		}
		n.Members, err = m.readMemberList(cur)
		return err

	case *graph.ProtocolDecl:
		if err := m.populateBase(&n.DeclBase, rec.Scalar(0), rec.Scalar(1), rec.Scalar(2)); err != nil {
			return err
		}
		n.ClassProtocol = rec.Scalar(3) != 0
		n.Inherited = make([]graph.Decl, len(rec.Array))
		for i, raw := range rec.Array {
			d, err := m.decodeDecl(raw)
			if err != nil {
				return err
			}
			n.Inherited[i] = d
		}
		var err error
		n.Members, err = m.readMemberList(cur)
		return err

	case *graph.EnumElementDecl:
		if err := m.populateBase(&n.DeclBase, rec.Scalar(0), rec.Scalar(1), rec.Scalar(4)); err != nil {
			return err
		}
		var err error
		if n.ArgumentType, err = m.decodeType(rec.Scalar(2)); err != nil {
			return err
		}
		n.ResultType, err = m.decodeType(rec.Scalar(3))
		return err

	case *graph.VarDecl:
		if err := m.populateBase(&n.DeclBase, rec.Scalar(0), rec.Scalar(1), rec.Scalar(2)); err != nil {
			return err
		}
		var err error
		if n.Type, err = m.decodeType(rec.Scalar(3)); err != nil {
			return err
		}
		if n.Getter, err = m.decodeDecl(rec.Scalar(4)); err != nil {
			return err
		}
		if n.Setter, err = m.decodeDecl(rec.Scalar(5)); err != nil {
			return err
		}
		n.Overridden, err = m.decodeDecl(rec.Scalar(6))
		return err

	case *graph.FuncDecl:
		if err := m.populateBase(&n.DeclBase, rec.Scalar(0), rec.Scalar(1), rec.Scalar(2)); err != nil {
			return err
		}
		n.Static = rec.Scalar(3) != 0
		n.AsmName = string(rec.Blob)
		var err error
		if n.Signature, err = m.decodeType(rec.Scalar(4)); err != nil {
			return err
		}
		if n.Operator, err = m.decodeDecl(rec.Scalar(5)); err != nil {
			return err
		}
		if n.Overridden, err = m.decodeDecl(rec.Scalar(6)); err != nil {
			return err
		}
		if n.GenericParams, err = m.readGenericParams(cur, rec.Scalar(7) != 0); err != nil {
			return err
		}
		numParams := rec.Scalar(8)
		n.Params = make([]graph.Pattern, numParams)
		for i := range n.Params {
			if n.Params[i], err = m.readPattern(cur); err != nil {
				return err
			}
		}
		return nil

	case *graph.ConstructorDecl:
		if err := m.populateBase(&n.DeclBase, 0, rec.Scalar(0), rec.Scalar(1)); err != nil {
			return err
		}
		var err error
		if n.Signature, err = m.decodeType(rec.Scalar(2)); err != nil {
			return err
		}
		if n.GenericParams, err = m.readGenericParams(cur, rec.Scalar(3) != 0); err != nil {
			return err
		}
		if rec.Scalar(4) != 0 {
			n.Param, err = m.readPattern(cur)
		}
		return err

	case *graph.DestructorDecl:
		if err := m.populateBase(&n.DeclBase, 0, rec.Scalar(0), rec.Scalar(1)); err != nil {
			return err
		}
		var err error
		n.Signature, err = m.decodeType(rec.Scalar(2))
		return err

	case *graph.SubscriptDecl:
		if err := m.populateBase(&n.DeclBase, 0, rec.Scalar(0), rec.Scalar(1)); err != nil {
			return err
		}
		var err error
		if n.ElementType, err = m.decodeType(rec.Scalar(2)); err != nil {
			return err
		}
		if n.Getter, err = m.decodeDecl(rec.Scalar(3)); err != nil {
			return err
		}
		if n.Setter, err = m.decodeDecl(rec.Scalar(4)); err != nil {
			return err
		}
		if n.Overridden, err = m.decodeDecl(rec.Scalar(5)); err != nil {
			return err
		}
		if rec.Scalar(6) != 0 {
			n.Indices, err = m.readPattern(cur)
		}
		return err

	case *graph.PatternBindingDecl:
		if err := m.populateBase(&n.DeclBase, 0, rec.Scalar(0), rec.Scalar(1)); err != nil {
			return err
		}
		var err error
		n.Pattern, err = m.readPattern(cur)
		return err

	case *graph.PrefixOperatorDecl:
		return m.populateBase(&n.DeclBase, rec.Scalar(0), rec.Scalar(1), 0)

	case *graph.PostfixOperatorDecl:
		return m.populateBase(&n.DeclBase, rec.Scalar(0), rec.Scalar(1), 0)

	case *graph.InfixOperatorDecl:
		if err := m.populateBase(&n.DeclBase, rec.Scalar(0), rec.Scalar(1), 0); err != nil {
			return err
		}
		assoc := format.Associativity(rec.Scalar(2))
		if !assoc.IsValid() {
			return &UnknownValueError{Field: "associativity", Value: rec.Scalar(2)}
		}
		n.Associativity = assoc
		n.Precedence = uint8(rec.Scalar(3))
		return nil

	case *graph.ExtensionDecl:
		if err := m.populateBase(&n.DeclBase, 0, rec.Scalar(1), rec.Scalar(2)); err != nil {
			return err
		}
		var err error
		if n.ExtendedType, err = m.decodeType(rec.Scalar(0)); err != nil {
			return err
		}
		if n.Conformances, err = m.readConformances(cur, rec.Scalar(3)); err != nil {
			return err
		}
		n.Members, err = m.readMemberList(cur)
		return err
	}

	if t, ok := e.(graph.Type); ok {
		return m.populateType(t, rec, cur)
	}
	return fmt.Errorf("%w: cannot populate %T", ErrMalformed, e)
}

func (m *Module) populateBase(b *graph.DeclBase, name, ctx, implicit uint64) error {
	var err error
	if b.Name, err = m.identName(name); err != nil {
		return err
	}
	if b.Context, err = m.decodeDecl(ctx); err != nil {
		return err
	}
	b.Implicit = implicit != 0
	return nil
}

func (m *Module) populateType(t graph.Type, rec *bcio.Record, cur *bcio.Cursor) error {
	switch n := t.(type) {
	case *graph.NominalType:
		var err error
		if n.Decl, err = m.decodeDecl(rec.Scalar(0)); err != nil {
			return err
		}
		n.Parent, err = m.decodeType(rec.Scalar(1))
		return err

	case *graph.ParenType:
		var err error
		n.Inner, err = m.decodeType(rec.Scalar(0))
		return err

	case *graph.TupleType:
		num := rec.Scalar(0)
		n.Elements = make([]graph.TupleTypeElt, num)
		for i := range n.Elements {
			el, err := cur.NextRecord()
			if err != nil {
				return fmt.Errorf("%w: tuple element: %v", ErrMalformed, err)
			}
			if format.RecordKind(el.Kind) != format.TupleTypeEltKind {
				return fmt.Errorf("%w: expected tuple element record, got kind %d", ErrMalformed, el.Kind)
			}
			if n.Elements[i].Name, err = m.identName(el.Scalar(0)); err != nil {
				return err
			}
			if n.Elements[i].Type, err = m.decodeType(el.Scalar(1)); err != nil {
				return err
			}
			da := format.DefaultArgumentKind(el.Scalar(2))
			if !da.IsValid() {
				return &UnknownValueError{Field: "default argument kind", Value: el.Scalar(2)}
			}
			n.Elements[i].DefaultArg = da
			n.Elements[i].Vararg = el.Scalar(3) != 0
		}
		return nil

	case *graph.FunctionType:
		var err error
		if n.Input, err = m.decodeType(rec.Scalar(0)); err != nil {
			return err
		}
		if n.Output, err = m.decodeType(rec.Scalar(1)); err != nil {
			return err
		}
		conv := format.CallingConvention(rec.Scalar(2))
		if !conv.IsValid() {
			return &UnknownValueError{Field: "calling convention", Value: rec.Scalar(2)}
		}
		n.Convention = conv
		n.AutoClosure = rec.Scalar(3) != 0
		n.Thin = rec.Scalar(4) != 0
		n.NoReturn = rec.Scalar(5) != 0
		return nil

	case *graph.MetatypeType:
		var err error
		n.Instance, err = m.decodeType(rec.Scalar(0))
		return err

	case *graph.LValueType:
		var err error
		if n.Object, err = m.decodeType(rec.Scalar(0)); err != nil {
			return err
		}
		n.Implicit = rec.Scalar(1) != 0
		n.NonSettable = rec.Scalar(2) != 0
		return nil

	case *graph.BoundGenericType:
		var err error
		if n.Decl, err = m.decodeDecl(rec.Scalar(0)); err != nil {
			return err
		}
		if n.Parent, err = m.decodeType(rec.Scalar(1)); err != nil {
			return err
		}
		n.Args = make([]graph.Type, len(rec.Array))
		for i, raw := range rec.Array {
			if n.Args[i], err = m.decodeType(raw); err != nil {
				return err
			}
		}
		return nil

	case *graph.ArrayType:
		var err error
		if n.Element, err = m.decodeType(rec.Scalar(0)); err != nil {
			return err
		}
		n.Size = rec.Scalar(1)
		return nil

	case *graph.SliceType:
		var err error
		n.Element, err = m.decodeType(rec.Scalar(0))
		return err

	case *graph.OptionalType:
		var err error
		n.Element, err = m.decodeType(rec.Scalar(0))
		return err

	case *graph.ReferenceStorageType:
		own := format.Ownership(rec.Scalar(0))
		if !own.IsValid() {
			return &UnknownValueError{Field: "ownership", Value: rec.Scalar(0)}
		}
		n.Ownership = own
		var err error
		n.Referent, err = m.decodeType(rec.Scalar(1))
		return err

	case *graph.ProtocolCompositionType:
		n.Protocols = make([]graph.Type, len(rec.Array))
		for i, raw := range rec.Array {
			var err error
			if n.Protocols[i], err = m.decodeType(raw); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("%w: cannot populate type %T", ErrMalformed, t)
	}
}

// readGenericParams consumes the generic-parameter trailing group when
// the owning record flagged its presence.
func (m *Module) readGenericParams(cur *bcio.Cursor, present bool) (*graph.GenericParamList, error) {
	if !present {
		return nil, nil
	}
	rec, err := cur.NextRecord()
	if err != nil {
		return nil, fmt.Errorf("%w: generic parameter list: %v", ErrMalformed, err)
	}
	if format.RecordKind(rec.Kind) != format.GenericParamListKind {
		return nil, fmt.Errorf("%w: expected generic parameter list, got kind %d", ErrMalformed, rec.Kind)
	}
	gp := &graph.GenericParamList{
		Params:       make([]*graph.GenericParamDecl, rec.Scalar(0)),
		Requirements: make([]graph.GenericRequirement, rec.Scalar(1)),
	}
	for i := range gp.Params {
		pr, err := cur.NextRecord()
		if err != nil {
			return nil, fmt.Errorf("%w: generic parameter: %v", ErrMalformed, err)
		}
		if format.RecordKind(pr.Kind) != format.GenericParamKind {
			return nil, fmt.Errorf("%w: expected generic parameter record, got kind %d", ErrMalformed, pr.Kind)
		}
		d, err := m.decodeDecl(pr.Scalar(0))
		if err != nil {
			return nil, err
		}
		p, ok := d.(*graph.GenericParamDecl)
		if !ok {
			return nil, fmt.Errorf("%w: generic parameter entry is %T", ErrMalformed, d)
		}
		gp.Params[i] = p
	}
	for i := range gp.Requirements {
		rr, err := cur.NextRecord()
		if err != nil {
			return nil, fmt.Errorf("%w: generic requirement: %v", ErrMalformed, err)
		}
		if format.RecordKind(rr.Kind) != format.GenericRequirementKind {
			return nil, fmt.Errorf("%w: expected generic requirement record, got kind %d", ErrMalformed, rr.Kind)
		}
		kind := format.RequirementKind(rr.Scalar(0))
		if !kind.IsValid() {
			return nil, &UnknownValueError{Field: "requirement kind", Value: rr.Scalar(0)}
		}
		gp.Requirements[i].Kind = kind
		if len(rr.Array) != 2 {
			return nil, fmt.Errorf("%w: requirement needs two types", ErrMalformed)
		}
		if gp.Requirements[i].First, err = m.decodeType(rr.Array[0]); err != nil {
			return nil, err
		}
		if gp.Requirements[i].Second, err = m.decodeType(rr.Array[1]); err != nil {
			return nil, err
		}
	}
	return gp, nil
}

// readConformances consumes the fixed number of conformance records
// trailing the owner. Absent slots appear as explicit records.
func (m *Module) readConformances(cur *bcio.Cursor, num uint64) ([]*graph.Conformance, error) {
	if num == 0 {
		return nil, nil
	}
	conf := make([]*graph.Conformance, num)
	for i := range conf {
		rec, err := cur.NextRecord()
		if err != nil {
			return nil, fmt.Errorf("%w: conformance: %v", ErrMalformed, err)
		}
		c := &graph.Conformance{}
		switch format.RecordKind(rec.Kind) {
		case format.NoConformanceKind:
			c.Absent = true
			if c.Protocol, err = m.decodeDecl(rec.Scalar(0)); err != nil {
				return nil, err
			}
		case format.NormalConformanceKind:
			if c.Protocol, err = m.decodeDecl(rec.Scalar(0)); err != nil {
				return nil, err
			}
			c.Witnesses = make([]graph.Decl, len(rec.Array))
			for j, raw := range rec.Array {
				if c.Witnesses[j], err = m.decodeDecl(raw); err != nil {
					return nil, err
				}
			}
		default:
			return nil, fmt.Errorf("%w: expected conformance record, got kind %d", ErrMalformed, rec.Kind)
		}
		conf[i] = c
	}
	return conf, nil
}

// readMemberList consumes the member-list trailing record and decodes
// each member.
func (m *Module) readMemberList(cur *bcio.Cursor) ([]graph.Decl, error) {
	rec, err := cur.NextRecord()
	if err != nil {
		return nil, fmt.Errorf("%w: member list: %v", ErrMalformed, err)
	}
	if format.RecordKind(rec.Kind) != format.MemberListKind {
		return nil, fmt.Errorf("%w: expected member list record, got kind %d", ErrMalformed, rec.Kind)
	}
	if len(rec.Array) == 0 {
		return nil, nil
	}
	members := make([]graph.Decl, len(rec.Array))
	for i, raw := range rec.Array {
		if members[i], err = m.decodeDecl(raw); err != nil {
			return nil, err
		}
	}
	return members, nil
}

// readPattern consumes one pattern record and its nested sub-patterns.
func (m *Module) readPattern(cur *bcio.Cursor) (graph.Pattern, error) {
	rec, err := cur.NextRecord()
	if err != nil {
		return nil, fmt.Errorf("%w: pattern: %v", ErrMalformed, err)
	}
	switch format.RecordKind(rec.Kind) {
	case format.ParenPatternKind:
		p := &graph.ParenPattern{Implicit: rec.Scalar(0) != 0}
		if p.Sub, err = m.readPattern(cur); err != nil {
			return nil, err
		}
		return p, nil

	case format.TuplePatternKind:
		p := &graph.TuplePattern{
			Implicit:  rec.Scalar(1) != 0,
			HasVararg: rec.Scalar(2) != 0,
		}
		if p.Type, err = m.decodeType(rec.Scalar(0)); err != nil {
			return nil, err
		}
		p.Elements = make([]graph.TuplePatternElt, rec.Scalar(3))
		for i := range p.Elements {
			el, err := cur.NextRecord()
			if err != nil {
				return nil, fmt.Errorf("%w: tuple pattern element: %v", ErrMalformed, err)
			}
			if format.RecordKind(el.Kind) != format.TuplePatternEltKind {
				return nil, fmt.Errorf("%w: expected tuple pattern element, got kind %d", ErrMalformed, el.Kind)
			}
			da := format.DefaultArgumentKind(el.Scalar(0))
			if !da.IsValid() {
				return nil, &UnknownValueError{Field: "default argument kind", Value: el.Scalar(0)}
			}
			p.Elements[i].DefaultArg = da
			if p.Elements[i].Sub, err = m.readPattern(cur); err != nil {
				return nil, err
			}
		}
		return p, nil

	case format.NamedPatternKind:
		d, err := m.decodeDecl(rec.Scalar(0))
		if err != nil {
			return nil, err
		}
		v, ok := d.(*graph.VarDecl)
		if !ok {
			return nil, fmt.Errorf("%w: named pattern binds %T", ErrMalformed, d)
		}
		return &graph.NamedPattern{Var: v, Implicit: rec.Scalar(1) != 0}, nil

	case format.AnyPatternKind:
		p := &graph.AnyPattern{Implicit: rec.Scalar(1) != 0}
		if p.Type, err = m.decodeType(rec.Scalar(0)); err != nil {
			return nil, err
		}
		return p, nil

	case format.TypedPatternKind:
		p := &graph.TypedPattern{Implicit: rec.Scalar(1) != 0}
		if p.Type, err = m.decodeType(rec.Scalar(0)); err != nil {
			return nil, err
		}
		if p.Sub, err = m.readPattern(cur); err != nil {
			return nil, err
		}
		return p, nil

	case format.VarPatternKind:
		p := &graph.VarPattern{Implicit: rec.Scalar(0) != 0}
		if p.Sub, err = m.readPattern(cur); err != nil {
			return nil, err
		}
		return p, nil

	default:
		return nil, &UnknownValueError{Field: "pattern kind", Value: rec.Kind}
	}
}
