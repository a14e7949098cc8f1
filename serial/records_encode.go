package serial

import (
	"fmt"

	"github.com/symgraph/symgraph/format"
	"github.com/symgraph/symgraph/graph"
	"github.com/symgraph/symgraph/internal/bcio"
)

// Record layouts are frozen; see the format package. Scalars are listed
// in declaration order, trailing groups are written immediately after the
// owning record in the order their counts appear in it.

func declKind(d graph.Decl) format.RecordKind {
	switch d.(type) {
	case *graph.TypeAliasDecl:
		return format.TypeAliasDeclKind
	case *graph.GenericParamDecl:
		return format.GenericParamDeclKind
	case *graph.StructDecl:
		return format.StructDeclKind
	case *graph.ClassDecl:
		return format.ClassDeclKind
	case *graph.ProtocolDecl:
		return format.ProtocolDeclKind
	case *graph.EnumDecl:
		return format.EnumDeclKind
	case *graph.EnumElementDecl:
		return format.EnumElementDeclKind
	case *graph.VarDecl:
		return format.VarDeclKind
	case *graph.FuncDecl:
		return format.FuncDeclKind
	case *graph.ConstructorDecl:
		return format.ConstructorDeclKind
	case *graph.DestructorDecl:
		return format.DestructorDeclKind
	case *graph.SubscriptDecl:
		return format.SubscriptDeclKind
	case *graph.PatternBindingDecl:
		return format.PatternBindingDeclKind
	case *graph.PrefixOperatorDecl:
		return format.PrefixOperatorDeclKind
	case *graph.PostfixOperatorDecl:
		return format.PostfixOperatorDeclKind
	case *graph.InfixOperatorDecl:
		return format.InfixOperatorDeclKind
	case *graph.ExtensionDecl:
		return format.ExtensionDeclKind
	default:
		return 0
	}
}

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func (w *Writer) writeDecl(d graph.Decl) error {
	base := d.Base()
	name := w.nameRef(base.Name)
	ctx := w.declRef(base.Context)
	implicit := b2u(base.Implicit)

	switch n := d.(type) {
	case *graph.TypeAliasDecl:
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.TypeAliasDeclKind),
			Scalars: []uint64{name, ctx, w.typeRef(n.Underlying), implicit, uint64(len(n.Conformances))},
		})
		w.writeConformances(n.Conformances)

	case *graph.GenericParamDecl:
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.GenericParamDeclKind),
			Scalars: []uint64{name, ctx, uint64(n.Depth), uint64(n.Index)},
		})

	case *graph.StructDecl:
		w.writeNominal(format.StructDeclKind, d, nil, n.GenericParams, n.Conformances, n.Members)

	case *graph.ClassDecl:
		w.writeNominal(format.ClassDeclKind, d, n.Superclass, n.GenericParams, n.Conformances, n.Members)

	case *graph.EnumDecl:
		w.writeNominal(format.EnumDeclKind, d, nil, n.GenericParams, n.Conformances, n.Members)

	case *graph.ProtocolDecl:
		inherited := make([]uint64, len(n.Inherited))
		for i, p := range n.Inherited {
			inherited[i] = w.declRef(p)
		}
		memberIDs := w.memberRefs(n.Members)
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.ProtocolDeclKind),
			Scalars: []uint64{name, ctx, implicit, b2u(n.ClassProtocol)},
			Array:   inherited,
		})
		w.writeMemberList(w.ids[d], n.Members, memberIDs)

	case *graph.EnumElementDecl:
		w.bc.WriteRecord(bcio.Record{
			Kind: uint64(format.EnumElementDeclKind),
			Scalars: []uint64{
				name, ctx,
				w.typeRef(n.ArgumentType), w.typeRef(n.ResultType),
				implicit,
			},
		})

	case *graph.VarDecl:
		w.bc.WriteRecord(bcio.Record{
			Kind: uint64(format.VarDeclKind),
			Scalars: []uint64{
				name, ctx, implicit,
				w.typeRef(n.Type),
				w.declRef(n.Getter), w.declRef(n.Setter), w.declRef(n.Overridden),
			},
		})

	case *graph.FuncDecl:
		w.bc.WriteRecord(bcio.Record{
			Kind: uint64(format.FuncDeclKind),
			Scalars: []uint64{
				name, ctx, implicit, b2u(n.Static),
				w.typeRef(n.Signature),
				w.declRef(n.Operator), w.declRef(n.Overridden),
				b2u(n.GenericParams != nil), uint64(len(n.Params)),
			},
			Blob: []byte(n.AsmName),
		})
		w.writeGenericParams(n.GenericParams)
		for _, p := range n.Params {
			if err := w.writePattern(p); err != nil {
				return err
			}
		}

	case *graph.ConstructorDecl:
		w.bc.WriteRecord(bcio.Record{
			Kind: uint64(format.ConstructorDeclKind),
			Scalars: []uint64{
				ctx, implicit,
				w.typeRef(n.Signature),
				b2u(n.GenericParams != nil), b2u(n.Param != nil),
			},
		})
		w.writeGenericParams(n.GenericParams)
		if n.Param != nil {
			if err := w.writePattern(n.Param); err != nil {
				return err
			}
		}

	case *graph.DestructorDecl:
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.DestructorDeclKind),
			Scalars: []uint64{ctx, implicit, w.typeRef(n.Signature)},
		})

	case *graph.SubscriptDecl:
		w.bc.WriteRecord(bcio.Record{
			Kind: uint64(format.SubscriptDeclKind),
			Scalars: []uint64{
				ctx, implicit,
				w.typeRef(n.ElementType),
				w.declRef(n.Getter), w.declRef(n.Setter), w.declRef(n.Overridden),
				b2u(n.Indices != nil),
			},
		})
		if n.Indices != nil {
			if err := w.writePattern(n.Indices); err != nil {
				return err
			}
		}

	case *graph.PatternBindingDecl:
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.PatternBindingDeclKind),
			Scalars: []uint64{ctx, implicit},
		})
		if err := w.writePattern(n.Pattern); err != nil {
			return err
		}

	case *graph.PrefixOperatorDecl:
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.PrefixOperatorDeclKind),
			Scalars: []uint64{name, ctx},
		})

	case *graph.PostfixOperatorDecl:
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.PostfixOperatorDeclKind),
			Scalars: []uint64{name, ctx},
		})

	case *graph.InfixOperatorDecl:
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.InfixOperatorDeclKind),
			Scalars: []uint64{name, ctx, uint64(n.Associativity), uint64(n.Precedence)},
		})

	case *graph.ExtensionDecl:
		memberIDs := w.memberRefs(n.Members)
		w.bc.WriteRecord(bcio.Record{
			Kind: uint64(format.ExtensionDeclKind),
			Scalars: []uint64{
				w.typeRef(n.ExtendedType), ctx, implicit,
				uint64(len(n.Conformances)),
			},
		})
		w.writeConformances(n.Conformances)
		w.writeMemberList(w.ids[d], n.Members, memberIDs)

	default:
		return fmt.Errorf("cannot serialize decl of type %T", d)
	}
	return nil
}

// writeNominal emits struct, class, and enum records, which share a
// layout except for the class superclass field.
func (w *Writer) writeNominal(kind format.RecordKind, d graph.Decl, superclass graph.Type, gp *graph.GenericParamList, conf []*graph.Conformance, members []graph.Decl) {
	base := d.Base()
	memberIDs := w.memberRefs(members)
	scalars := []uint64{
		w.nameRef(base.Name), w.declRef(base.Context), b2u(base.Implicit),
		b2u(gp != nil), uint64(len(conf)),
	}
	if kind == format.ClassDeclKind {
		scalars = append(scalars, w.typeRef(superclass))
	}
	w.bc.WriteRecord(bcio.Record{Kind: uint64(kind), Scalars: scalars})
	w.writeGenericParams(gp)
	w.writeConformances(conf)
	w.writeMemberList(w.ids[d], members, memberIDs)
}

func (w *Writer) memberRefs(members []graph.Decl) []uint64 {
	ids := make([]uint64, len(members))
	for i, m := range members {
		ids[i] = w.declRef(m)
	}
	return ids
}

// writeMemberList emits the member-list trailing record and feeds the
// per-owner member table of the index.
func (w *Writer) writeMemberList(owner graph.EntityID, members []graph.Decl, memberIDs []uint64) {
	w.bc.WriteRecord(bcio.Record{
		Kind:  uint64(format.MemberListKind),
		Array: memberIDs,
	})
	w.addMemberTable(owner, members, memberIDs)
}

func (w *Writer) writeGenericParams(gp *graph.GenericParamList) {
	if gp == nil {
		return
	}
	w.bc.WriteRecord(bcio.Record{
		Kind:    uint64(format.GenericParamListKind),
		Scalars: []uint64{uint64(len(gp.Params)), uint64(len(gp.Requirements))},
	})
	for _, p := range gp.Params {
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.GenericParamKind),
			Scalars: []uint64{w.declRef(p)},
		})
	}
	for _, r := range gp.Requirements {
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.GenericRequirementKind),
			Scalars: []uint64{uint64(r.Kind)},
			Array:   []uint64{w.typeRef(r.First), w.typeRef(r.Second)},
		})
	}
}

// writeConformances emits one record per conformance slot. Conformances
// are consumed positionally, so an absent conformance is an explicit
// record rather than an omission.
func (w *Writer) writeConformances(conf []*graph.Conformance) {
	for _, c := range conf {
		if c.Absent {
			w.bc.WriteRecord(bcio.Record{
				Kind:    uint64(format.NoConformanceKind),
				Scalars: []uint64{w.declRef(c.Protocol)},
			})
			continue
		}
		witnesses := make([]uint64, len(c.Witnesses))
		for i, wit := range c.Witnesses {
			witnesses[i] = w.declRef(wit)
		}
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.NormalConformanceKind),
			Scalars: []uint64{w.declRef(c.Protocol)},
			Array:   witnesses,
		})
	}
}

func (w *Writer) writeType(t graph.Type) error {
	switch n := t.(type) {
	case *graph.NominalType:
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.NominalTypeKind),
			Scalars: []uint64{w.declRef(n.Decl), w.typeRef(n.Parent)},
		})

	case *graph.ParenType:
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.ParenTypeKind),
			Scalars: []uint64{w.typeRef(n.Inner)},
		})

	case *graph.TupleType:
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.TupleTypeKind),
			Scalars: []uint64{uint64(len(n.Elements))},
		})
		for _, el := range n.Elements {
			w.bc.WriteRecord(bcio.Record{
				Kind: uint64(format.TupleTypeEltKind),
				Scalars: []uint64{
					w.nameRef(el.Name), w.typeRef(el.Type),
					uint64(el.DefaultArg), b2u(el.Vararg),
				},
			})
		}

	case *graph.FunctionType:
		w.bc.WriteRecord(bcio.Record{
			Kind: uint64(format.FunctionTypeKind),
			Scalars: []uint64{
				w.typeRef(n.Input), w.typeRef(n.Output),
				uint64(n.Convention),
				b2u(n.AutoClosure), b2u(n.Thin), b2u(n.NoReturn),
			},
		})

	case *graph.MetatypeType:
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.MetatypeTypeKind),
			Scalars: []uint64{w.typeRef(n.Instance)},
		})

	case *graph.LValueType:
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.LValueTypeKind),
			Scalars: []uint64{w.typeRef(n.Object), b2u(n.Implicit), b2u(n.NonSettable)},
		})

	case *graph.BoundGenericType:
		args := make([]uint64, len(n.Args))
		for i, a := range n.Args {
			args[i] = w.typeRef(a)
		}
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.BoundGenericTypeKind),
			Scalars: []uint64{w.declRef(n.Decl), w.typeRef(n.Parent)},
			Array:   args,
		})

	case *graph.ArrayType:
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.ArrayTypeKind),
			Scalars: []uint64{w.typeRef(n.Element), n.Size},
		})

	case *graph.SliceType:
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.SliceTypeKind),
			Scalars: []uint64{w.typeRef(n.Element)},
		})

	case *graph.OptionalType:
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.OptionalTypeKind),
			Scalars: []uint64{w.typeRef(n.Element)},
		})

	case *graph.ReferenceStorageType:
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.ReferenceStorageTypeKind),
			Scalars: []uint64{uint64(n.Ownership), w.typeRef(n.Referent)},
		})

	case *graph.ProtocolCompositionType:
		protos := make([]uint64, len(n.Protocols))
		for i, p := range n.Protocols {
			protos[i] = w.typeRef(p)
		}
		w.bc.WriteRecord(bcio.Record{
			Kind:  uint64(format.ProtocolCompositionTypeKind),
			Array: protos,
		})

	default:
		return fmt.Errorf("cannot serialize type of kind %T", t)
	}
	return nil
}

func (w *Writer) writePattern(p graph.Pattern) error {
	switch n := p.(type) {
	case *graph.ParenPattern:
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.ParenPatternKind),
			Scalars: []uint64{b2u(n.Implicit)},
		})
		return w.writePattern(n.Sub)

	case *graph.TuplePattern:
		w.bc.WriteRecord(bcio.Record{
			Kind: uint64(format.TuplePatternKind),
			Scalars: []uint64{
				w.typeRef(n.Type), b2u(n.Implicit), b2u(n.HasVararg),
				uint64(len(n.Elements)),
			},
		})
		for _, el := range n.Elements {
			w.bc.WriteRecord(bcio.Record{
				Kind:    uint64(format.TuplePatternEltKind),
				Scalars: []uint64{uint64(el.DefaultArg)},
			})
			if err := w.writePattern(el.Sub); err != nil {
				return err
			}
		}
		return nil

	case *graph.NamedPattern:
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.NamedPatternKind),
			Scalars: []uint64{w.declRef(n.Var), b2u(n.Implicit)},
		})
		return nil

	case *graph.AnyPattern:
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.AnyPatternKind),
			Scalars: []uint64{w.typeRef(n.Type), b2u(n.Implicit)},
		})
		return nil

	case *graph.TypedPattern:
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.TypedPatternKind),
			Scalars: []uint64{w.typeRef(n.Type), b2u(n.Implicit)},
		})
		return w.writePattern(n.Sub)

	case *graph.VarPattern:
		w.bc.WriteRecord(bcio.Record{
			Kind:    uint64(format.VarPatternKind),
			Scalars: []uint64{b2u(n.Implicit)},
		})
		return w.writePattern(n.Sub)

	default:
		return fmt.Errorf("cannot serialize pattern of type %T", p)
	}
}
