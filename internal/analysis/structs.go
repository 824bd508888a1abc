package analysis

import (
	"fmt"

	"github.com/gowdl/wdlsem/internal/ast"
	"github.com/gowdl/wdlsem/internal/diag"
	"github.com/gowdl/wdlsem/internal/span"
	"github.com/gowdl/wdlsem/internal/types"
)

type structOrigin uint8

const (
	originLocal structOrigin = iota
	originImport
)

type structEntry struct {
	Type   *types.Type
	Span   span.Span
	Origin structOrigin
}

// addStructCandidate registers name in the merged local+imported struct
// table, reporting DuplicateStruct on collision regardless of whether the
// earlier entry came from a local declaration or an import alias (both
// count as "a struct of this name already exists" per spec.md §4.6).
func (a *analyzer) addStructCandidate(name string, t *types.Type, sp span.Span, origin structOrigin) {
	if existing, dup := a.structEntries[name]; dup {
		a.sink.Report(diag.Diagnostic{
			Severity: diag.Error,
			RuleID:   diag.RuleDuplicateStruct,
			Primary:  diag.Label{Span: sp, Message: "struct \"" + name + "\" is already declared"},
			Secondary: []diag.Label{
				{Span: existing.Span, Message: "first declared here"},
			},
		})
		return
	}
	a.structEntries[name] = structEntry{Type: t, Span: sp, Origin: origin}
	a.structTypes[name] = t
}

func (a *analyzer) runStructPass() {
	for _, sd := range a.doc.Structs {
		if _, already := a.structEntries[sd.Name]; already {
			// Already claimed by an earlier local struct or an import
			// alias; addStructCandidate below will report the conflict.
		}
		t := a.resolveStructType(sd.Name, sd.NameSpan)
		a.addStructCandidate(sd.Name, t, sd.NameSpan, originLocal)
	}
}

// resolveStructType builds (and memoizes) the structural Type for a local
// struct declaration, resolving member types recursively. buildingStructs
// guards against an infinite loop on a mutually-recursive struct
// reference, which WDL does not actually support (a struct's transitive
// member closure cannot be infinite) but which this layer must not hang
// on if a malformed document declares one anyway.
func (a *analyzer) resolveStructType(name string, sp span.Span) *types.Type {
	if t, ok := a.structTypes[name]; ok {
		return t
	}
	if a.buildingStructs[name] {
		return types.TUnion
	}
	decl, ok := a.structDeclsByName[name]
	if !ok {
		a.sink.Errorf(diag.RuleUnknownName, sp, fmt.Sprintf("unknown struct type %q", name))
		return types.TUnion
	}

	a.buildingStructs[name] = true
	members := make([]types.Member, 0, len(decl.Members))
	for _, m := range decl.Members {
		members = append(members, types.Member{Name: m.Name, Type: a.resolveTypeExpr(m.Type)})
	}
	delete(a.buildingStructs, name)

	t := types.NewStruct(name, members)
	a.structTypes[name] = t
	return t
}

// resolveTypeExpr converts a TypeExpr (the syntax for a type annotation)
// into its Type, looking up struct names in the merged struct table.
func (a *analyzer) resolveTypeExpr(te *ast.TypeExpr) *types.Type {
	if te == nil {
		return types.TUnion
	}
	var t *types.Type
	switch te.Kind {
	case ast.TypeArray:
		t = types.NewArray(a.resolveTypeExpr(te.Elem), te.NonEmpty)
	case ast.TypeMap:
		t = types.NewMap(a.resolveTypeExpr(te.Elem2), a.resolveTypeExpr(te.Elem))
	case ast.TypePair:
		t = types.NewPair(a.resolveTypeExpr(te.Elem), a.resolveTypeExpr(te.Elem2))
	case ast.TypeObject:
		t = types.TObject
	default:
		t = a.resolvePrimitiveOrStruct(te.Name, te.Span())
	}
	if te.Optional {
		t = t.Optional()
	}
	return t
}

func (a *analyzer) resolvePrimitiveOrStruct(name string, sp span.Span) *types.Type {
	switch name {
	case "Boolean":
		return types.TBoolean
	case "Int":
		return types.TInt
	case "Float":
		return types.TFloat
	case "String":
		return types.TString
	case "File":
		return types.TFile
	case "Directory":
		return types.TDirectory
	default:
		if t, ok := a.structTypes[name]; ok {
			return t
		}
		return a.resolveStructType(name, sp)
	}
}
