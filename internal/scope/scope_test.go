package scope

import (
	"testing"

	"github.com/gowdl/wdlsem/internal/span"
	"github.com/gowdl/wdlsem/internal/types"
)

func TestLookupWalksAncestors(t *testing.T) {
	root := New(KindDocument, nil)
	root.Declare(&Symbol{Name: "x", Type: types.TInt, Kind: KindDecl})

	scatter := New(KindScatter, root)
	if _, ok := scatter.Lookup("x"); !ok {
		t.Fatal("expected enclosing declaration to be visible in nested scope")
	}
	if _, ok := scatter.Lookup("nope"); ok {
		t.Fatal("expected lookup of undeclared name to fail")
	}
}

func TestScatterVarShadowsOnlyWithinBody(t *testing.T) {
	root := New(KindDocument, nil)
	root.Declare(&Symbol{Name: "x", Type: types.TString, Kind: KindDecl})

	scatter := New(KindScatter, root)
	scatter.Declare(&Symbol{Name: "x", Type: types.TInt, Kind: KindScatterVar})

	sym, _ := scatter.Lookup("x")
	if sym.Kind != KindScatterVar {
		t.Errorf("expected scatter variable to shadow enclosing decl inside the body, got kind %v", sym.Kind)
	}
	outerSym, _ := root.Lookup("x")
	if outerSym.Kind != KindDecl {
		t.Errorf("expected outer scope to be unaffected by inner shadowing, got kind %v", outerSym.Kind)
	}
}

func TestIsLocalDistinguishesFromAncestor(t *testing.T) {
	root := New(KindDocument, nil)
	root.Declare(&Symbol{Name: "x", Type: types.TInt, Kind: KindDecl})
	child := New(KindTask, root)

	if _, ok := child.IsLocal("x"); ok {
		t.Fatal("expected IsLocal to ignore ancestor declarations")
	}
	child.Declare(&Symbol{Name: "y", Type: types.TInt, Kind: KindDecl})
	if _, ok := child.IsLocal("y"); !ok {
		t.Fatal("expected IsLocal to find locally declared symbol")
	}
}

func TestMarkUsed(t *testing.T) {
	root := New(KindDocument, nil)
	root.Declare(&Symbol{Name: "x", Type: types.TInt, Kind: KindDecl})
	child := New(KindTask, root)

	child.MarkUsed("x")
	sym, _ := root.Lookup("x")
	if !sym.Used {
		t.Fatal("expected MarkUsed from a nested scope to mark the declaring scope's symbol")
	}
}

func TestCallNamespaceConflict(t *testing.T) {
	ns := NewCallNamespace()
	sp1 := span.Span{URI: "a.wdl", Start: 10, End: 20}
	if _, ok := ns.Register("foo", sp1, KindCall); !ok {
		t.Fatal("first registration should succeed")
	}
	first, ok := ns.Register("foo", span.Span{URI: "a.wdl", Start: 30, End: 40}, KindCall)
	if ok {
		t.Fatal("second registration of the same name should conflict")
	}
	if first != sp1 {
		t.Errorf("expected conflict to report the first span %v, got %v", sp1, first)
	}
}

func TestCallNamespaceFlatAcrossScatter(t *testing.T) {
	// §4.4: call names live in a namespace flat across scatter/conditional
	// nesting, so a call inside a scatter conflicts with one at the
	// workflow's top level even though they are not lexical siblings.
	ns := NewCallNamespace()
	ns.Register("foo", span.Span{Start: 1}, KindCall)
	if _, ok := ns.Register("foo", span.Span{Start: 2}, KindCall); ok {
		t.Fatal("expected flattened namespace to detect the conflict regardless of nesting")
	}
}

func TestCallNameConflictsWithScatterVariable(t *testing.T) {
	ns := NewCallNamespace()
	ns.Register("x", span.Span{Start: 1}, KindScatterVar)
	if _, ok := ns.Register("x", span.Span{Start: 2}, KindCall); ok {
		t.Fatal("expected a call named the same as a scatter variable to conflict")
	}
}
