package graph

import (
	"context"
	"testing"

	"github.com/gowdl/wdlsem/internal/analysis"
	"github.com/gowdl/wdlsem/internal/ast"
	"github.com/gowdl/wdlsem/internal/diag"
	"github.com/gowdl/wdlsem/internal/span"
	"github.com/gowdl/wdlsem/internal/types"
)

func TestStateCanAdvanceTo(t *testing.T) {
	cases := []struct {
		from, to State
		want     bool
	}{
		{Pending, Fetching, true},
		{Pending, Parsed, false},
		{Fetching, Parsed, true},
		{Parsed, Analyzing, true},
		{Analyzing, Analyzed, true},
		{Analyzed, Fetching, false},
		{Analyzing, Failed, true},
		{Analyzed, Failed, true},
	}
	for _, c := range cases {
		if got := c.from.CanAdvanceTo(c.to); got != c.want {
			t.Errorf("%s.CanAdvanceTo(%s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestAddNodeIsIdempotent(t *testing.T) {
	g := New()
	a := g.AddNode("a.wdl", true)
	b := g.AddNode("a.wdl", false)
	if a != b {
		t.Fatalf("expected the same index for a repeated URI, got %d and %d", a, b)
	}
	if n := g.Node(a); !n.Rooted {
		t.Fatalf("expected rooted flag to stick from the first AddNode call")
	}
}

func TestAddDependencyEdgeDetectsCycle(t *testing.T) {
	g := New()
	a := g.AddNode("a.wdl", true)
	b := g.AddNode("b.wdl", false)
	c := g.AddNode("c.wdl", false)

	if ok := g.AddDependencyEdge(a, b); !ok {
		t.Fatalf("a -> b should be a legal edge")
	}
	if ok := g.AddDependencyEdge(b, c); !ok {
		t.Fatalf("b -> c should be a legal edge")
	}
	if ok := g.AddDependencyEdge(c, a); ok {
		t.Fatalf("c -> a should be withheld: it closes a -> b -> c -> a")
	}

	cycles := g.Cycles()
	if len(cycles) != 1 || cycles[0].Importer != c || cycles[0].Importee != a {
		t.Fatalf("unexpected cycle set: %+v", cycles)
	}
	if deps := g.Dependencies(c); len(deps) != 0 {
		t.Fatalf("the cycle-closing edge must not have been inserted, got deps %v", deps)
	}
}

func TestAddDependencyEdgeRejectsSelfImport(t *testing.T) {
	g := New()
	a := g.AddNode("a.wdl", true)
	if ok := g.AddDependencyEdge(a, a); ok {
		t.Fatalf("a document importing itself must be rejected")
	}
}

func TestGCRemovesUnreferencedNonRootNodes(t *testing.T) {
	g := New()
	root := g.AddNode("root.wdl", true)
	dep := g.AddNode("dep.wdl", false)
	g.AddNode("orphan.wdl", false)
	g.AddDependencyEdge(root, dep)

	g.GC()

	if _, ok := g.Index("orphan.wdl"); ok {
		t.Fatalf("orphan.wdl should have been collected")
	}
	if _, ok := g.Index("root.wdl"); !ok {
		t.Fatalf("root.wdl is rooted and must survive GC")
	}
	if _, ok := g.Index("dep.wdl"); !ok {
		t.Fatalf("dep.wdl is referenced by root and must survive GC")
	}
}

func TestGCChainReaction(t *testing.T) {
	// root -> mid -> leaf. Unrooting root should collect mid and leaf too,
	// in the same pass-until-stable sweep original_source's gc() performs.
	g := New()
	root := g.AddNode("root.wdl", true)
	mid := g.AddNode("mid.wdl", false)
	leaf := g.AddNode("leaf.wdl", false)
	g.AddDependencyEdge(root, mid)
	g.AddDependencyEdge(mid, leaf)

	g.Unroot("root.wdl")
	g.GC()

	for _, uri := range []string{"root.wdl", "mid.wdl", "leaf.wdl"} {
		if _, ok := g.Index(uri); ok {
			t.Errorf("%s should have been collected once its root was removed", uri)
		}
	}
}

func TestInvalidatePropagatesToTransitiveImporters(t *testing.T) {
	g := New()
	a := g.AddNode("a.wdl", true)
	b := g.AddNode("b.wdl", true)
	c := g.AddNode("c.wdl", true)
	// c imports b imports a.
	g.AddDependencyEdge(c, b)
	g.AddDependencyEdge(b, a)

	for _, idx := range []int{a, b, c} {
		g.SetState(idx, Fetching)
		g.SetParsed(idx, "hash", []byte("version 1.2\n"), &ast.Document{}, nil, nil)
		g.SetState(idx, Analyzing)
		g.SetAnalyzed(idx, &analysis.Result{})
	}

	reset := g.Invalidate(a)
	wantSet := map[int]bool{a: true, b: true, c: true}
	if len(reset) != len(wantSet) {
		t.Fatalf("expected %d nodes invalidated, got %d (%v)", len(wantSet), len(reset), reset)
	}
	for _, idx := range reset {
		if !wantSet[idx] {
			t.Errorf("unexpected node %d in invalidation set", idx)
		}
		if g.Node(idx).State != Pending {
			t.Errorf("node %d should be back to Pending, got %s", idx, g.Node(idx).State)
		}
	}
}

func TestInvalidateDoesNotTouchUnrelatedSiblings(t *testing.T) {
	g := New()
	a := g.AddNode("a.wdl", true)
	b := g.AddNode("b.wdl", true)
	sibling := g.AddNode("sibling.wdl", true)
	g.AddDependencyEdge(b, a)

	g.SetState(sibling, Fetching)
	g.SetParsed(sibling, "h", []byte("version 1.2\n"), &ast.Document{}, nil, nil)
	g.SetState(sibling, Analyzing)
	g.SetAnalyzed(sibling, &analysis.Result{})

	g.Invalidate(a)

	if g.Node(sibling).State != Analyzed {
		t.Fatalf("sibling with no dependency on a must be unaffected, got %s", g.Node(sibling).State)
	}
}

func TestSchedulerAnalyzesDependencyOrder(t *testing.T) {
	sources := map[string][]byte{
		"a.wdl": []byte("version 1.2\n"),
		"b.wdl": []byte("version 1.2\n"),
	}
	importsOf := map[string][]string{
		"b.wdl": {"a.wdl"},
	}

	fetch := func(_ context.Context, uri string) ([]byte, string, error) {
		return sources[uri], "", nil
	}
	parse := func(uri string, src []byte) (*ast.Document, []diag.Diagnostic, error) {
		doc := &ast.Document{URI: uri, Version: "1.2"}
		for _, imp := range importsOf[uri] {
			doc.Imports = append(doc.Imports, &ast.Import{URI: imp, URISpan: span.Span{URI: uri}})
		}
		return doc, nil, nil
	}
	resolveURI := func(_ string, importURI string) (string, error) { return importURI, nil }

	g := New()
	g.AddNode("a.wdl", true)
	g.AddNode("b.wdl", true)

	sched := NewScheduler(g, fetch, parse, resolveURI, types.V1_2, 4, nil)
	if err := sched.Run(context.Background()); err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}

	aIdx, _ := g.Index("a.wdl")
	bIdx, _ := g.Index("b.wdl")
	if g.Node(aIdx).State != Analyzed {
		t.Fatalf("a.wdl should be Analyzed, got %s", g.Node(aIdx).State)
	}
	if g.Node(bIdx).State != Analyzed {
		t.Fatalf("b.wdl should be Analyzed, got %s", g.Node(bIdx).State)
	}
	if deps := g.Dependencies(bIdx); len(deps) != 1 || deps[0] != aIdx {
		t.Fatalf("b.wdl should depend on a.wdl, got %v", deps)
	}
}

func TestSchedulerReportsFetchFailureWithoutBlockingOtherNodes(t *testing.T) {
	fetch := func(_ context.Context, uri string) ([]byte, string, error) {
		if uri == "missing.wdl" {
			return nil, "", errNotFound
		}
		return []byte("version 1.2\n"), "", nil
	}
	parse := func(uri string, src []byte) (*ast.Document, []diag.Diagnostic, error) {
		return &ast.Document{URI: uri, Version: "1.2"}, nil, nil
	}
	resolveURI := func(_ string, importURI string) (string, error) { return importURI, nil }

	g := New()
	g.AddNode("missing.wdl", true)
	g.AddNode("ok.wdl", true)

	sched := NewScheduler(g, fetch, parse, resolveURI, types.V1_2, 4, nil)
	err := sched.Run(context.Background())
	if err == nil {
		t.Fatalf("expected an aggregated error reporting the fetch failure")
	}

	missingIdx, _ := g.Index("missing.wdl")
	okIdx, _ := g.Index("ok.wdl")
	if g.Node(missingIdx).State != Failed {
		t.Fatalf("missing.wdl should be Failed, got %s", g.Node(missingIdx).State)
	}
	if g.Node(okIdx).State != Analyzed {
		t.Fatalf("ok.wdl should still reach Analyzed despite the sibling failure, got %s", g.Node(okIdx).State)
	}
}

type stubError string

func (e stubError) Error() string { return string(e) }

const errNotFound = stubError("not found")
