package diag

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gowdl/wdlsem/internal/span"
)

func TestFinalizeSortsBySpanStart(t *testing.T) {
	s := NewSink()
	s.Errorf(RuleTypeMismatch, span.Span{URI: "a.wdl", Start: 30}, "third")
	s.Errorf(RuleTypeMismatch, span.Span{URI: "a.wdl", Start: 10}, "first")
	s.Errorf(RuleTypeMismatch, span.Span{URI: "a.wdl", Start: 20}, "second")

	got := s.Finalize()
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if got[i].Primary.Message != w {
			t.Errorf("Finalize()[%d].Message = %q, want %q", i, got[i].Primary.Message, w)
		}
	}
}

func TestFinalizeStableOnTies(t *testing.T) {
	s := NewSink()
	s.Errorf(RuleTypeMismatch, span.Span{URI: "a.wdl", Start: 10}, "one")
	s.Errorf(RuleTypeMismatch, span.Span{URI: "a.wdl", Start: 10}, "two")

	got := s.Finalize()
	if got[0].Primary.Message != "one" || got[1].Primary.Message != "two" {
		t.Errorf("expected insertion order preserved on ties, got %+v", got)
	}
}

func TestHasErrors(t *testing.T) {
	s := NewSink()
	if s.HasErrors() {
		t.Fatal("empty sink should not have errors")
	}
	s.Warnf(RuleUnusedImport, span.Span{}, "unused")
	if s.HasErrors() {
		t.Fatal("warning-only sink should not have errors")
	}
	s.Errorf(RuleTypeMismatch, span.Span{}, "boom")
	if !s.HasErrors() {
		t.Fatal("sink with an error should report HasErrors")
	}
}

func TestFinalizeDeterministic(t *testing.T) {
	build := func() *Sink {
		s := NewSink()
		s.Errorf(RuleUnknownName, span.Span{URI: "x.wdl", Start: 5}, "unknown x")
		s.Warnf(RuleUnusedInput, span.Span{URI: "x.wdl", Start: 1}, "unused y")
		return s
	}
	a := build().Finalize()
	b := build().Finalize()
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Finalize() not deterministic (-first +second):\n%s", diff)
	}
}
