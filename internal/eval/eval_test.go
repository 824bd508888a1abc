package eval

import (
	"testing"

	"github.com/gowdl/wdlsem/internal/ast"
	"github.com/gowdl/wdlsem/internal/diag"
	"github.com/gowdl/wdlsem/internal/scope"
	"github.com/gowdl/wdlsem/internal/types"
)

func newEvaluator() (*Evaluator, *scope.Scope) {
	s := scope.New(scope.KindDocument, nil)
	sink := diag.NewSink()
	return New(s, sink, types.V1_2), s
}

func TestEvalArithmeticPromotion(t *testing.T) {
	e, _ := newEvaluator()
	expr := &ast.BinaryExpr{Op: ast.OpAdd, Left: &ast.IntLit{Value: 1}, Right: &ast.FloatLit{Value: 2.0}}
	got := e.Eval(expr)
	if !got.Equal(types.TFloat) {
		t.Errorf("Int+Float = %v, want Float", got)
	}
	if e.Sink.HasErrors() {
		t.Errorf("unexpected diagnostics: %v", e.Sink.Finalize())
	}
}

func TestEvalStringPlusWidensOperand(t *testing.T) {
	e, _ := newEvaluator()
	expr := &ast.BinaryExpr{Op: ast.OpAdd, Left: &ast.StringLit{}, Right: &ast.IntLit{Value: 1}}
	got := e.Eval(expr)
	if !got.Equal(types.TString) {
		t.Errorf("String+Int = %v, want String", got)
	}
}

func TestEvalIndexArray(t *testing.T) {
	e, s := newEvaluator()
	s.Declare(&scope.Symbol{Name: "xs", Type: types.NewArray(types.TFile, false), Kind: scope.KindDecl})
	expr := &ast.IndexExpr{X: &ast.Ident{Name: "xs"}, Index: &ast.IntLit{Value: 0}}
	got := e.Eval(expr)
	if !got.Equal(types.TFile) {
		t.Errorf("xs[0] = %v, want File", got)
	}
}

func TestEvalUnknownNameProducesUnion(t *testing.T) {
	e, _ := newEvaluator()
	got := e.Eval(&ast.Ident{Name: "nope"})
	if !got.IsUnion() {
		t.Errorf("unknown ident = %v, want Union", got)
	}
	diags := e.Sink.Finalize()
	if len(diags) != 1 || diags[0].RuleID != diag.RuleUnknownName {
		t.Errorf("diagnostics = %+v, want single UnknownName", diags)
	}
}

func TestEvalIfCommonType(t *testing.T) {
	e, _ := newEvaluator()
	expr := &ast.IfExpr{
		Cond: &ast.BoolLit{Value: true},
		Then: &ast.IntLit{Value: 1},
		Else: &ast.FloatLit{Value: 2},
	}
	got := e.Eval(expr)
	if !got.Equal(types.TFloat) {
		t.Errorf("if-then-else Int/Float = %v, want Float", got)
	}
}

func TestEvalIfConditionNotBoolean(t *testing.T) {
	e, _ := newEvaluator()
	expr := &ast.IfExpr{Cond: &ast.IntLit{Value: 1}, Then: &ast.IntLit{Value: 1}, Else: &ast.IntLit{Value: 2}}
	e.Eval(expr)
	diags := e.Sink.Finalize()
	if len(diags) != 1 || diags[0].RuleID != diag.RuleConditionNotBoolean {
		t.Errorf("diagnostics = %+v, want single ConditionNotBoolean", diags)
	}
}

func TestEvalPlaceholderSepRequiresArray(t *testing.T) {
	e, _ := newEvaluator()
	ph := &ast.Placeholder{
		Option: ast.PlaceholderOption{Kind: ast.OptSep, Sep: ","},
		Expr:   &ast.IntLit{Value: 1},
	}
	e.evalPlaceholder(ph)
	diags := e.Sink.Finalize()
	if len(diags) != 1 || diags[0].RuleID != diag.RuleTypeMismatch {
		t.Errorf("diagnostics = %+v, want single TypeMismatch", diags)
	}
}

func TestEvalPlaceholderDefaultRequiresOptional(t *testing.T) {
	e, _ := newEvaluator()
	ph := &ast.Placeholder{
		Option: ast.PlaceholderOption{Kind: ast.OptDefault, Default: &ast.StringLit{}},
		Expr:   &ast.StringLit{}, // not optional
	}
	e.evalPlaceholder(ph)
	diags := e.Sink.Finalize()
	if len(diags) != 1 || diags[0].RuleID != diag.RuleRequiresOptional {
		t.Errorf("diagnostics = %+v, want single RequiresOptional", diags)
	}
}

func TestEvalPlaceholderBareArrayWithoutSepIsError(t *testing.T) {
	e, s := newEvaluator()
	s.Declare(&scope.Symbol{Name: "xs", Type: types.NewArray(types.TInt, false), Kind: scope.KindDecl})
	ph := &ast.Placeholder{Expr: &ast.Ident{Name: "xs"}}
	e.evalPlaceholder(ph)
	diags := e.Sink.Finalize()
	if len(diags) != 1 || diags[0].RuleID != diag.RuleNotCoercible {
		t.Errorf("diagnostics = %+v, want single NotCoercible", diags)
	}
}

func TestEvalCallUnknownFunction(t *testing.T) {
	e, _ := newEvaluator()
	call := &ast.CallExpr{Func: "totally_made_up"}
	got := e.Eval(call)
	if !got.IsUnion() {
		t.Errorf("call to unknown function = %v, want Union", got)
	}
	diags := e.Sink.Finalize()
	if len(diags) != 1 || diags[0].RuleID != diag.RuleUnknownFunction {
		t.Errorf("diagnostics = %+v, want single UnknownFunction", diags)
	}
}

func TestEvalSelectFirstNonOptionalWarns(t *testing.T) {
	e, _ := newEvaluator()
	call := &ast.CallExpr{Func: "select_first", Args: []ast.Expr{
		&ast.ArrayLit{Elems: []ast.Expr{&ast.IntLit{Value: 1}}},
	}}
	e.Eval(call)
	diags := e.Sink.Finalize()
	if len(diags) != 1 || diags[0].RuleID != diag.RuleNonOptionalSelect || diags[0].Severity != diag.Warning {
		t.Errorf("diagnostics = %+v, want single NonOptionalInSelect warning", diags)
	}
}

func TestEvalMemberAccessOnPair(t *testing.T) {
	e, s := newEvaluator()
	s.Declare(&scope.Symbol{Name: "p", Type: types.NewPair(types.TInt, types.TString), Kind: scope.KindDecl})
	left := e.Eval(&ast.MemberAccess{X: &ast.Ident{Name: "p"}, Name: "left"})
	if !left.Equal(types.TInt) {
		t.Errorf("p.left = %v, want Int", left)
	}
	right := e.Eval(&ast.MemberAccess{X: &ast.Ident{Name: "p"}, Name: "right"})
	if !right.Equal(types.TString) {
		t.Errorf("p.right = %v, want String", right)
	}
}

func TestEvalEmptyArrayLiteralIsUnionArray(t *testing.T) {
	e, _ := newEvaluator()
	got := e.Eval(&ast.ArrayLit{})
	if got.Kind() != types.Array || !got.Elem().IsUnion() || !got.IsOptional() || !got.NonEmpty() {
		t.Errorf("empty array literal = %v, want Array[Union]+?", got)
	}
}

func TestEvalMatchesAcceptsValidRegex(t *testing.T) {
	e, _ := newEvaluator()
	call := &ast.CallExpr{Func: "matches", Args: []ast.Expr{
		&ast.StringLit{Parts: []ast.CommandPart{{Text: "input"}}},
		&ast.StringLit{Parts: []ast.CommandPart{{Text: `^[a-z]+\d*$`}}},
	}}
	got := e.Eval(call)
	if !got.Equal(types.TBoolean) {
		t.Errorf("matches(...) = %v, want Boolean", got)
	}
	if e.Sink.HasErrors() {
		t.Errorf("unexpected diagnostics for a valid pattern: %v", e.Sink.Finalize())
	}
}

func TestEvalMatchesRejectsInvalidRegex(t *testing.T) {
	e, _ := newEvaluator()
	call := &ast.CallExpr{Func: "matches", Args: []ast.Expr{
		&ast.StringLit{Parts: []ast.CommandPart{{Text: "input"}}},
		&ast.StringLit{Parts: []ast.CommandPart{{Text: "[a-z"}}},
	}}
	e.Eval(call)
	diags := e.Sink.Finalize()
	if len(diags) != 1 || diags[0].RuleID != diag.RuleInvalidRegex {
		t.Errorf("diagnostics = %+v, want a single InvalidRegex error", diags)
	}
}

func TestEvalSubSkipsInterpolatedPattern(t *testing.T) {
	e, s := newEvaluator()
	s.Declare(&scope.Symbol{Name: "p", Type: types.TString, Kind: scope.KindDecl})
	call := &ast.CallExpr{Func: "sub", Args: []ast.Expr{
		&ast.StringLit{Parts: []ast.CommandPart{{Text: "input"}}},
		&ast.StringLit{Parts: []ast.CommandPart{{Placeholder: &ast.Placeholder{Expr: &ast.Ident{Name: "p"}}}}},
		&ast.StringLit{Parts: []ast.CommandPart{{Text: "replacement"}}},
	}}
	e.Eval(call)
	if e.Sink.HasErrors() {
		t.Errorf("an interpolated pattern should never be statically checked: %v", e.Sink.Finalize())
	}
}
