package analysis

import (
	"testing"

	"github.com/gowdl/wdlsem/internal/ast"
	"github.com/gowdl/wdlsem/internal/diag"
	"github.com/gowdl/wdlsem/internal/span"
	"github.com/gowdl/wdlsem/internal/types"
)

func sp(start, end int) span.Span {
	return span.Span{URI: "t.wdl", Start: start, End: end}
}

func intType() *ast.TypeExpr  { return &ast.TypeExpr{Name: "Int"} }
func strType() *ast.TypeExpr  { return &ast.TypeExpr{Name: "String"} }
func boolType() *ast.TypeExpr { return &ast.TypeExpr{Name: "Boolean"} }

func arrType(elem *ast.TypeExpr) *ast.TypeExpr {
	return &ast.TypeExpr{Kind: ast.TypeArray, Elem: elem}
}

func hasRule(diags []diag.Diagnostic, ruleID string) bool {
	for _, d := range diags {
		if d.RuleID == ruleID {
			return true
		}
	}
	return false
}

func countRule(diags []diag.Diagnostic, ruleID string) int {
	n := 0
	for _, d := range diags {
		if d.RuleID == ruleID {
			n++
		}
	}
	return n
}

// S2 — two calls bound to the same name in a workflow's flat call
// namespace must conflict, whether the collision comes through an alias
// or a bare callee name.
func TestConflictingCallName(t *testing.T) {
	doc := &ast.Document{
		URI: "t.wdl",
		Tasks: []*ast.Task{
			{Name: "a", NameSpan: sp(0, 1)},
			{Name: "b", NameSpan: sp(2, 3)},
		},
		Workflow: &ast.Workflow{
			Name: "wf",
			Body: []ast.WorkflowStmt{
				&ast.Call{Target: []string{"a"}, TargetSpan: sp(10, 11)},
				&ast.Call{Target: []string{"b"}, Alias: "a", TargetSpan: sp(20, 21)},
			},
		},
	}
	res := Analyze(doc, types.V1_2, nil)
	if !hasRule(res.Diagnostics, diag.RuleConflictingCallName) {
		t.Errorf("diagnostics = %+v, want ConflictingCallName", res.Diagnostics)
	}
}

// S3 — two imports whose namespace derivation collides (same basename)
// must report ConflictingImport rather than silently last-writer-wins.
func TestConflictingImport(t *testing.T) {
	doc := &ast.Document{
		URI: "t.wdl",
		Imports: []*ast.Import{
			{URI: "tasks/foo.wdl", URISpan: sp(0, 10)},
			{URI: "other/foo.wdl", URISpan: sp(20, 30)},
		},
	}
	res := Analyze(doc, types.V1_2, nil)
	if !hasRule(res.Diagnostics, diag.RuleConflictingImport) {
		t.Errorf("diagnostics = %+v, want ConflictingImport", res.Diagnostics)
	}
}

// S4 — nesting a hints literal inside another hints literal is forbidden
// at any depth, not just directly.
func TestNestedHintsLiteralKind(t *testing.T) {
	innermost := &ast.LiteralRecord{Kind: ast.LiteralHints}
	middle := &ast.LiteralRecord{Kind: ast.LiteralHints, Entries: []ast.LiteralEntry{
		{Key: "bad", Nested: innermost},
	}}
	outer := &ast.LiteralRecord{Kind: ast.LiteralHints, Entries: []ast.LiteralEntry{
		{Key: "ok", Nested: middle},
	}}
	doc := &ast.Document{
		URI: "t.wdl",
		Tasks: []*ast.Task{
			{Name: "t", NameSpan: sp(0, 1), Hints: outer},
		},
	}
	res := Analyze(doc, types.V1_2, nil)
	if countRule(res.Diagnostics, diag.RuleNestedLiteralKind) < 1 {
		t.Errorf("diagnostics = %+v, want at least one NestedLiteralKind", res.Diagnostics)
	}
}

// S5 — a call that omits a required input must report
// MissingRequiredInput.
func TestMissingRequiredInput(t *testing.T) {
	doc := &ast.Document{
		URI: "t.wdl",
		Tasks: []*ast.Task{
			{
				Name:     "greet",
				NameSpan: sp(0, 5),
				Inputs: []*ast.Decl{
					{Name: "name", NameSpan: sp(6, 10), Type: strType()},
				},
			},
		},
		Workflow: &ast.Workflow{
			Name: "wf",
			Body: []ast.WorkflowStmt{
				&ast.Call{Target: []string{"greet"}, TargetSpan: sp(20, 26)},
			},
		},
	}
	res := Analyze(doc, types.V1_2, nil)
	if !hasRule(res.Diagnostics, diag.RuleMissingRequiredInput) {
		t.Errorf("diagnostics = %+v, want MissingRequiredInput", res.Diagnostics)
	}
}

// A call that does supply its required input leaves no
// MissingRequiredInput behind.
func TestRequiredInputSatisfied(t *testing.T) {
	doc := &ast.Document{
		URI: "t.wdl",
		Tasks: []*ast.Task{
			{
				Name:     "greet",
				NameSpan: sp(0, 5),
				Inputs: []*ast.Decl{
					{Name: "name", NameSpan: sp(6, 10), Type: strType()},
				},
			},
		},
		Workflow: &ast.Workflow{
			Name: "wf",
			Body: []ast.WorkflowStmt{
				&ast.Call{
					Target:     []string{"greet"},
					TargetSpan: sp(20, 26),
					Inputs: []ast.KeyExpr{
						{Key: "name", KeySpan: sp(27, 31), Value: &ast.StringLit{}},
					},
				},
			},
		},
	}
	res := Analyze(doc, types.V1_2, nil)
	if hasRule(res.Diagnostics, diag.RuleMissingRequiredInput) {
		t.Errorf("diagnostics = %+v, want no MissingRequiredInput", res.Diagnostics)
	}
}

// A scatter expression that is not an Array reports ScatterNotArray.
func TestScatterNotArray(t *testing.T) {
	doc := &ast.Document{
		URI: "t.wdl",
		Workflow: &ast.Workflow{
			Name: "wf",
			Body: []ast.WorkflowStmt{
				&ast.Scatter{Var: "x", VarSpan: sp(0, 1), Expr: &ast.IntLit{Value: 1}},
			},
		},
	}
	res := Analyze(doc, types.V1_2, nil)
	if !hasRule(res.Diagnostics, diag.RuleScatterNotArray) {
		t.Errorf("diagnostics = %+v, want ScatterNotArray", res.Diagnostics)
	}
}

// A workflow output that reaches into a scatter variable after the
// scatter body ends reports OutputReferencesScatterVar rather than a
// generic UnknownName.
func TestOutputReferencesScatterVar(t *testing.T) {
	doc := &ast.Document{
		URI: "t.wdl",
		Workflow: &ast.Workflow{
			Name: "wf",
			Body: []ast.WorkflowStmt{
				&ast.Scatter{
					Var:     "x",
					VarSpan: sp(0, 1),
					Expr:    &ast.ArrayLit{Elems: []ast.Expr{&ast.IntLit{Value: 1}}},
					Body:    nil,
				},
			},
			Outputs: []*ast.Decl{
				{Name: "leaked", NameSpan: sp(50, 56), Type: intType(), Expr: &ast.Ident{Name: "x"}},
			},
		},
	}
	res := Analyze(doc, types.V1_2, nil)
	if !hasRule(res.Diagnostics, diag.RuleOutputReferencesScatterVar) {
		t.Errorf("diagnostics = %+v, want OutputReferencesScatterVar", res.Diagnostics)
	}
}

// An unused input and an unused call both produce their respective usage
// warnings.
func TestUnusedSymbolWarnings(t *testing.T) {
	doc := &ast.Document{
		URI: "t.wdl",
		Tasks: []*ast.Task{
			{Name: "noop", NameSpan: sp(0, 4)},
		},
		Workflow: &ast.Workflow{
			Name: "wf",
			Inputs: []*ast.Decl{
				{Name: "unused_in", NameSpan: sp(5, 14), Type: intType()},
			},
			Body: []ast.WorkflowStmt{
				&ast.Call{Target: []string{"noop"}, TargetSpan: sp(20, 24)},
			},
		},
	}
	res := Analyze(doc, types.V1_2, nil)
	if !hasRule(res.Diagnostics, diag.RuleUnusedInput) {
		t.Errorf("diagnostics = %+v, want UnusedInput", res.Diagnostics)
	}
	if !hasRule(res.Diagnostics, diag.RuleUnusedCall) {
		t.Errorf("diagnostics = %+v, want UnusedCall", res.Diagnostics)
	}
}

// An import that no call ever references through its namespace is
// reported as UnusedImport.
func TestUnusedImport(t *testing.T) {
	doc := &ast.Document{
		URI: "t.wdl",
		Imports: []*ast.Import{
			{URI: "tasks/helpers.wdl", URISpan: sp(0, 10)},
		},
	}
	res := Analyze(doc, types.V1_2, nil)
	if !hasRule(res.Diagnostics, diag.RuleUnusedImport) {
		t.Errorf("diagnostics = %+v, want UnusedImport", res.Diagnostics)
	}
}

// A duplicate struct declaration is reported with a secondary label
// pointing back at the first declaration.
func TestDuplicateStruct(t *testing.T) {
	doc := &ast.Document{
		URI: "t.wdl",
		Structs: []*ast.StructDecl{
			{Name: "Pair2", NameSpan: sp(0, 5), Members: []ast.StructMember{
				{Name: "a", Type: intType(), Sp: sp(6, 7)},
			}},
			{Name: "Pair2", NameSpan: sp(20, 25), Members: []ast.StructMember{
				{Name: "b", Type: strType(), Sp: sp(26, 27)},
			}},
		},
	}
	res := Analyze(doc, types.V1_2, nil)
	if !hasRule(res.Diagnostics, diag.RuleDuplicateStruct) {
		t.Errorf("diagnostics = %+v, want DuplicateStruct", res.Diagnostics)
	}
	for _, d := range res.Diagnostics {
		if d.RuleID == diag.RuleDuplicateStruct && len(d.Secondary) == 0 {
			t.Errorf("DuplicateStruct diagnostic missing secondary label: %+v", d)
		}
	}
}

// A forward struct reference (B refers to A, declared after it) resolves
// without reporting a spurious UnknownName.
func TestForwardStructReference(t *testing.T) {
	doc := &ast.Document{
		URI: "t.wdl",
		Structs: []*ast.StructDecl{
			{Name: "B", NameSpan: sp(0, 1), Members: []ast.StructMember{
				{Name: "a", Type: &ast.TypeExpr{Name: "A"}, Sp: sp(2, 3)},
			}},
			{Name: "A", NameSpan: sp(10, 11), Members: []ast.StructMember{
				{Name: "x", Type: intType(), Sp: sp(12, 13)},
			}},
		},
	}
	res := Analyze(doc, types.V1_2, nil)
	if hasRule(res.Diagnostics, diag.RuleUnknownName) {
		t.Errorf("diagnostics = %+v, want no UnknownName for a forward struct reference", res.Diagnostics)
	}
	bType, ok := res.StructTypes["B"]
	if !ok {
		t.Fatal("struct B was not resolved")
	}
	if bType.Kind() != types.StructRef {
		t.Errorf("B kind = %v, want StructRef", bType.Kind())
	}
}

// A conditional body's call output is visible, optional-wrapped, in the
// workflow's outputs.
func TestConditionalCallOutputVisibleInOutputs(t *testing.T) {
	doc := &ast.Document{
		URI: "t.wdl",
		Tasks: []*ast.Task{
			{
				Name:     "double",
				NameSpan: sp(0, 6),
				Outputs: []*ast.Decl{
					{Name: "doubled", NameSpan: sp(7, 14), Type: intType(), Expr: &ast.IntLit{Value: 2}},
				},
			},
		},
		Workflow: &ast.Workflow{
			Name: "wf",
			Body: []ast.WorkflowStmt{
				&ast.Conditional{
					Expr: &ast.BoolLit{Value: true},
					Body: []ast.WorkflowStmt{
						&ast.Call{Target: []string{"double"}, TargetSpan: sp(20, 26)},
					},
				},
			},
			Outputs: []*ast.Decl{
				{
					Name:     "result",
					NameSpan: sp(40, 46),
					Type:     &ast.TypeExpr{Name: "Int", Optional: true},
					Expr: &ast.MemberAccess{
						X:    &ast.Ident{Name: "double"},
						Name: "doubled",
					},
				},
			},
		},
	}
	res := Analyze(doc, types.V1_2, nil)
	if hasRule(res.Diagnostics, diag.RuleUnknownName) {
		t.Errorf("diagnostics = %+v, want no UnknownName", res.Diagnostics)
	}
	if hasRule(res.Diagnostics, diag.RuleTypeMismatch) {
		t.Errorf("diagnostics = %+v, want no TypeMismatch", res.Diagnostics)
	}
}
