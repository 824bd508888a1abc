package analysis

import (
	"fmt"

	"github.com/gowdl/wdlsem/internal/ast"
	"github.com/gowdl/wdlsem/internal/diag"
	"github.com/gowdl/wdlsem/internal/eval"
	"github.com/gowdl/wdlsem/internal/scope"
	"github.com/gowdl/wdlsem/internal/span"
	"github.com/gowdl/wdlsem/internal/types"
)

// CalleeSignature unifies TaskSignature and WorkflowSignature for call-site
// resolution, since a call may target either a local task, a local
// workflow reference is not legal in WDL (workflows never call siblings by
// name inside the same document) but an imported workflow is, so the call
// resolver treats both uniformly once resolved.
type CalleeSignature struct {
	Name    string
	Inputs  []ParamInfo
	Outputs []types.Member
}

type callBinding struct {
	call   *ast.Call
	callee *CalleeSignature
	bound  map[string]bool
}

func (a *analyzer) runBodyPass() {
	for _, t := range a.doc.Tasks {
		a.analyzeTask(t)
	}
	if a.doc.Workflow != nil {
		a.analyzeWorkflow(a.doc.Workflow)
	}
}

func (a *analyzer) analyzeTask(t *ast.Task) {
	taskScope := scope.New(scope.KindTask, a.docScope)
	e := eval.New(taskScope, a.sink, a.version)
	e.Types = a.exprTypes

	for _, d := range t.Inputs {
		a.declareTyped(taskScope, e, d, scope.KindInput)
	}
	for _, d := range t.Decls {
		a.declareTyped(taskScope, e, d, scope.KindDecl)
	}

	if a.version.AtLeast(types.V1_2) {
		e.TaskHandleType = types.NewTaskHandle()
	}

	if t.Command != nil {
		e.Eval(&ast.StringLit{Parts: t.Command.Parts})
	}

	for _, d := range t.Outputs {
		a.declareTyped(taskScope, e, d, scope.KindOutput)
	}

	for _, kv := range t.Runtime {
		e.Eval(kv.Value)
	}
	for _, kv := range t.Requirements {
		e.Eval(kv.Value)
	}
	if t.Hints != nil {
		a.evalLiteralRecord(t.Hints, e, map[ast.LiteralRecordKind]bool{})
	}
	if t.Meta != nil {
		a.evalLiteralRecord(t.Meta, e, map[ast.LiteralRecordKind]bool{})
	}
	if t.ParamMeta != nil {
		a.evalLiteralRecord(t.ParamMeta, e, map[ast.LiteralRecordKind]bool{})
	}
}

// declareTyped evaluates d's initializer (if any) against its declared
// type and declares the resulting symbol, used for both task/workflow
// inputs and private declarations and outputs. kind picks the Symbol kind
// so post-checks can tell the difference for unused-symbol warnings.
func (a *analyzer) declareTyped(s *scope.Scope, e *eval.Evaluator, d *ast.Decl, kind scope.Kind) {
	declared := a.resolveTypeExpr(d.Type)
	if d.Expr != nil {
		got := e.Eval(d.Expr)
		if types.CoerceInVersion(got, declared, a.version) == types.NoCoercion && !got.IsUnion() {
			a.sink.Errorf(diag.RuleTypeMismatch, d.Expr.Span(),
				fmt.Sprintf("cannot assign %s to %s %q", types.Display(got), types.Display(declared), d.Name))
		}
	}
	s.Declare(&scope.Symbol{Name: d.Name, Type: declared, Kind: kind, Span: d.NameSpan})
}

func (a *analyzer) analyzeWorkflow(wf *ast.Workflow) {
	wfScope := scope.New(scope.KindWorkflow, a.docScope)
	e := eval.New(wfScope, a.sink, a.version)
	e.Types = a.exprTypes
	callNS := scope.NewCallNamespace()

	for _, d := range wf.Inputs {
		a.declareTyped(wfScope, e, d, scope.KindInput)
	}

	a.walkWorkflowBody(wf.Body, wfScope, wfScope, callNS, nil, true)

	for _, d := range wf.Outputs {
		if a.reportScatterVarLeak(d.Expr, wfScope) {
			declared := a.resolveTypeExpr(d.Type)
			wfScope.Declare(&scope.Symbol{Name: d.Name, Type: declared, Kind: scope.KindOutput, Span: d.NameSpan})
		} else {
			a.declareTyped(wfScope, e, d, scope.KindOutput)
		}
		a.registerCallNS(callNS, d.Name, d.NameSpan, scope.KindDecl)
	}
	if wf.Meta != nil {
		a.evalLiteralRecord(wf.Meta, e, map[ast.LiteralRecordKind]bool{})
	}
	if wf.ParamMeta != nil {
		a.evalLiteralRecord(wf.ParamMeta, e, map[ast.LiteralRecordKind]bool{})
	}
}

type wrapKind uint8

const (
	wrapArray wrapKind = iota
	wrapOptional
)

// walkWorkflowBody visits one level of workflow statements. bodyScope is
// where locally-declared names (decls, the scatter variable, calls) live
// for lookups within this and nested blocks; wfScope is the workflow's
// top-level scope, where a call's array/optional-wrapped output record is
// additionally exposed once its enclosing scatter/conditional block ends,
// matching spec.md §4.6's scatter/conditional section rules. wraps lists
// the nesting wrappers from outermost to innermost; topLevel is true only
// for the workflow's direct body (not a nested scatter/conditional),
// controlling whether plain declarations also enter the flat call
// namespace per spec.md §3.2.
func (a *analyzer) walkWorkflowBody(stmts []ast.WorkflowStmt, bodyScope, wfScope *scope.Scope, callNS *scope.CallNamespace, wraps []wrapKind, topLevel bool) {
	e := eval.New(bodyScope, a.sink, a.version)
	e.Types = a.exprTypes
	for _, stmt := range stmts {
		switch n := stmt.(type) {
		case *ast.Decl:
			a.declareTyped(bodyScope, e, n, scope.KindDecl)
			if topLevel {
				a.registerCallNS(callNS, n.Name, n.NameSpan, scope.KindDecl)
			}
		case *ast.Call:
			a.analyzeCall(n, bodyScope, wfScope, e, callNS, wraps)
		case *ast.Scatter:
			a.analyzeScatter(n, bodyScope, wfScope, callNS, wraps)
		case *ast.Conditional:
			a.analyzeConditional(n, bodyScope, wfScope, callNS, wraps)
		}
	}
}

// registerCallNS registers name in the flat call namespace, reporting
// ConflictingCallName with a "first defined here" secondary label on
// collision; see spec.md §3.2 and the scope.CallNamespace doc comment.
func (a *analyzer) registerCallNS(callNS *scope.CallNamespace, name string, sp span.Span, kind scope.Kind) {
	if first, ok := callNS.Register(name, sp, kind); !ok {
		a.sink.Report(diag.Diagnostic{
			Severity: diag.Error,
			RuleID:   diag.RuleConflictingCallName,
			Primary:  diag.Label{Span: sp, Message: "\"" + name + "\" conflicts with an earlier call, scatter variable, or declaration"},
			Secondary: []diag.Label{
				{Span: first, Message: "first defined here"},
			},
		})
	}
}

func (a *analyzer) analyzeScatter(n *ast.Scatter, bodyScope, wfScope *scope.Scope, callNS *scope.CallNamespace, wraps []wrapKind) {
	e := eval.New(bodyScope, a.sink, a.version)
	e.Types = a.exprTypes
	arrType := e.Eval(n.Expr)
	elemType := types.TUnion
	if arrType.NonOptional().Kind() != types.Array && !arrType.IsUnion() {
		a.sink.Errorf(diag.RuleScatterNotArray, n.Expr.Span(),
			fmt.Sprintf("scatter expression must be an Array, got %s", types.Display(arrType)))
	} else if arrType.NonOptional().Kind() == types.Array {
		elemType = arrType.NonOptional().Elem()
	}

	child := scope.New(scope.KindScatter, bodyScope)
	child.Declare(&scope.Symbol{Name: n.Var, Type: elemType, Kind: scope.KindScatterVar, Span: n.VarSpan})
	a.registerCallNS(callNS, n.Var, n.VarSpan, scope.KindScatterVar)
	a.scatterVars[n.Var] = n.VarSpan

	a.walkWorkflowBody(n.Body, child, wfScope, callNS, append(append([]wrapKind{}, wraps...), wrapArray), false)
}

func (a *analyzer) analyzeConditional(n *ast.Conditional, bodyScope, wfScope *scope.Scope, callNS *scope.CallNamespace, wraps []wrapKind) {
	e := eval.New(bodyScope, a.sink, a.version)
	e.Types = a.exprTypes
	condType := e.Eval(n.Expr)
	if types.CoerceInVersion(condType, types.TBoolean, a.version) == types.NoCoercion && !condType.IsUnion() {
		a.sink.Errorf(diag.RuleConditionNotBoolean, n.Expr.Span(),
			fmt.Sprintf("condition must be Boolean, got %s", types.Display(condType)))
	}

	child := scope.New(scope.KindConditional, bodyScope)
	a.walkWorkflowBody(n.Body, child, wfScope, callNS, append(append([]wrapKind{}, wraps...), wrapOptional), false)
}

func applyWraps(t *types.Type, wraps []wrapKind) *types.Type {
	for i := len(wraps) - 1; i >= 0; i-- {
		switch wraps[i] {
		case wrapArray:
			t = types.NewArray(t, false)
		case wrapOptional:
			t = t.Optional()
		}
	}
	return t
}

func wrapMembers(members []types.Member, wraps []wrapKind) []types.Member {
	out := make([]types.Member, len(members))
	for i, m := range members {
		out[i] = types.Member{Name: m.Name, Type: applyWraps(m.Type, wraps)}
	}
	return out
}

func (a *analyzer) analyzeCall(n *ast.Call, bodyScope, wfScope *scope.Scope, e *eval.Evaluator, callNS *scope.CallNamespace, wraps []wrapKind) {
	name := n.CalleeName()
	a.registerCallNS(callNS, name, n.TargetSpan, scope.KindCall)

	callee, ok := a.resolveCallee(n.Target)
	if !ok {
		a.sink.Errorf(diag.RuleUnknownName, n.TargetSpan, fmt.Sprintf("unknown callable %q", joinDots(n.Target)))
		bodyScope.Declare(&scope.Symbol{Name: name, Type: types.TUnion, Kind: scope.KindCall, Span: n.TargetSpan})
		return
	}

	bound := map[string]bool{}
	byName := map[string]ParamInfo{}
	for _, p := range callee.Inputs {
		byName[p.Name] = p
	}
	for _, kv := range n.Inputs {
		got := e.Eval(kv.Value)
		p, exists := byName[kv.Key]
		if !exists {
			a.sink.Errorf(diag.RuleUnknownName, kv.KeySpan, fmt.Sprintf("%q has no input named %q", name, kv.Key))
			continue
		}
		bound[kv.Key] = true
		if types.CoerceInVersion(got, p.Type, a.version) == types.NoCoercion && !got.IsUnion() {
			a.sink.Errorf(diag.RuleTypeMismatch, kv.Value.Span(),
				fmt.Sprintf("input %q expects %s, got %s", kv.Key, types.Display(p.Type), types.Display(got)))
		}
	}
	a.callBindings = append(a.callBindings, callBinding{call: n, callee: callee, bound: bound})

	raw := types.NewCallOutput(callee.Name, callee.Outputs)
	bodyScope.Declare(&scope.Symbol{Name: name, Type: raw, Kind: scope.KindCall, Span: n.TargetSpan})

	if len(wraps) > 0 {
		wrapped := types.NewCallOutput(callee.Name, wrapMembers(callee.Outputs, wraps))
		wfScope.Declare(&scope.Symbol{Name: name, Type: wrapped, Kind: scope.KindCall, Span: n.TargetSpan})
	}
}

func joinDots(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}

// resolveCallee looks up a call's target: a single-segment path is a local
// task; a two-segment path is namespace.name against an import.
func (a *analyzer) resolveCallee(target []string) (*CalleeSignature, bool) {
	switch len(target) {
	case 1:
		if t, ok := a.tasks[target[0]]; ok {
			return &CalleeSignature{Name: t.Name, Inputs: t.Inputs, Outputs: t.Outputs}, true
		}
		return nil, false
	case 2:
		imp, ok := a.imports[target[0]]
		if !ok || imp.Doc == nil || imp.Doc.Failed {
			return nil, false
		}
		imp.Used = true
		if t, ok := imp.Doc.Tasks[target[1]]; ok {
			return &CalleeSignature{Name: t.Name, Inputs: t.Inputs, Outputs: t.Outputs}, true
		}
		if imp.Doc.Workflow != nil && imp.Doc.Workflow.Name == target[1] {
			wf := imp.Doc.Workflow
			return &CalleeSignature{Name: wf.Name, Inputs: wf.Inputs, Outputs: wf.Outputs}, true
		}
		return nil, false
	default:
		return nil, false
	}
}
