// Package eval implements the expression type evaluator (§4.5): it walks
// an ast.Expr tree post-order and assigns every node a *types.Type,
// applying stdlib overload resolution and reporting coercion errors
// through a diag.Sink without ever aborting the walk. On any failure the
// evaluator substitutes types.TUnion and continues, so one malformed
// sub-expression never cascades into unrelated diagnostics.
package eval

import (
	"fmt"

	"github.com/gowdl/wdlsem/internal/ast"
	"github.com/gowdl/wdlsem/internal/diag"
	"github.com/gowdl/wdlsem/internal/scope"
	"github.com/gowdl/wdlsem/internal/span"
	"github.com/gowdl/wdlsem/internal/types"
)

// Evaluator walks expressions within one lexical scope.
type Evaluator struct {
	Scope   *scope.Scope
	Sink    *diag.Sink
	Version types.Version

	// AllowNarrow permits T? -> T coercion (with a compatibility warning)
	// wherever the language historically allowed it; §4.1.
	AllowNarrow bool

	// TaskHandleType is non-nil inside a 1.2 task's command/output section,
	// where the `task` identifier resolves to the task-handle type.
	TaskHandleType *types.Type

	// Types records every expression's resolved type keyed by its span, if
	// non-nil. The body pass shares one map across a document's whole walk
	// so a DocumentView can answer "what type was inferred at offset N"
	// without re-running evaluation.
	Types map[span.Span]*types.Type
}

// New returns an Evaluator rooted at s.
func New(s *scope.Scope, sink *diag.Sink, version types.Version) *Evaluator {
	return &Evaluator{Scope: s, Sink: sink, Version: version}
}

// Eval assigns a type to expr, recursing into sub-expressions, and records
// the result in Types before returning it.
func (e *Evaluator) Eval(expr ast.Expr) *types.Type {
	t := e.evalDispatch(expr)
	if e.Types != nil {
		e.Types[expr.Span()] = t
	}
	return t
}

func (e *Evaluator) evalDispatch(expr ast.Expr) *types.Type {
	switch n := expr.(type) {
	case *ast.BoolLit:
		return types.TBoolean
	case *ast.IntLit:
		return types.TInt
	case *ast.FloatLit:
		return types.TFloat
	case *ast.NoneLit:
		return types.TNone
	case *ast.StringLit:
		return e.evalStringLit(n)
	case *ast.ArrayLit:
		return e.evalArrayLit(n)
	case *ast.MapLit:
		return e.evalMapLit(n)
	case *ast.PairLit:
		return types.NewPair(e.Eval(n.Left), e.Eval(n.Right))
	case *ast.ObjectLit:
		for _, v := range n.Values {
			e.Eval(v)
		}
		if e.Version.AtLeast(types.V1_2) {
			e.Sink.Warnf(diag.RuleDeprecatedObject, n.Span(), "object literals are deprecated in WDL 1.2+; use a struct")
		}
		return types.TObject
	case *ast.StructLit:
		return e.evalStructLit(n)
	case *ast.Ident:
		return e.evalIdent(n)
	case *ast.MemberAccess:
		return e.evalMemberAccess(n)
	case *ast.IndexExpr:
		return e.evalIndex(n)
	case *ast.UnaryExpr:
		return e.evalUnary(n)
	case *ast.BinaryExpr:
		return e.evalBinary(n)
	case *ast.IfExpr:
		return e.evalIf(n)
	case *ast.CallExpr:
		return e.evalCall(n)
	case *ast.ParenExpr:
		return e.Eval(n.X)
	default:
		return types.TUnion
	}
}

func (e *Evaluator) evalArrayLit(n *ast.ArrayLit) *types.Type {
	if len(n.Elems) == 0 {
		// Empty array literal: Array[Union]+? per §4.5, allowing later
		// widening to whatever the context expects.
		return types.NewArray(types.TUnion, true).Optional()
	}
	elem := e.Eval(n.Elems[0])
	for _, el := range n.Elems[1:] {
		elem = types.Common(elem, e.Eval(el))
	}
	if elem == nil {
		e.Sink.Errorf(diag.RuleTypeMismatch, n.Span(), "array elements have incompatible types")
		elem = types.TUnion
	}
	return types.NewArray(elem, true)
}

func (e *Evaluator) evalMapLit(n *ast.MapLit) *types.Type {
	if len(n.Keys) == 0 {
		return types.NewMap(types.TUnion, types.TUnion)
	}
	kt := e.Eval(n.Keys[0])
	vt := e.Eval(n.Values[0])
	for i := 1; i < len(n.Keys); i++ {
		kt = types.Common(kt, e.Eval(n.Keys[i]))
		vt = types.Common(vt, e.Eval(n.Values[i]))
	}
	if kt == nil || vt == nil {
		e.Sink.Errorf(diag.RuleTypeMismatch, n.Span(), "map entries have incompatible types")
		return types.NewMap(types.TUnion, types.TUnion)
	}
	return types.NewMap(kt, vt)
}

func (e *Evaluator) evalStructLit(n *ast.StructLit) *types.Type {
	for _, v := range n.Values {
		e.Eval(v)
	}
	sym, ok := e.Scope.Lookup(n.Name)
	if !ok || sym.Type.Kind() != types.StructRef {
		e.Sink.Errorf(diag.RuleUnknownName, n.NameSpan, fmt.Sprintf("unknown struct type %q", n.Name))
		return types.TUnion
	}
	return sym.Type
}

func (e *Evaluator) evalIdent(n *ast.Ident) *types.Type {
	if n.Name == "task" && e.TaskHandleType != nil {
		return e.TaskHandleType
	}
	sym, ok := e.Scope.Lookup(n.Name)
	if !ok {
		e.Sink.Errorf(diag.RuleUnknownName, n.Span(), fmt.Sprintf("unknown name %q", n.Name))
		return types.TUnion
	}
	sym.Used = true
	return sym.Type
}

func (e *Evaluator) evalMemberAccess(n *ast.MemberAccess) *types.Type {
	xt := e.Eval(n.X)
	if xt.IsUnion() {
		return types.TUnion
	}
	nxt := xt.NonOptional()
	if nxt.Kind() == types.Pair {
		switch n.Name {
		case "left":
			return nxt.Elem()
		case "right":
			return nxt.KeyOrRight()
		}
		e.Sink.Errorf(diag.RuleUnknownName, n.NameSpan, fmt.Sprintf("Pair has no member %q; expected 'left' or 'right'", n.Name))
		return types.TUnion
	}
	if nxt.Kind() == types.StructRef || nxt.Kind() == types.CallOutput || nxt.Kind() == types.Object {
		if mt, ok := nxt.Member(n.Name); ok {
			return mt
		}
		e.Sink.Errorf(diag.RuleUnknownName, n.NameSpan, fmt.Sprintf("%s has no member %q", types.Display(nxt), n.Name))
		return types.TUnion
	}
	e.Sink.Errorf(diag.RuleTypeMismatch, n.X.Span(), fmt.Sprintf("cannot access member %q on %s", n.Name, types.Display(xt)))
	return types.TUnion
}

func (e *Evaluator) evalIndex(n *ast.IndexExpr) *types.Type {
	xt := e.Eval(n.X)
	it := e.Eval(n.Index)
	if xt.IsUnion() {
		return types.TUnion
	}
	nxt := xt.NonOptional()
	switch nxt.Kind() {
	case types.Array:
		if types.CoerceInVersion(it, types.TInt, e.Version) == types.NoCoercion {
			e.Sink.Errorf(diag.RuleTypeMismatch, n.Index.Span(), fmt.Sprintf("array index must be Int, got %s", types.Display(it)))
		}
		return nxt.Elem()
	case types.Map:
		if types.CoerceInVersion(it, nxt.KeyOrRight(), e.Version) == types.NoCoercion {
			e.Sink.Errorf(diag.RuleTypeMismatch, n.Index.Span(), fmt.Sprintf("map key must be %s, got %s", types.Display(nxt.KeyOrRight()), types.Display(it)))
		}
		return nxt.Elem()
	default:
		e.Sink.Errorf(diag.RuleTypeMismatch, n.X.Span(), fmt.Sprintf("cannot index into %s", types.Display(xt)))
		return types.TUnion
	}
}

func (e *Evaluator) evalUnary(n *ast.UnaryExpr) *types.Type {
	xt := e.Eval(n.X)
	switch n.Op {
	case ast.UnaryNot:
		if types.CoerceInVersion(xt, types.TBoolean, e.Version) == types.NoCoercion {
			e.Sink.Errorf(diag.RuleTypeMismatch, n.X.Span(), fmt.Sprintf("operator '!' requires Boolean, got %s", types.Display(xt)))
			return types.TUnion
		}
		return types.TBoolean
	default: // Neg, Pos
		if xt.NonOptional().Kind() != types.Int && xt.NonOptional().Kind() != types.Float && !xt.IsUnion() {
			e.Sink.Errorf(diag.RuleTypeMismatch, n.X.Span(), fmt.Sprintf("unary operator requires Int or Float, got %s", types.Display(xt)))
			return types.TUnion
		}
		return xt
	}
}

func (e *Evaluator) evalIf(n *ast.IfExpr) *types.Type {
	ct := e.Eval(n.Cond)
	if types.CoerceInVersion(ct, types.TBoolean, e.Version) == types.NoCoercion {
		e.Sink.Errorf(diag.RuleConditionNotBoolean, n.Cond.Span(), fmt.Sprintf("condition must be Boolean, got %s", types.Display(ct)))
	}
	at := e.Eval(n.Then)
	bt := e.Eval(n.Else)
	common := types.Common(at, bt)
	if common == nil {
		e.Sink.Errorf(diag.RuleTypeMismatch, n.Span(), fmt.Sprintf("if-then-else branches have incompatible types %s and %s", types.Display(at), types.Display(bt)))
		return types.TUnion
	}
	return common
}
