package eval

import (
	"fmt"

	"github.com/gowdl/wdlsem/internal/ast"
	"github.com/gowdl/wdlsem/internal/diag"
	"github.com/gowdl/wdlsem/internal/types"
)

func (e *Evaluator) evalBinary(n *ast.BinaryExpr) *types.Type {
	lt := e.Eval(n.Left)
	rt := e.Eval(n.Right)
	if lt.IsUnion() || rt.IsUnion() {
		return types.TUnion
	}

	switch n.Op {
	case ast.OpAnd, ast.OpOr:
		e.requireBoolean(n.Left, lt)
		e.requireBoolean(n.Right, rt)
		return types.TBoolean
	case ast.OpEq, ast.OpNeq:
		if types.Common(lt, rt) == nil {
			e.Sink.Errorf(diag.RuleTypeMismatch, n.Span(), fmt.Sprintf("cannot compare %s and %s", types.Display(lt), types.Display(rt)))
		}
		return types.TBoolean
	case ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		if !isOrderable(lt) || !isOrderable(rt) || types.Common(lt, rt) == nil {
			e.Sink.Errorf(diag.RuleTypeMismatch, n.Span(), fmt.Sprintf("operator cannot compare %s and %s", types.Display(lt), types.Display(rt)))
		}
		return types.TBoolean
	case ast.OpAdd:
		return e.evalAdd(n, lt, rt)
	case ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		return e.evalArith(n, lt, rt)
	default:
		return types.TUnion
	}
}

func (e *Evaluator) requireBoolean(node ast.Expr, t *types.Type) {
	if types.CoerceInVersion(t, types.TBoolean, e.Version) == types.NoCoercion && !t.IsUnion() {
		e.Sink.Errorf(diag.RuleTypeMismatch, node.Span(), fmt.Sprintf("expected Boolean, got %s", types.Display(t)))
	}
}

func isOrderable(t *types.Type) bool {
	nt := t.NonOptional()
	switch nt.Kind() {
	case types.Int, types.Float, types.String:
		return true
	default:
		return t.IsUnion()
	}
}

// evalAdd implements numeric promotion (Int+Float -> Float) and the
// `String + X` widening rule from §4.5: whichever side is String widens
// the other operand through its allowed coercions.
func (e *Evaluator) evalAdd(n *ast.BinaryExpr, lt, rt *types.Type) *types.Type {
	lk, rk := lt.NonOptional().Kind(), rt.NonOptional().Kind()
	if lk == types.String || rk == types.String {
		other, otherNode := rt, n.Right
		if lk != types.String {
			other, otherNode = lt, n.Left
		}
		if types.CoerceInVersion(other, types.TString, e.Version) == types.NoCoercion && other.NonOptional().Kind() != types.String {
			e.Sink.Errorf(diag.RuleNotCoercible, otherNode.Span(), fmt.Sprintf("cannot widen %s to String for '+'", types.Display(other)))
		}
		return types.TString
	}
	return e.evalArith(n, lt, rt)
}

func (e *Evaluator) evalArith(n *ast.BinaryExpr, lt, rt *types.Type) *types.Type {
	lk, rk := lt.NonOptional().Kind(), rt.NonOptional().Kind()
	numeric := func(k types.Kind) bool { return k == types.Int || k == types.Float }
	if !numeric(lk) || !numeric(rk) {
		e.Sink.Errorf(diag.RuleTypeMismatch, n.Span(), fmt.Sprintf("arithmetic requires Int or Float, got %s and %s", types.Display(lt), types.Display(rt)))
		return types.TUnion
	}
	if lk == types.Float || rk == types.Float {
		return types.TFloat
	}
	return types.TInt
}
