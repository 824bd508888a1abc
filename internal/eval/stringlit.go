package eval

import (
	"fmt"

	"github.com/gowdl/wdlsem/internal/ast"
	"github.com/gowdl/wdlsem/internal/diag"
	"github.com/gowdl/wdlsem/internal/types"
)

func (e *Evaluator) evalStringLit(n *ast.StringLit) *types.Type {
	e.evalCommandParts(n.Parts)
	return types.TString
}

// evalCommandParts type-checks every placeholder embedded in a run of
// literal text (used by both interpolated strings and task command
// sections), applying the option preconditions from §6:
//
//   - sep=<string> expr requires expr : Array[T]
//   - true=<string> false=<string> expr requires expr : Boolean
//   - default=<expr2> expr requires expr : T? and expr2 coercible to T
//
// At most one option may appear per placeholder; the parser reports
// ConflictingPlaceholderOption when more than one appears, so this layer
// only checks the option's own type precondition.
func (e *Evaluator) evalCommandParts(parts []ast.CommandPart) {
	for _, p := range parts {
		if p.Placeholder == nil {
			continue
		}
		e.evalPlaceholder(p.Placeholder)
	}
}

func (e *Evaluator) evalPlaceholder(ph *ast.Placeholder) {
	t := e.Eval(ph.Expr)
	switch ph.Option.Kind {
	case ast.OptSep:
		if t.NonOptional().Kind() != types.Array && !t.IsUnion() {
			e.Sink.Errorf(diag.RuleTypeMismatch, ph.Expr.Span(), fmt.Sprintf("sep= placeholder requires an Array, got %s", types.Display(t)))
		}
	case ast.OptTrueFalse:
		if types.CoerceInVersion(t, types.TBoolean, e.Version) == types.NoCoercion && !t.IsUnion() {
			e.Sink.Errorf(diag.RuleTypeMismatch, ph.Expr.Span(), fmt.Sprintf("true=/false= placeholder requires Boolean, got %s", types.Display(t)))
		}
	case ast.OptDefault:
		if !t.IsOptional() && !t.IsNone() && !t.IsUnion() {
			e.Sink.Errorf(diag.RuleRequiresOptional, ph.Expr.Span(), fmt.Sprintf("default= placeholder requires an optional expression, got %s", types.Display(t)))
			return
		}
		defaultType := e.Eval(ph.Option.Default)
		if types.CoerceInVersion(defaultType, t.NonOptional(), e.Version) == types.NoCoercion && !t.IsUnion() {
			e.Sink.Errorf(diag.RuleTypeMismatch, ph.Option.Default.Span(), fmt.Sprintf("default= value %s is not coercible to %s", types.Display(defaultType), types.Display(t.NonOptional())))
		}
	default:
		// No option: the bare expression must be coercible to String
		// (directly, or via sep for arrays supplied without the option is
		// still an error per S1's s8 case: Array[Int] with no sep).
		if t.NonOptional().Kind() == types.Array || t.NonOptional().Kind() == types.Map || t.NonOptional().Kind() == types.Pair {
			e.Sink.Errorf(diag.RuleNotCoercible, ph.Expr.Span(), fmt.Sprintf("%s requires a sep= option to interpolate", types.Display(t)))
			return
		}
		if types.CoerceInVersion(t, types.TString, e.Version) == types.NoCoercion && !t.IsUnion() {
			e.Sink.Errorf(diag.RuleNotCoercible, ph.Expr.Span(), fmt.Sprintf("cannot interpolate %s as String", types.Display(t)))
		}
	}
}
