package eval

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/gowdl/wdlsem/internal/ast"
	"github.com/gowdl/wdlsem/internal/diag"
	"github.com/gowdl/wdlsem/internal/stdlib"
	"github.com/gowdl/wdlsem/internal/types"
)

// regexPatternArg names, for every stdlib function whose pattern is a
// regular expression evaluated against .NET-flavored regex semantics
// (the upstream WDL language spec's own grounding for these functions,
// not Go's RE2 dialect), which argument position holds that pattern.
var regexPatternArg = map[string]int{
	"matches": 1,
	"find":    1,
	"sub":     1,
}

func (e *Evaluator) evalCall(n *ast.CallExpr) *types.Type {
	argTypes := make([]*types.Type, len(n.Args))
	for i, a := range n.Args {
		argTypes[i] = e.Eval(a)
	}

	res := stdlib.Resolve(n.Func, argTypes, e.Version)
	switch res.Status {
	case stdlib.UnknownFunction:
		e.Sink.Errorf(diag.RuleUnknownFunction, n.FuncSpan, fmt.Sprintf("unknown function %q", n.Func))
		return types.TUnion
	case stdlib.NoMatch:
		e.Sink.Errorf(diag.RuleNoMatchingOverload, n.Span(), fmt.Sprintf("no overload of %q accepts (%s)", n.Func, joinTypes(argTypes)))
		return types.TUnion
	case stdlib.Ambiguous:
		e.Sink.Errorf(diag.RuleAmbiguousCall, n.Span(), fmt.Sprintf("call to %q is ambiguous for argument types (%s)", n.Func, joinTypes(argTypes)))
		return types.TUnion
	}

	e.warnNonOptionalSelect(n, argTypes)
	e.checkRegexLiteral(n)
	return res.Return
}

// checkRegexLiteral validates a regex-function's pattern argument with
// dlclark/regexp2 when it is a plain string literal (no interpolation),
// reporting RuleInvalidRegex on a compile error. An interpolated or
// otherwise dynamic pattern can't be checked until runtime and is left
// alone.
func (e *Evaluator) checkRegexLiteral(n *ast.CallExpr) {
	argIdx, ok := regexPatternArg[n.Func]
	if !ok || argIdx >= len(n.Args) {
		return
	}
	lit, ok := n.Args[argIdx].(*ast.StringLit)
	if !ok || len(lit.Parts) != 1 || lit.Parts[0].Placeholder != nil {
		return
	}
	pattern := lit.Parts[0].Text
	if _, err := regexp2.Compile(pattern, regexp2.None); err != nil {
		e.Sink.Errorf(diag.RuleInvalidRegex, lit.Span(), fmt.Sprintf("invalid regular expression %q: %s", pattern, err))
	}
}

// warnNonOptionalSelect implements the §4.5 rule that select_first,
// select_all, and defined accept optional or non-optional arguments (the
// analyzer no longer requires optional), but emit a warning when every
// argument is already non-optional, since the call is then a no-op.
// argTypes is reused from evalCall's own evaluation so the argument
// sub-expressions are never walked (and never re-diagnosed) twice.
func (e *Evaluator) warnNonOptionalSelect(n *ast.CallExpr, argTypes []*types.Type) {
	switch n.Func {
	case "select_first", "select_all":
		if len(argTypes) != 1 {
			return
		}
		arrType := argTypes[0]
		if arrType == nil || arrType.NonOptional().Kind() != types.Array {
			return
		}
		if !arrType.NonOptional().Elem().IsOptional() {
			e.Sink.Warnf(diag.RuleNonOptionalSelect, n.Span(), fmt.Sprintf("%s called with an array of non-optional elements", n.Func))
		}
	case "defined":
		if len(argTypes) != 1 {
			return
		}
		if t := argTypes[0]; t != nil && !t.IsOptional() && !t.IsNone() {
			e.Sink.Warnf(diag.RuleNonOptionalSelect, n.Span(), "defined() called on a non-optional value")
		}
	}
}

func joinTypes(ts []*types.Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = types.Display(t)
	}
	return strings.Join(parts, ", ")
}
