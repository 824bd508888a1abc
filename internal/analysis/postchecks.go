package analysis

import (
	"fmt"

	"github.com/gowdl/wdlsem/internal/ast"
	"github.com/gowdl/wdlsem/internal/diag"
	"github.com/gowdl/wdlsem/internal/scope"
	"github.com/gowdl/wdlsem/internal/span"
)

// runPostChecks is the fifth and final pass (§4.6 step 5): it consumes the
// bindings and scope tree the body pass left behind and reports the
// diagnostics that need a whole-document view rather than a single
// traversal point — required-input coverage and unused-symbol warnings.
func (a *analyzer) runPostChecks() {
	a.checkMissingRequiredInputs()
	a.checkUnusedImports()
	a.checkUnusedSymbols(a.docScope)
}

// checkMissingRequiredInputs reports MissingRequiredInput for every call
// binding recorded by analyzeCall that leaves a required callee input
// unbound, matching the S5 scenario in spec.md §8.
func (a *analyzer) checkMissingRequiredInputs() {
	for _, cb := range a.callBindings {
		for _, p := range cb.callee.Inputs {
			if !p.Required || cb.bound[p.Name] {
				continue
			}
			a.sink.Errorf(diag.RuleMissingRequiredInput, cb.call.TargetSpan,
				fmt.Sprintf("call to %q is missing required input %q", cb.callee.Name, p.Name))
		}
	}
}

// checkUnusedImports reports UnusedImport for any import namespace that no
// call in the document ever referenced and that resolved none of its
// `alias X as Y` struct aliases.
func (a *analyzer) checkUnusedImports() {
	for _, ns := range a.doc.Imports {
		key, ok := deriveNamespace(ns.URI, ns.Alias)
		if !ok {
			continue
		}
		entry, ok := a.imports[key]
		if !ok || entry.Used {
			continue
		}
		a.sink.Warnf(diag.RuleUnusedImport, entry.Span,
			fmt.Sprintf("import %q is never used", entry.Namespace))
	}
}

// checkUnusedSymbols walks the scope tree reporting the per-kind unused
// warning for every declaration, input, or call that nothing referenced.
// Scatter variables are exempt: a scatter body that only uses the
// collection to drive iteration (e.g. a side-effecting call per element)
// never reads the loop variable itself, and warning on that is noise
// rather than signal.
func (a *analyzer) checkUnusedSymbols(s *scope.Scope) {
	if s == nil {
		return
	}
	for name, sym := range s.Members().Iter() {
		if sym.Used {
			continue
		}
		switch sym.Kind {
		case scope.KindInput:
			a.sink.Warnf(diag.RuleUnusedInput, sym.Span, fmt.Sprintf("input %q is never used", name))
		case scope.KindDecl:
			a.sink.Warnf(diag.RuleUnusedDeclaration, sym.Span, fmt.Sprintf("declaration %q is never used", name))
		case scope.KindCall:
			a.sink.Warnf(diag.RuleUnusedCall, sym.Span, fmt.Sprintf("call %q's outputs are never used", name))
		}
	}
	for _, child := range s.Children {
		a.checkUnusedSymbols(child)
	}
}

// reportScatterVarLeak reports OutputReferencesScatterVar for every
// identifier in expr that names a scatter variable declared somewhere in
// this workflow but not visible from outputScope; a scatter's loop
// variable never survives past its own body, and a call's array-wrapped
// output does (via the wraps mechanism in analyzeCall), so only the raw
// variable itself is in question here. It reports true if expr should be
// skipped by the normal type-checking pass, since those names will not
// resolve there either.
func (a *analyzer) reportScatterVarLeak(expr ast.Expr, outputScope *scope.Scope) bool {
	if expr == nil || len(a.scatterVars) == 0 {
		return false
	}
	refs := map[string][]span.Span{}
	collectIdentNames(expr, refs)
	leaked := false
	for name, spans := range refs {
		if _, isScatterVar := a.scatterVars[name]; !isScatterVar {
			continue
		}
		if _, ok := outputScope.Lookup(name); ok {
			continue
		}
		leaked = true
		for _, sp := range spans {
			a.sink.Errorf(diag.RuleOutputReferencesScatterVar, sp,
				fmt.Sprintf("output cannot reference scatter variable %q outside its scatter body", name))
		}
	}
	return leaked
}

// collectIdentNames collects every Ident name reachable from expr, used by
// analyzeWorkflow to catch an output section that reaches into a scatter
// variable that went out of scope when its body ended (§7's
// OutputReferencesScatterVar).
func collectIdentNames(e ast.Expr, out map[string][]span.Span) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.Ident:
		out[n.Name] = append(out[n.Name], n.Span())
	case *ast.MemberAccess:
		collectIdentNames(n.X, out)
	case *ast.IndexExpr:
		collectIdentNames(n.X, out)
		collectIdentNames(n.Index, out)
	case *ast.UnaryExpr:
		collectIdentNames(n.X, out)
	case *ast.BinaryExpr:
		collectIdentNames(n.Left, out)
		collectIdentNames(n.Right, out)
	case *ast.IfExpr:
		collectIdentNames(n.Cond, out)
		collectIdentNames(n.Then, out)
		collectIdentNames(n.Else, out)
	case *ast.CallExpr:
		for _, arg := range n.Args {
			collectIdentNames(arg, out)
		}
	case *ast.ParenExpr:
		collectIdentNames(n.X, out)
	case *ast.ArrayLit:
		for _, elem := range n.Elems {
			collectIdentNames(elem, out)
		}
	case *ast.MapLit:
		for i := range n.Keys {
			collectIdentNames(n.Keys[i], out)
			collectIdentNames(n.Values[i], out)
		}
	case *ast.PairLit:
		collectIdentNames(n.Left, out)
		collectIdentNames(n.Right, out)
	case *ast.ObjectLit:
		for _, v := range n.Values {
			collectIdentNames(v, out)
		}
	case *ast.StructLit:
		for _, v := range n.Values {
			collectIdentNames(v, out)
		}
	case *ast.StringLit:
		for _, part := range n.Parts {
			if part.Placeholder != nil {
				collectIdentNames(part.Placeholder.Expr, out)
			}
		}
	}
}
