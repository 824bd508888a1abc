package analyzer

import (
	"github.com/gowdl/wdlsem/internal/analysis"
	"github.com/gowdl/wdlsem/internal/diag"
	"github.com/gowdl/wdlsem/internal/scope"
	"github.com/gowdl/wdlsem/internal/types"
)

// DocumentView is a read-only snapshot of one document's most recent
// analysis, returned by Analyzer.Document.
type DocumentView struct {
	result     *analysis.Result
	diagConfig map[string]diag.Severity
}

// URI returns the document's own URI.
func (v *DocumentView) URI() string { return v.result.URI }

// Version returns the version this document was analyzed under, resolved
// from its own `version` header (or the Analyzer's development fallback).
func (v *DocumentView) Version() types.Version { return v.result.Version }

// Scope returns the document's top-level symbol table.
func (v *DocumentView) Scope() *scope.Scope { return v.result.DocScope }

// Tasks returns every task declared in this document, by name.
func (v *DocumentView) Tasks() map[string]*analysis.TaskSignature { return v.result.Tasks }

// Workflow returns this document's workflow signature, or nil if it
// declares none.
func (v *DocumentView) Workflow() *analysis.WorkflowSignature { return v.result.Workflow }

// StructTypes returns every struct type declared or aliased into this
// document, by name.
func (v *DocumentView) StructTypes() map[string]*types.Type { return v.result.StructTypes }

// Diagnostics returns this document's diagnostics with the Analyzer's
// DiagnosticConfig applied: a rule mapped to diag.Off is dropped, any
// other mapped severity replaces the analysis pass's own one. The
// underlying list is already sorted by span; remapping preserves order.
func (v *DocumentView) Diagnostics() []diag.Diagnostic {
	if len(v.diagConfig) == 0 {
		return v.result.Diagnostics
	}
	out := make([]diag.Diagnostic, 0, len(v.result.Diagnostics))
	for _, d := range v.result.Diagnostics {
		if sev, ok := v.diagConfig[d.RuleID]; ok {
			if sev == diag.Off {
				continue
			}
			d.Severity = sev
		}
		out = append(out, d)
	}
	return out
}

// TypeAt returns the type inferred for the innermost expression whose
// span contains offset, the narrowest-span match among every expression
// the body pass evaluated. It reports ok=false if offset falls outside
// every recorded expression (e.g. inside whitespace, a comment, or a
// declaration's type annotation rather than its initializer).
func (v *DocumentView) TypeAt(offset int) (*types.Type, bool) {
	var best *types.Type
	bestLen := -1
	for sp, t := range v.result.ExprTypes {
		if offset < sp.Start || offset > sp.End {
			continue
		}
		length := sp.End - sp.Start
		if bestLen == -1 || length < bestLen {
			best, bestLen = t, length
		}
	}
	return best, bestLen != -1
}
