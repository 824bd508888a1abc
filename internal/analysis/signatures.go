package analysis

import (
	"github.com/gowdl/wdlsem/internal/ast"
	"github.com/gowdl/wdlsem/internal/types"
)

// runSignaturePass records every task and workflow's input/output shape
// without visiting any body expression, per spec.md §4.6 step 3: this is
// what lets a call site type-check its inputs against a callee whose body
// has not been walked yet (or, for an import, will never be walked by
// this analyzer at all).
func (a *analyzer) runSignaturePass() {
	for _, t := range a.doc.Tasks {
		a.tasks[t.Name] = &TaskSignature{
			Name:     t.Name,
			NameSpan: t.NameSpan,
			Inputs:   a.declsToParams(t.Inputs),
			Outputs:  a.declsToMembers(t.Outputs),
		}
	}
	if a.doc.Workflow != nil {
		wf := a.doc.Workflow
		a.workflow = &WorkflowSignature{
			Name:     wf.Name,
			NameSpan: wf.NameSpan,
			Inputs:   a.declsToParams(wf.Inputs),
			Outputs:  a.declsToMembers(wf.Outputs),
		}
	}
}

func (a *analyzer) declsToParams(decls []*ast.Decl) []ParamInfo {
	out := make([]ParamInfo, 0, len(decls))
	for _, d := range decls {
		t := a.resolveTypeExpr(d.Type)
		out = append(out, ParamInfo{
			Name:     d.Name,
			Type:     t,
			Span:     d.NameSpan,
			Required: !t.IsOptional() && d.Expr == nil,
		})
	}
	return out
}

func (a *analyzer) declsToMembers(decls []*ast.Decl) []types.Member {
	out := make([]types.Member, 0, len(decls))
	for _, d := range decls {
		out = append(out, types.Member{Name: d.Name, Type: a.resolveTypeExpr(d.Type)})
	}
	return out
}
