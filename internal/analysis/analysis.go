// Package analysis implements the per-document Document Analyzer (§4.6):
// five ordered passes (imports, structs, signatures, body, post-checks)
// over one parsed ast.Document, producing a Result (scope tables plus a
// sorted diagnostic list) via the internal/eval, internal/scope, and
// internal/stdlib packages. A Result never depends on another document's
// internal state directly; cross-document references go through the
// narrow ImportedDoc surface the Graph & Scheduler layer supplies.
package analysis

import (
	"github.com/gowdl/wdlsem/internal/ast"
	"github.com/gowdl/wdlsem/internal/diag"
	"github.com/gowdl/wdlsem/internal/scope"
	"github.com/gowdl/wdlsem/internal/span"
	"github.com/gowdl/wdlsem/internal/types"
)

// ParamInfo is one task or workflow input/output parameter, flattened out
// of its ast.Decl for signature-pass consumption.
type ParamInfo struct {
	Name     string
	Type     *types.Type
	Span     span.Span
	Required bool // non-optional and has no default expression
}

// TaskSignature is a task's input/output shape, computed in the signature
// pass before any body is visited.
type TaskSignature struct {
	Name     string
	NameSpan span.Span
	Inputs   []ParamInfo
	Outputs  []types.Member
}

// WorkflowSignature mirrors TaskSignature for a document's workflow.
type WorkflowSignature struct {
	Name     string
	NameSpan span.Span
	Inputs   []ParamInfo
	Outputs  []types.Member
}

// Result is one document's complete analysis: its resolved tables plus a
// finalized (sorted) diagnostic list.
type Result struct {
	URI         string
	Version     types.Version
	Diagnostics []diag.Diagnostic
	StructTypes map[string]*types.Type
	Tasks       map[string]*TaskSignature
	Workflow    *WorkflowSignature
	DocScope    *scope.Scope

	// ExprTypes maps every expression evaluated during the body pass to
	// its resolved type, keyed by the expression's own span. It backs the
	// "type inferred at a given source offset" accessor a DocumentView
	// exposes over the public API.
	ExprTypes map[span.Span]*types.Type
}

// analyzer holds the mutable state threaded through all five passes. It is
// not exported: callers only ever see the immutable Result.
type analyzer struct {
	doc     *ast.Document
	version types.Version
	sink    *diag.Sink

	imports map[string]*importEntry

	structDeclsByName map[string]*ast.StructDecl
	structEntries      map[string]structEntry
	structTypes        map[string]*types.Type
	buildingStructs     map[string]bool

	tasks    map[string]*TaskSignature
	workflow *WorkflowSignature

	docScope     *scope.Scope
	callBindings []callBinding
	scatterVars  map[string]span.Span
	exprTypes    map[span.Span]*types.Type
}

// Analyze runs the five-pass pipeline over doc and returns its Result.
// resolve answers import URIs with already-analyzed sibling documents; a
// nil resolve treats every import as unresolved (useful for testing a
// single document in isolation).
func Analyze(doc *ast.Document, version types.Version, resolve ImportResolver) *Result {
	a := &analyzer{
		doc:                doc,
		version:            version,
		sink:               diag.NewSink(),
		imports:            map[string]*importEntry{},
		structDeclsByName:  map[string]*ast.StructDecl{},
		structEntries:      map[string]structEntry{},
		structTypes:        map[string]*types.Type{},
		buildingStructs:     map[string]bool{},
		tasks:              map[string]*TaskSignature{},
		docScope:           scope.New(scope.KindDocument, nil),
		scatterVars:        map[string]span.Span{},
		exprTypes:          map[span.Span]*types.Type{},
	}
	for _, sd := range doc.Structs {
		a.structDeclsByName[sd.Name] = sd
	}

	a.runImportPass(resolve)
	a.runStructPass()
	a.runSignaturePass()
	a.runBodyPass()
	a.runPostChecks()

	return &Result{
		URI:         doc.URI,
		Version:     version,
		Diagnostics: a.sink.Finalize(),
		StructTypes: a.structTypes,
		Tasks:       a.tasks,
		Workflow:    a.workflow,
		DocScope:    a.docScope,
		ExprTypes:   a.exprTypes,
	}
}
