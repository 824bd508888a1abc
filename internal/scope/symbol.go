// Package scope implements the nested lexical scope tree used to resolve
// names within a document: one Scope per document, task, workflow,
// scatter body, and conditional body, following the parent-chain lookup
// pattern of the teacher repository's base/scope but specialized to WDL's Symbol shape and
// its call-namespace and shadowing rules (§4.4).
package scope

import (
	"github.com/gowdl/wdlsem/internal/span"
	"github.com/gowdl/wdlsem/internal/types"
)

// Kind tags what introduced a Symbol.
type Kind uint8

const (
	KindDecl Kind = iota
	KindInput
	KindOutput
	KindCall
	KindScatterVar
	KindStructMember
	KindImportNamespace
)

func (k Kind) String() string {
	switch k {
	case KindDecl:
		return "declaration"
	case KindInput:
		return "input"
	case KindOutput:
		return "output"
	case KindCall:
		return "call"
	case KindScatterVar:
		return "scatter variable"
	case KindStructMember:
		return "struct member"
	case KindImportNamespace:
		return "import"
	default:
		return "symbol"
	}
}

// Symbol is one named entity visible in a scope.
type Symbol struct {
	Name string
	Type *types.Type
	Kind Kind
	Span span.Span

	// Used is set by the evaluator when an expression in the body pass
	// references this symbol; the post-check pass (§4.6 step 5) reads it
	// to drive unused-symbol warnings.
	Used bool
}
