package analysis

import (
	"fmt"

	"github.com/gowdl/wdlsem/internal/ast"
	"github.com/gowdl/wdlsem/internal/diag"
	"github.com/gowdl/wdlsem/internal/eval"
)

// recordKindName renders an ast.LiteralRecordKind for diagnostic messages.
func recordKindName(k ast.LiteralRecordKind) string {
	switch k {
	case ast.LiteralHints:
		return "hints"
	case ast.LiteralInput:
		return "input"
	case ast.LiteralOutput:
		return "output"
	case ast.LiteralMeta:
		return "meta"
	default:
		return "literal"
	}
}

// evalLiteralRecord type-checks a hints/input/output/meta literal per
// spec.md §4.4: a literal of a different kind may sit directly in the
// section's own record but not inside an already-nested literal, and
// nesting the same kind is forbidden at any depth (not just directly).
// Only nesting is checked: a nested literal's kind is not compared
// against a type expected by its enclosing slot, so no TypeMismatch is
// reported here.
func (a *analyzer) evalLiteralRecord(rec *ast.LiteralRecord, e *eval.Evaluator, ancestorKinds map[ast.LiteralRecordKind]bool) {
	if ancestorKinds[rec.Kind] {
		a.sink.Errorf(diag.RuleNestedLiteralKind, rec.Span(),
			fmt.Sprintf("%s literal cannot be nested inside another %s literal at any depth", recordKindName(rec.Kind), recordKindName(rec.Kind)))
	}

	childAncestors := make(map[ast.LiteralRecordKind]bool, len(ancestorKinds)+1)
	for k := range ancestorKinds {
		childAncestors[k] = true
	}
	childAncestors[rec.Kind] = true

	for _, entry := range rec.Entries {
		if entry.Nested != nil {
			if entry.Nested.Kind != rec.Kind && len(ancestorKinds) > 0 {
				// Different kind nested inside an already-nested literal is
				// still disallowed; same rule id covers both directions.
				a.sink.Errorf(diag.RuleNestedLiteralKind, entry.Nested.Span(),
					fmt.Sprintf("%s literal cannot appear nested inside a %s literal", recordKindName(entry.Nested.Kind), recordKindName(rec.Kind)))
			}
			a.evalLiteralRecord(entry.Nested, e, childAncestors)
			continue
		}
		if entry.Value != nil {
			e.Eval(entry.Value)
		}
	}
}
